package docsystem

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reqgen/internal/domain"
	"reqgen/internal/domain/models"
	"reqgen/internal/domain/repositories"
	"reqgen/internal/domain/services"
	"reqgen/internal/repository/memory"
)

var (
	admin   = models.Identity{UserID: "u-admin", Role: models.RoleAdmin, Name: "System Administrator"}
	analyst = models.Identity{UserID: "u-analyst", Role: models.RoleAnalyst, Name: "Business Analyst"}
	client  = models.Identity{UserID: "u-client", Role: models.RoleClient, Name: "Client User"}
)

type fixture struct {
	docs      services.DocumentService
	notifier  services.NotificationService
	notifRepo repositories.NotificationRepository
	docRepo   repositories.DocumentRepository
	tx        repositories.TransactionManager
	now       time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore(logger)

	users := memory.NewUserRepository(store)
	for _, id := range []models.Identity{admin, analyst, client} {
		require.NoError(t, users.Create(ctx, &models.User{
			ID:           id.UserID,
			Username:     string(id.Role),
			Email:        string(id.Role) + "@reqgen.com",
			PasswordHash: "x",
			Role:         id.Role,
			Name:         id.Name,
		}))
	}

	f := &fixture{
		notifRepo: memory.NewNotificationRepository(store),
		docRepo:   memory.NewDocumentRepository(store),
		tx:        memory.NewTransactionManager(store),
		now:       time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return f.now }

	notifier := NewNotificationService(f.notifRepo, users, f.tx, logger)
	notifier.(*notificationService).now = clock
	f.notifier = notifier

	docs := NewDocumentService(f.docRepo, notifier, f.tx, logger)
	docs.(*documentService).now = clock
	f.docs = docs

	return f
}

func (f *fixture) tick() {
	f.now = f.now.Add(time.Minute)
}

func strPtr(s string) *string { return &s }

func statusPtr(s models.DocumentStatus) *models.DocumentStatus { return &s }

func validCreate() *services.CreateDocumentRequest {
	return &services.CreateDocumentRequest{
		Name:         "Checkout BRD",
		Type:         models.DocumentTypeBRD,
		Content:      "<h1>Checkout</h1><p>v1</p>",
		OriginalNote: "customers want one-click checkout",
	}
}

func (f *fixture) create(t *testing.T) *models.Document {
	t.Helper()
	doc, err := f.docs.CreateDocument(context.Background(), analyst, validCreate())
	require.NoError(t, err)
	return doc
}

func (f *fixture) inbox(t *testing.T, id models.Identity) []models.InboxItem {
	t.Helper()
	items, err := f.notifier.ListForUser(context.Background(), id.UserID)
	require.NoError(t, err)
	return items
}

func TestCreateDocument_Defaults(t *testing.T) {
	f := newFixture(t)

	first := f.create(t)
	second := f.create(t)

	for _, doc := range []*models.Document{first, second} {
		assert.NotEmpty(t, doc.ID)
		assert.Equal(t, models.StatusPending, doc.Status)
		assert.Nil(t, doc.PreviousContent)
		assert.Nil(t, doc.LastUpdatedAt)
		assert.Nil(t, doc.UpdatedBy)
		assert.Equal(t, f.now, doc.CreatedAt)
	}
	assert.NotEqual(t, first.ID, second.ID)
}

func TestCreateDocument_CallerStatus(t *testing.T) {
	f := newFixture(t)
	req := validCreate()
	req.Status = statusPtr(models.StatusApproved)

	doc, err := f.docs.CreateDocument(context.Background(), admin, req)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, doc.Status)
}

func TestCreateDocument_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*services.CreateDocumentRequest)
		field  string
	}{
		{"missing name", func(r *services.CreateDocumentRequest) { r.Name = "" }, "name"},
		{"blank name", func(r *services.CreateDocumentRequest) { r.Name = "   " }, "name"},
		{"missing type", func(r *services.CreateDocumentRequest) { r.Type = "" }, "type"},
		{"unknown type", func(r *services.CreateDocumentRequest) { r.Type = "rfc" }, "type"},
		{"missing content", func(r *services.CreateDocumentRequest) { r.Content = "" }, "content"},
		{"missing note", func(r *services.CreateDocumentRequest) { r.OriginalNote = "" }, "originalNote"},
		{"bad status", func(r *services.CreateDocumentRequest) { r.Status = statusPtr("archived") }, "status"},
		{"empty status", func(r *services.CreateDocumentRequest) { r.Status = statusPtr("") }, "status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			req := validCreate()
			tt.mutate(req)

			_, err := f.docs.CreateDocument(context.Background(), analyst, req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrValidation))

			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestCreateDocument_ClientForbidden(t *testing.T) {
	f := newFixture(t)

	_, err := f.docs.CreateDocument(context.Background(), client, validCreate())
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestUpdateDocument_StampsEditor(t *testing.T) {
	f := newFixture(t)
	doc := f.create(t)
	f.tick()

	updated, err := f.docs.UpdateDocument(context.Background(), admin, doc.ID, &services.AdminUpdate{
		ProjectName: services.OptionalText{Present: true, Value: strPtr("Storefront")},
	})
	require.NoError(t, err)

	require.NotNil(t, updated.LastUpdatedAt)
	assert.Equal(t, f.now, *updated.LastUpdatedAt)
	require.NotNil(t, updated.UpdatedBy)
	assert.Equal(t, admin.Name, *updated.UpdatedBy)
	assert.Equal(t, "Storefront", *updated.ProjectName)
	assert.Equal(t, doc.CreatedAt, updated.CreatedAt)
}

func TestUpdateDocument_SnapshotIsOneShot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	doc := f.create(t)
	original := doc.Content

	// unchanged content does not take a snapshot
	same, err := f.docs.UpdateDocument(ctx, analyst, doc.ID, &services.AdminUpdate{Content: strPtr(original)})
	require.NoError(t, err)
	assert.Nil(t, same.PreviousContent)

	v2, err := f.docs.UpdateDocument(ctx, analyst, doc.ID, &services.AdminUpdate{Content: strPtr("v2")})
	require.NoError(t, err)
	require.NotNil(t, v2.PreviousContent)
	assert.Equal(t, original, *v2.PreviousContent)

	v3, err := f.docs.UpdateDocument(ctx, admin, doc.ID, &services.AdminUpdate{Content: strPtr("v3")})
	require.NoError(t, err)
	assert.Equal(t, "v3", v3.Content)
	assert.Equal(t, original, *v3.PreviousContent)

	stored, err := f.docs.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, original, *stored.PreviousContent)
}

func TestUpdateDocument_ClientFieldsAreNarrowed(t *testing.T) {
	f := newFixture(t)
	doc := f.create(t)

	updated, err := f.docs.UpdateDocument(context.Background(), client, doc.ID, &services.AdminUpdate{
		Name:    strPtr("X"),
		Content: strPtr("client rewrite"),
		Status:  statusPtr(models.StatusApproved),
	})
	require.NoError(t, err)

	assert.Equal(t, doc.Name, updated.Name)
	assert.Equal(t, doc.Content, updated.Content)
	assert.Nil(t, updated.PreviousContent, "client edits never snapshot")
	assert.Equal(t, models.StatusApproved, updated.Status)
	assert.Equal(t, client.Name, *updated.UpdatedBy)
}

func TestUpdateDocument_ClientValidation(t *testing.T) {
	tests := []struct {
		name   string
		update *services.ClientUpdate
		field  string
	}{
		{"unknown status", &services.ClientUpdate{Status: statusPtr("archived")}, "status"},
		{"empty status", &services.ClientUpdate{Status: statusPtr("")}, "status"},
		{"needs changes without message", &services.ClientUpdate{Status: statusPtr(models.StatusNeedsChanges)}, "clientMessage"},
		{"needs changes with blank message", &services.ClientUpdate{Status: statusPtr(models.StatusNeedsChanges), ClientMessage: strPtr("  ")}, "clientMessage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			doc := f.create(t)

			_, err := f.docs.UpdateDocument(context.Background(), client, doc.ID, tt.update)
			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
			assert.Empty(t, f.inbox(t, admin))
		})
	}
}

func TestUpdateDocument_ClientMessageClearedWhenAbsent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	doc := f.create(t)

	_, err := f.docs.UpdateDocument(ctx, client, doc.ID, &services.ClientUpdate{
		Status:        statusPtr(models.StatusNeedsChanges),
		ClientMessage: strPtr("fix the totals"),
	})
	require.NoError(t, err)

	updated, err := f.docs.UpdateDocument(ctx, client, doc.ID, &services.ClientUpdate{Status: statusPtr(models.StatusApproved)})
	require.NoError(t, err)
	assert.Nil(t, updated.ClientMessage)
}

func TestUpdateDocument_ClientApprovalNotifiesEditors(t *testing.T) {
	f := newFixture(t)
	doc := f.create(t)

	_, err := f.docs.UpdateDocument(context.Background(), client, doc.ID, &services.ClientUpdate{Status: statusPtr(models.StatusApproved)})
	require.NoError(t, err)

	for _, id := range []models.Identity{admin, analyst} {
		items := f.inbox(t, id)
		require.Len(t, items, 1, id.Role)
		assert.Equal(t, TitleApproved, items[0].Title)
		assert.Equal(t, MessageApproved, items[0].Message)
		assert.Equal(t, models.TargetAll, items[0].TargetRole)
		assert.Equal(t, models.RoleClient, *items[0].CreatorRole)
		assert.Equal(t, doc.ID, *items[0].DocumentID)
		assert.False(t, items[0].IsRead)
	}
	assert.Empty(t, f.inbox(t, client))
}

func TestUpdateDocument_NoNotificationOnNeutralUpdates(t *testing.T) {
	tests := []struct {
		name   string
		actor  models.Identity
		update services.DocumentUpdate
	}{
		{"editor approves", admin, &services.AdminUpdate{Status: statusPtr(models.StatusApproved)}},
		{"editor requests changes", analyst, &services.AdminUpdate{Status: statusPtr(models.StatusNeedsChanges)}},
		{"editor resets to pending", admin, &services.AdminUpdate{Status: statusPtr(models.StatusPending)}},
		{"client resets to pending", client, &services.ClientUpdate{Status: statusPtr(models.StatusPending)}},
		{"client only comments", client, &services.ClientUpdate{ClientMessage: strPtr("looks fine so far")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			doc := f.create(t)

			_, err := f.docs.UpdateDocument(context.Background(), tt.actor, doc.ID, tt.update)
			require.NoError(t, err)
			assert.Empty(t, f.inbox(t, admin))
			assert.Empty(t, f.inbox(t, analyst))
		})
	}
}

func TestUpdateDocument_ChangesRequestedScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	doc := f.create(t)

	updated, err := f.docs.UpdateDocument(ctx, client, doc.ID, &services.ClientUpdate{
		Status:        statusPtr(models.StatusNeedsChanges),
		ClientMessage: strPtr("fix X"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusNeedsChanges, updated.Status)
	assert.Equal(t, "fix X", *updated.ClientMessage)

	adminInbox := f.inbox(t, admin)
	require.Len(t, adminInbox, 1)
	n := adminInbox[0]
	assert.Equal(t, TitleChangesRequested, n.Title)
	assert.Equal(t, doc.ID, *n.DocumentID)
	assert.Equal(t, doc.Name, *n.DocumentName)

	analystInbox := f.inbox(t, analyst)
	require.Len(t, analystInbox, 1)
	assert.Equal(t, n.ID, analystInbox[0].ID)

	receipts, err := f.notifRepo.ListReceipts(ctx, n.ID)
	require.NoError(t, err)
	assert.Len(t, receipts, 2)
	for _, r := range receipts {
		assert.False(t, r.IsRead)
		assert.Nil(t, r.ReadAt)
	}
}

type failingNotifier struct {
	services.NotificationService
}

func (failingNotifier) Publish(context.Context, *models.Notification) (*models.Notification, error) {
	return nil, errors.New("inbox offline")
}

func TestUpdateDocument_RollsBackWhenNotificationFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	doc := f.create(t)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	docs := NewDocumentService(f.docRepo, failingNotifier{}, f.tx, logger)

	_, err := docs.UpdateDocument(ctx, client, doc.ID, &services.ClientUpdate{Status: statusPtr(models.StatusApproved)})
	require.Error(t, err)

	stored, err := f.docs.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.Status)
	assert.Nil(t, stored.UpdatedBy)
}

func TestUpdateDocument_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.docs.UpdateDocument(context.Background(), admin, "missing", &services.AdminUpdate{Name: strPtr("x")})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestUpdateDocument_EditorValidation(t *testing.T) {
	docType := func(v string) *models.DocumentType {
		dt := models.DocumentType(v)
		return &dt
	}

	tests := []struct {
		name   string
		update *services.AdminUpdate
		field  string
	}{
		{"unknown type", &services.AdminUpdate{Type: docType("memo")}, "type"},
		{"empty type", &services.AdminUpdate{Type: docType("")}, "type"},
		{"unknown status", &services.AdminUpdate{Status: statusPtr("archived")}, "status"},
		{"empty status", &services.AdminUpdate{Status: statusPtr("")}, "status"},
		{"empty content", &services.AdminUpdate{Content: strPtr("")}, "content"},
		{"empty name", &services.AdminUpdate{Name: strPtr("")}, "name"},
		{"blank name", &services.AdminUpdate{Name: strPtr("   ")}, "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			doc := f.create(t)

			_, err := f.docs.UpdateDocument(context.Background(), admin, doc.ID, tt.update)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrValidation))

			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)

			stored, err := f.docs.GetDocument(context.Background(), doc.ID)
			require.NoError(t, err)
			assert.Equal(t, doc.Name, stored.Name)
			assert.Equal(t, doc.Type, stored.Type)
			assert.Equal(t, doc.Status, stored.Status)
		})
	}
}

func TestUpdateDocument_EditorNameIsTrimmed(t *testing.T) {
	f := newFixture(t)
	doc := f.create(t)

	updated, err := f.docs.UpdateDocument(context.Background(), admin, doc.ID, &services.AdminUpdate{Name: strPtr("  Checkout SRS  ")})
	require.NoError(t, err)
	assert.Equal(t, "Checkout SRS", updated.Name)
}

func TestDeleteDocument(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	doc := f.create(t)

	assert.True(t, errors.Is(f.docs.DeleteDocument(ctx, client, doc.ID), domain.ErrForbidden))

	require.NoError(t, f.docs.DeleteDocument(ctx, admin, doc.ID))
	_, err := f.docs.GetDocument(ctx, doc.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	assert.True(t, errors.Is(f.docs.DeleteDocument(ctx, admin, doc.ID), domain.ErrNotFound))
}

func TestListDocuments_CreationOrder(t *testing.T) {
	f := newFixture(t)
	first := f.create(t)
	f.tick()
	second := f.create(t)

	docs, err := f.docs.ListDocuments(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, first.ID, docs[0].ID)
	assert.Equal(t, second.ID, docs[1].ID)
}
