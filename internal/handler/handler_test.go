package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reqgen/internal/auth"
	"reqgen/internal/config"
	"reqgen/internal/domain/models"
	"reqgen/internal/domain/services"
	"reqgen/internal/httputil"
	"reqgen/internal/middleware"
	"reqgen/internal/repository/memory"
	"reqgen/internal/seed"
	"reqgen/internal/service"
	authsvc "reqgen/internal/service/auth"
	"reqgen/internal/service/docsystem"
	"reqgen/internal/service/export"
	"reqgen/internal/service/llm"
	"reqgen/internal/templates"
)

type stubRenderer struct{}

func (stubRenderer) RenderHTML(ctx context.Context, title, html string, branding *models.Settings) ([]byte, error) {
	return []byte("%PDF-stub"), nil
}

type recordingMailer struct {
	sent []*services.EmailMessage
}

func (m *recordingMailer) Send(ctx context.Context, msg *services.EmailMessage) error {
	m.sent = append(m.sent, msg)
	return nil
}

type stubAI struct {
	fail bool
}

func (s *stubAI) Name() string { return "stub" }

func (s *stubAI) Summarize(ctx context.Context, text string) (*services.Summary, error) {
	if s.fail {
		return nil, errors.New("down")
	}
	return &services.Summary{Summary: "short"}, nil
}

func (s *stubAI) Generate(ctx context.Context, req *services.GenerateRequest) (*services.GeneratedDocument, error) {
	if s.fail {
		return nil, errors.New("down")
	}
	return &services.GeneratedDocument{Document: "# Draft"}, nil
}

func (s *stubAI) Transcribe(ctx context.Context, audio *services.AudioInput) (*services.Transcript, error) {
	if s.fail {
		return nil, errors.New("down")
	}
	data, _ := io.ReadAll(audio.Data)
	return &services.Transcript{Transcript: string(data), Language: "en"}, nil
}

type testServer struct {
	handler http.Handler
	mailer  *recordingMailer
	ai      *stubAI
	tokens  map[models.Role]string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := memory.NewStore(logger)
	users := memory.NewUserRepository(store)
	docRepo := memory.NewDocumentRepository(store)
	notifRepo := memory.NewNotificationRepository(store)
	settingsRepo := memory.NewSettingsRepository(store)
	txManager := memory.NewTransactionManager(store)

	_, err := seed.NewUserSeeder(users, logger).Seed(ctx)
	require.NoError(t, err)

	tokens, err := auth.NewHMACTokens("test-secret-0123456789", time.Hour, logger)
	require.NoError(t, err)

	registry, err := templates.NewRegistry()
	require.NoError(t, err)

	analyzer := docsystem.NewContentAnalyzer()
	notifService := docsystem.NewNotificationService(notifRepo, users, txManager, logger)
	ai := &stubAI{}
	mailer := &recordingMailer{}

	handlers := &Handlers{
		Storage:       config.StorageMemory,
		Auth:          NewAuthHandler(authsvc.NewLoginService(users, tokens, logger), logger),
		Documents:     NewDocumentHandler(docsystem.NewDocumentService(docRepo, notifService, txManager, logger), logger),
		Notifications: NewNotificationHandler(notifService, logger),
		Settings:      NewSettingsHandler(service.NewSettingsService(settingsRepo, logger), logger),
		Export: NewExportHandler(export.NewExportService(docRepo, settingsRepo, stubRenderer{},
			export.NewMarkdownExporter(), mailer, logger), logger),
		AI: NewAIHandler(llm.NewAIService(llm.Chains{
			Summarizers:  []services.Summarizer{ai},
			Generators:   []services.DocumentGenerator{ai},
			Transcribers: []services.Transcriber{ai},
		}, analyzer, logger), registry, logger),
	}

	mux := http.NewServeMux()
	handlers.Register(mux, authsvc.NewRoleAuthorizer(authsvc.DefaultGrants()))

	srv := &testServer{
		handler: middleware.AuthMiddleware(tokens, false, logger)(mux),
		mailer:  mailer,
		ai:      ai,
		tokens:  map[models.Role]string{},
	}
	for _, demo := range seed.DemoUsers {
		srv.tokens[demo.Role] = srv.login(t, demo.Email, demo.Password, demo.Role)
	}
	return srv
}

func (s *testServer) do(t *testing.T, method, path string, role models.Role, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", "Bearer "+s.tokens[role])
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) login(t *testing.T, email, password string, role models.Role) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/login", "", map[string]string{
		"email": email, "password": password, "role": string(role),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp models.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (s *testServer) createDocument(t *testing.T, name string) models.Document {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/documents", models.RoleAnalyst, map[string]interface{}{
		"name":         name,
		"type":         "brd",
		"content":      "<p>v1</p>",
		"originalNote": "note",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[models.Document](t, rec)
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]interface{}](t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "memory", body["storage"])
}

func TestLoginAndMe(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/login", "", map[string]string{
		"email": "client@reqgen.com", "password": "client123", "role": "admin",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid email, password, or role", decode[map[string]interface{}](t, rec)["detail"])

	rec = s.do(t, http.MethodGet, "/api/me", models.RoleClient, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[models.Identity](t, rec)
	assert.Equal(t, models.RoleClient, me.Role)
	assert.Equal(t, "Client User", me.Name)

	rec = s.do(t, http.MethodGet, "/api/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDocumentRoutes_RoleGuards(t *testing.T) {
	s := newTestServer(t)
	doc := s.createDocument(t, "Portal")

	tests := []struct {
		name   string
		method string
		path   string
		role   models.Role
		body   interface{}
		want   int
	}{
		{"anonymous list", http.MethodGet, "/api/documents", "", nil, http.StatusUnauthorized},
		{"client list", http.MethodGet, "/api/documents", models.RoleClient, nil, http.StatusOK},
		{"client create", http.MethodPost, "/api/documents", models.RoleClient, map[string]string{"name": "x"}, http.StatusForbidden},
		{"client delete", http.MethodDelete, "/api/documents/" + doc.ID, models.RoleClient, nil, http.StatusForbidden},
		{"analyst settings update", http.MethodPut, "/api/settings", models.RoleAnalyst, map[string]string{}, http.StatusForbidden},
		{"client send email", http.MethodPost, "/api/send-email", models.RoleClient, map[string]string{}, http.StatusForbidden},
		{"missing document", http.MethodGet, "/api/documents/does-not-exist", models.RoleAdmin, nil, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, tt.method, tt.path, tt.role, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestCreateDocument_Validation(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/documents", models.RoleAdmin, map[string]string{
		"name": "No content", "type": "brd", "originalNote": "n",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	problem := decode[map[string]interface{}](t, rec)
	assert.Equal(t, "content", problem["field"])
}

func TestUpdateDocument_ClientApprovalNotifies(t *testing.T) {
	s := newTestServer(t)
	doc := s.createDocument(t, "Portal")

	rec := s.do(t, http.MethodPatch, "/api/documents/"+doc.ID, models.RoleClient, map[string]interface{}{
		"status":  "approved",
		"content": "client tried to edit",
		"name":    "renamed",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[models.Document](t, rec)
	assert.Equal(t, models.StatusApproved, updated.Status)
	assert.Equal(t, "<p>v1</p>", updated.Content)
	assert.Equal(t, "Portal", updated.Name)
	require.NotNil(t, updated.UpdatedBy)
	assert.Equal(t, "Client User", *updated.UpdatedBy)

	for _, role := range []models.Role{models.RoleAdmin, models.RoleAnalyst} {
		rec = s.do(t, http.MethodGet, "/api/notifications", role, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		items := decode[[]models.InboxItem](t, rec)
		require.Len(t, items, 1, role)
		assert.Equal(t, "Document Approved", items[0].Title)
		assert.False(t, items[0].IsRead)
	}

	rec = s.do(t, http.MethodGet, "/api/notifications", models.RoleClient, nil)
	assert.Empty(t, decode[[]models.InboxItem](t, rec))
}

func TestUpdateDocument_ClientNeedsChangesRequiresMessage(t *testing.T) {
	s := newTestServer(t)
	doc := s.createDocument(t, "Portal")

	rec := s.do(t, http.MethodPatch, "/api/documents/"+doc.ID, models.RoleClient, map[string]interface{}{
		"status": "needs_changes",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPatch, "/api/documents/"+doc.ID, models.RoleClient, map[string]interface{}{
		"status":        "needs_changes",
		"clientMessage": "Please add a budget section",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[models.Document](t, rec)
	require.NotNil(t, updated.ClientMessage)
	assert.Equal(t, "Please add a budget section", *updated.ClientMessage)
}

func TestUpdateDocument_EditorSnapshotsContent(t *testing.T) {
	s := newTestServer(t)
	doc := s.createDocument(t, "Portal")

	rec := s.do(t, http.MethodPatch, "/api/documents/"+doc.ID, models.RoleAdmin, map[string]interface{}{
		"content":     "<p>v2</p>",
		"companyName": "Acme",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[models.Document](t, rec)
	require.NotNil(t, updated.PreviousContent)
	assert.Equal(t, "<p>v1</p>", *updated.PreviousContent)
	require.NotNil(t, updated.CompanyName)
	assert.Equal(t, "Acme", *updated.CompanyName)

	rec = s.do(t, http.MethodPatch, "/api/documents/"+doc.ID, models.RoleAnalyst, map[string]interface{}{
		"content":     "<p>v3</p>",
		"companyName": nil,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	updated = decode[models.Document](t, rec)
	assert.Equal(t, "<p>v1</p>", *updated.PreviousContent)
	assert.Nil(t, updated.CompanyName)
}

func TestListAndDeleteDocuments(t *testing.T) {
	s := newTestServer(t)
	first := s.createDocument(t, "First")
	second := s.createDocument(t, "Second")

	rec := s.do(t, http.MethodGet, "/api/documents", models.RoleClient, nil)
	docs := decode[[]models.Document](t, rec)
	require.Len(t, docs, 2)
	assert.Equal(t, first.ID, docs[0].ID)

	rec = s.do(t, http.MethodGet, "/api/documents?order=desc", models.RoleClient, nil)
	docs = decode[[]models.Document](t, rec)
	assert.Equal(t, second.ID, docs[0].ID)

	rec = s.do(t, http.MethodDelete, "/api/documents/"+first.ID, models.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode[map[string]interface{}](t, rec)["success"])

	rec = s.do(t, http.MethodDelete, "/api/documents/"+first.ID, models.RoleAdmin, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNotificationReadState(t *testing.T) {
	s := newTestServer(t)
	doc := s.createDocument(t, "Portal")

	for _, status := range []string{"approved", "approved"} {
		rec := s.do(t, http.MethodPatch, "/api/documents/"+doc.ID, models.RoleClient, map[string]string{"status": status})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	items := decode[[]models.InboxItem](t, s.do(t, http.MethodGet, "/api/notifications", models.RoleAdmin, nil))
	require.Len(t, items, 2)

	rec := s.do(t, http.MethodPatch, "/api/notifications/"+items[0].ID+"/read", models.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodPatch, "/api/notifications/"+items[0].ID+"/read", models.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPatch, "/api/notifications/unknown/read", models.RoleAdmin, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPatch, "/api/notifications/read-all", models.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	items = decode[[]models.InboxItem](t, s.do(t, http.MethodGet, "/api/notifications", models.RoleAdmin, nil))
	for _, item := range items {
		assert.True(t, item.IsRead)
	}

	// analyst receipts are untouched
	items = decode[[]models.InboxItem](t, s.do(t, http.MethodGet, "/api/notifications", models.RoleAnalyst, nil))
	for _, item := range items {
		assert.False(t, item.IsRead)
	}
}

func TestSettingsRoutes(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/settings", models.RoleClient, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "", decode[models.Settings](t, rec).CompanyName)

	rec = s.do(t, http.MethodPut, "/api/settings", models.RoleAdmin, map[string]string{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/settings", models.RoleAdmin, map[string]string{
		"companyName": "Acme", "email": "info@acme.com",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/settings", models.RoleAnalyst, nil)
	assert.Equal(t, "Acme", decode[models.Settings](t, rec).CompanyName)
}

func TestExportRoutes(t *testing.T) {
	s := newTestServer(t)
	doc := s.createDocument(t, "Portal")

	rec := s.do(t, http.MethodPost, "/api/generate-pdf", models.RoleClient, map[string]string{"documentName": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/generate-pdf", models.RoleClient, map[string]string{
		"documentHtml": "<p>hi</p>", "documentName": "Quote",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename=Quote.pdf`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-stub", rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/documents/"+doc.ID+"/markdown", models.RoleAnalyst, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "v1\n", rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/documents/"+doc.ID+"/pdf", models.RoleAnalyst, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/send-email", models.RoleAnalyst, map[string]string{
		"recipient": "client@example.com", "subject": "Doc",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/send-email", models.RoleAnalyst, map[string]string{
		"recipient": "client@example.com", "subject": "Doc", "documentHtml": "<p>hi</p>",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, s.mailer.sent, 1)
	assert.Equal(t, "document.pdf", s.mailer.sent[0].Attachments[0].Filename)
}

func TestAIRoutes(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/python-backend/summarize", models.RoleAnalyst, map[string]string{"text": "long note"})
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decode[services.Summary](t, rec)
	assert.Equal(t, "short", summary.Summary)
	assert.Equal(t, 2, summary.WordCount)

	rec = s.do(t, http.MethodPost, "/api/python-backend/summarize", models.RoleAnalyst, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/python-backend/summarize", models.RoleClient, map[string]string{"text": "x"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/python-backend/generate-document", models.RoleAdmin, map[string]interface{}{
		"text": "note", "document_type": "srs", "metadata": map[string]string{"project_name": "Apollo"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	generated := decode[services.GeneratedDocument](t, rec)
	assert.Equal(t, "# Draft", generated.Document)
	assert.Contains(t, generated.Filename, "srs_Apollo_")

	s.ai.fail = true
	rec = s.do(t, http.MethodPost, "/api/python-backend/summarize", models.RoleAnalyst, map[string]string{"text": "note"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "summarization service unavailable", decode[map[string]interface{}](t, rec)["detail"])

	rec = s.do(t, http.MethodGet, "/api/templates", models.RoleClient, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]templates.Template](t, rec), len(models.DocumentTypes))
}

func TestTranscribeRoute(t *testing.T) {
	s := newTestServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("audio", "memo.wav")
	require.NoError(t, err)
	_, _ = part.Write([]byte("hello world"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/transcribe", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.tokens[models.RoleAnalyst])
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	transcript := decode[services.Transcript](t, rec)
	assert.Equal(t, "hello world", transcript.Transcript)
	assert.Equal(t, 2, transcript.WordCount)
	assert.Equal(t, "memo.wav", transcript.Filename)

	var empty bytes.Buffer
	mw = multipart.NewWriter(&empty)
	require.NoError(t, mw.WriteField("language", "en"))
	require.NoError(t, mw.Close())
	req = httptest.NewRequest(http.MethodPost, "/api/transcribe", &empty)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.tokens[models.RoleAnalyst])
	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequestBodyLimits(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPut, "/api/settings", models.RoleAdmin, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid request body", decode[map[string]interface{}](t, rec)["detail"])

	rec = s.do(t, http.MethodPut, "/api/settings", models.RoleAdmin, map[string]string{
		"logo": strings.Repeat("A", httputil.MaxBodyBytes),
	})
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
