package docsystem

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"reqgen/internal/config"
	"reqgen/internal/domain"
	"reqgen/internal/domain/models"
	"reqgen/internal/domain/services"
)

// Notification texts for client review decisions
const (
	TitleApproved         = "Document Approved"
	MessageApproved       = "Document has been approved by client"
	TitleChangesRequested = "Changes Requested"
	MessageChangesRequest = "Client has requested changes to the document"
)

// applyUpdate mutates doc according to what actor's role may change.
// It returns the status a client decided on when that decision must be
// broadcast (approved or needs_changes), nil otherwise.
func applyUpdate(doc *models.Document, actor models.Identity, update services.DocumentUpdate) (*models.DocumentStatus, error) {
	if update == nil {
		return nil, domain.NewValidationError("body", "update is empty")
	}

	switch {
	case actor.Role == models.RoleClient:
		return applyClientUpdate(doc, update.ClientView())
	case actor.Role.IsEditor():
		return nil, applyEditorUpdate(doc, asAdminUpdate(update))
	default:
		return nil, &domain.ForbiddenError{Message: fmt.Sprintf("role %q may not update documents", actor.Role)}
	}
}

func applyClientUpdate(doc *models.Document, u *services.ClientUpdate) (*models.DocumentStatus, error) {
	message := normalizeText(u.ClientMessage)

	err := validation.Errors{
		"status":        validation.Validate(u.Status, validation.NilOrNotEmpty, statusRule()),
		"clientMessage": validation.Validate(message, validation.Length(0, config.MaxClientMessageLength)),
	}.Filter()
	if err != nil {
		return nil, toValidationError(err)
	}

	if u.Status != nil && *u.Status == models.StatusNeedsChanges && message == nil {
		return nil, domain.NewValidationError("clientMessage", "clientMessage is required when requesting changes")
	}

	if u.Status != nil {
		doc.Status = *u.Status
	}
	doc.ClientMessage = message

	if u.Status != nil && (*u.Status == models.StatusApproved || *u.Status == models.StatusNeedsChanges) {
		status := *u.Status
		return &status, nil
	}
	return nil, nil
}

func applyEditorUpdate(doc *models.Document, update *services.AdminUpdate) error {
	// names are stored trimmed, so they are checked trimmed
	u := *update
	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		u.Name = &name
	}

	err := validation.ValidateStruct(&u,
		validation.Field(&u.Name, validation.NilOrNotEmpty, validation.Length(1, config.MaxDocumentNameLength)),
		validation.Field(&u.Type, validation.NilOrNotEmpty, documentTypeRule()),
		validation.Field(&u.Content, validation.NilOrNotEmpty),
		validation.Field(&u.OriginalNote, validation.NilOrNotEmpty, validation.Length(1, config.MaxNoteLength)),
		validation.Field(&u.Status, validation.NilOrNotEmpty, statusRule()),
	)
	if err == nil {
		err = validation.Errors{
			"refinedNote":   validation.Validate(u.RefinedNote.Value, validation.Length(0, config.MaxNoteLength)),
			"companyName":   validation.Validate(u.CompanyName.Value, validation.Length(0, config.MaxCompanyNameLength)),
			"projectName":   validation.Validate(u.ProjectName.Value, validation.Length(0, config.MaxCompanyNameLength)),
			"clientMessage": validation.Validate(u.ClientMessage.Value, validation.Length(0, config.MaxClientMessageLength)),
		}.Filter()
	}
	if err != nil {
		return toValidationError(err)
	}

	if u.Name != nil {
		doc.Name = *u.Name
	}
	if u.Type != nil {
		doc.Type = *u.Type
	}
	if u.Content != nil && *u.Content != doc.Content {
		// First changing edit keeps the original text; later edits leave it alone
		if doc.PreviousContent == nil {
			previous := doc.Content
			doc.PreviousContent = &previous
		}
		doc.Content = *u.Content
	}
	if u.OriginalNote != nil {
		doc.OriginalNote = *u.OriginalNote
	}
	if u.RefinedNote.Present {
		doc.RefinedNote = u.RefinedNote.Value
	}
	if u.CompanyName.Present {
		doc.CompanyName = normalizeText(u.CompanyName.Value)
	}
	if u.ProjectName.Present {
		doc.ProjectName = normalizeText(u.ProjectName.Value)
	}
	if u.Status != nil {
		doc.Status = *u.Status
	}
	if u.ClientMessage.Present {
		doc.ClientMessage = normalizeText(u.ClientMessage.Value)
	}

	return nil
}

// asAdminUpdate widens a client-shaped update sent by an editor
func asAdminUpdate(update services.DocumentUpdate) *services.AdminUpdate {
	if au, ok := update.(*services.AdminUpdate); ok {
		return au
	}
	cu := update.ClientView()
	return &services.AdminUpdate{
		Status:        cu.Status,
		ClientMessage: services.OptionalText{Present: true, Value: cu.ClientMessage},
	}
}

// notificationFor builds the broadcast for a client review decision
func notificationFor(doc *models.Document, status models.DocumentStatus) *models.Notification {
	title, message := TitleApproved, MessageApproved
	if status == models.StatusNeedsChanges {
		title, message = TitleChangesRequested, MessageChangesRequest
	}

	creator := models.RoleClient
	docID, docName := doc.ID, doc.Name
	return &models.Notification{
		Title:        title,
		Message:      message,
		TargetRole:   models.TargetAll,
		DocumentID:   &docID,
		DocumentName: &docName,
		CreatorRole:  &creator,
	}
}

// normalizeText trims s and maps blank to nil
func normalizeText(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
