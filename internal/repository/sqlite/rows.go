package sqlite

import (
	"time"

	"reqgen/internal/domain/models"
)

type userRow struct {
	ID           string `gorm:"primaryKey"`
	Username     string `gorm:"not null;uniqueIndex"`
	Email        string `gorm:"not null;uniqueIndex"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"not null;index"`
	Name         string `gorm:"not null"`
}

func newUserRow(u *models.User) *userRow {
	return &userRow{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		Name:         u.Name,
	}
}

func (r *userRow) model() models.User {
	return models.User{
		ID:           r.ID,
		Username:     r.Username,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Role:         models.Role(r.Role),
		Name:         r.Name,
	}
}

type documentRow struct {
	ID              string    `gorm:"primaryKey"`
	Name            string    `gorm:"not null"`
	Type            string    `gorm:"not null"`
	Content         string    `gorm:"not null"`
	OriginalNote    string    `gorm:"not null"`
	RefinedNote     *string
	CompanyName     *string
	ProjectName     *string
	Status          string    `gorm:"not null"`
	ClientMessage   *string
	CreatedAt       time.Time `gorm:"not null;index"`
	LastUpdatedAt   *time.Time
	UpdatedBy       *string
	PreviousContent *string
}

func newDocumentRow(d *models.Document) *documentRow {
	return &documentRow{
		ID:              d.ID,
		Name:            d.Name,
		Type:            string(d.Type),
		Content:         d.Content,
		OriginalNote:    d.OriginalNote,
		RefinedNote:     d.RefinedNote,
		CompanyName:     d.CompanyName,
		ProjectName:     d.ProjectName,
		Status:          string(d.Status),
		ClientMessage:   d.ClientMessage,
		CreatedAt:       d.CreatedAt,
		LastUpdatedAt:   d.LastUpdatedAt,
		UpdatedBy:       d.UpdatedBy,
		PreviousContent: d.PreviousContent,
	}
}

func (r *documentRow) model() models.Document {
	return models.Document{
		ID:              r.ID,
		Name:            r.Name,
		Type:            models.DocumentType(r.Type),
		Content:         r.Content,
		OriginalNote:    r.OriginalNote,
		RefinedNote:     r.RefinedNote,
		CompanyName:     r.CompanyName,
		ProjectName:     r.ProjectName,
		Status:          models.DocumentStatus(r.Status),
		ClientMessage:   r.ClientMessage,
		CreatedAt:       r.CreatedAt,
		LastUpdatedAt:   r.LastUpdatedAt,
		UpdatedBy:       r.UpdatedBy,
		PreviousContent: r.PreviousContent,
	}
}

type notificationRow struct {
	ID           string `gorm:"primaryKey"`
	Title        string `gorm:"not null"`
	Message      string `gorm:"not null"`
	TargetRole   string `gorm:"not null"`
	DocumentID   *string
	DocumentName *string
	CreatorRole  *string
	CreatedAt    time.Time `gorm:"not null;index"`
}

func newNotificationRow(n *models.Notification) *notificationRow {
	row := &notificationRow{
		ID:           n.ID,
		Title:        n.Title,
		Message:      n.Message,
		TargetRole:   n.TargetRole,
		DocumentID:   n.DocumentID,
		DocumentName: n.DocumentName,
		CreatedAt:    n.CreatedAt,
	}
	if n.CreatorRole != nil {
		role := string(*n.CreatorRole)
		row.CreatorRole = &role
	}
	return row
}

type receiptRow struct {
	ID             string `gorm:"primaryKey"`
	NotificationID string `gorm:"not null;uniqueIndex:receipt_pair"`
	UserID         string `gorm:"not null;uniqueIndex:receipt_pair;index"`
	IsRead         bool   `gorm:"not null"`
	ReadAt         *time.Time
}

func (r *receiptRow) model() models.UserNotification {
	return models.UserNotification{
		ID:             r.ID,
		NotificationID: r.NotificationID,
		UserID:         r.UserID,
		IsRead:         r.IsRead,
		ReadAt:         r.ReadAt,
	}
}

// inboxRow is the scan target of the receipt/notification join
type inboxRow struct {
	ID           string
	Title        string
	Message      string
	TargetRole   string
	DocumentID   *string
	DocumentName *string
	CreatorRole  *string
	CreatedAt    time.Time
	IsRead       bool
	ReadAt       *time.Time
}

func (r *inboxRow) model() models.InboxItem {
	item := models.InboxItem{
		Notification: models.Notification{
			ID:           r.ID,
			Title:        r.Title,
			Message:      r.Message,
			TargetRole:   r.TargetRole,
			DocumentID:   r.DocumentID,
			DocumentName: r.DocumentName,
			CreatedAt:    r.CreatedAt,
		},
		IsRead: r.IsRead,
		ReadAt: r.ReadAt,
	}
	if r.CreatorRole != nil {
		role := models.Role(*r.CreatorRole)
		item.CreatorRole = &role
	}
	return item
}

type settingsRow struct {
	ID          uint `gorm:"primaryKey;autoIncrement:false"`
	CompanyName string
	Address     string
	Phone       string
	Email       string
	APIKey      string
	Logo        string
	UpdatedAt   time.Time
}
