package models

import "time"

// TargetAll addresses every admin and analyst user
const TargetAll = "all"

// Notification is a broadcast message created once and never modified.
// TargetRole is one of admin, analyst, client or "all".
type Notification struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Message      string    `json:"message"`
	TargetRole   string    `json:"targetRole"`
	DocumentID   *string   `json:"documentId"`
	DocumentName *string   `json:"documentName"`
	CreatorRole  *Role     `json:"creatorRole"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UserNotification is the per-recipient read receipt of a Notification
type UserNotification struct {
	ID             string     `json:"id"`
	NotificationID string     `json:"notificationId"`
	UserID         string     `json:"userId"`
	IsRead         bool       `json:"isRead"`
	ReadAt         *time.Time `json:"readAt"`
}

// InboxItem is a notification joined with one user's read state
type InboxItem struct {
	Notification
	IsRead bool       `json:"isRead"`
	ReadAt *time.Time `json:"readAt"`
}
