package models

import "time"

// Settings is the single global branding row used when rendering documents.
// APIKey is stored for the UI but never logged.
type Settings struct {
	CompanyName string    `json:"companyName"`
	Address     string    `json:"address"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email"`
	APIKey      string    `json:"apiKey"`
	Logo        string    `json:"logo"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// UpdateSettingsRequest replaces every settings field. Absent fields become empty strings.
type UpdateSettingsRequest struct {
	CompanyName string `json:"companyName"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	APIKey      string `json:"apiKey"`
	Logo        string `json:"logo"`
}
