package models

// Role identifies what an actor may do. Stored as plain text in every adapter.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleAnalyst Role = "analyst"
	RoleClient  Role = "client"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleAnalyst, RoleClient:
		return true
	}
	return false
}

// IsEditor reports whether the role may edit any document field (admin or analyst)
func (r Role) IsEditor() bool {
	return r == RoleAdmin || r == RoleAnalyst
}

// User is a registered account. PasswordHash is a bcrypt hash and never serialized.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
	Name         string `json:"name"`
}

// Identity is the acting user attached to a request.
// Name is what gets stamped into Document.UpdatedBy.
type Identity struct {
	UserID string `json:"id"`
	Role   Role   `json:"role"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
}
