package models

import "github.com/golang-jwt/jwt/v5"

// Claims is the JWT payload issued at login and accepted by the auth middleware.
type Claims struct {
	jwt.RegisteredClaims        // sub = user id, exp, iat, iss
	Role                 Role   `json:"role"`
	Name                 string `json:"name"`
	Email                string `json:"email"`
}

// GetUserID returns the user ID from the JWT subject claim.
func (c *Claims) GetUserID() string {
	return c.Subject
}

// Identity converts verified claims into the request actor
func (c *Claims) Identity() Identity {
	return Identity{
		UserID: c.Subject,
		Role:   c.Role,
		Name:   c.Name,
		Email:  c.Email,
	}
}

// LoginRequest is the body of POST /api/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// LoginResponse carries the authenticated user and a bearer token
type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}
