// Package auth handles account registration, login, logout and session
// lookup for the inventory service. Sessions are stateless signed tokens
// (see internal/token) carried in an HTTP-only cookie, with a bearer header
// accepted as a fallback carrier.
//
// This is a CORE plugin -- always enabled, cannot be disabled.
package auth

import (
	"time"
)

// User represents a registered account. PasswordHash is never serialized.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose in JSON responses.
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity is the public view of an account: what "who am I" answers.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Identity returns the public view of u.
func (u *User) Identity() *Identity {
	return &Identity{ID: u.ID, Email: u.Email}
}

// --- Request DTOs (bound from HTTP requests) ---

// RegisterRequest holds the data submitted to POST /api/auth/register.
type RegisterRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// LoginRequest holds the data submitted to POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// --- Service Input DTOs (passed from handler to service) ---

// RegisterInput is the input for creating a new account.
type RegisterInput struct {
	Email    string
	Password string
}

// LoginInput is the input for authenticating an account.
type LoginInput struct {
	Email    string
	Password string
}

// --- Response DTOs ---

// RegisterResponse is returned with 201 after a successful registration.
type RegisterResponse struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// MessageResponse is a bare {"message": ...} body.
type MessageResponse struct {
	Message string `json:"message"`
}
