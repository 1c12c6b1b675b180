package domain

import (
	"errors"
	"time"
)

// Role is the authorization level embedded in a session token.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

var (
	ErrUserNotFound = errors.New("user not found")

	ErrUserExists         = &Error{Kind: KindConflict, Message: "User already exists"}
	ErrInvalidCredentials = &Error{Kind: KindUnauthorized, Message: "Invalid credentials"}
)

// User models an account able to obtain session tokens.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
