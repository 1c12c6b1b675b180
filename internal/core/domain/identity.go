package domain

import "errors"

var (
	ErrTokenExpired     = errors.New("token has expired")
	ErrTokenInvalid     = errors.New("invalid token")
	ErrCredentialFormat = errors.New("malformed password digest")
)

// Identity is the authenticated caller decoded from a session token.
type Identity struct {
	SubjectID string
	Role      Role
}
