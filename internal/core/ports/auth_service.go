package ports

import (
	"context"

	"github.com/99minutos/catalog-api/internal/core/domain"
)

// AuthService registers accounts and exchanges credentials for session tokens.
type AuthService interface {
	Register(ctx context.Context, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
}

// TokenVerifier decodes a session token into the caller's identity.
type TokenVerifier interface {
	VerifyToken(token string) (domain.Identity, error)
}
