package ports

import (
	"context"

	"github.com/99minutos/catalog-api/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	// Create inserts user and returns it with its store-assigned ID.
	// A duplicate email yields domain.ErrUserExists.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// FindByEmail returns domain.ErrUserNotFound when no account matches.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateRole(ctx context.Context, email string, role domain.Role) error
}
