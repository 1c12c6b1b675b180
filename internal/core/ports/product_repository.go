package ports

import (
	"context"

	"github.com/99minutos/catalog-api/internal/core/domain"
)

// ProductRepository defines persistence operations for products.
// Lookups by name return domain.ErrProductNotFound when nothing matches and
// writes that collide on name return domain.ErrProductExists.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	FindByName(ctx context.Context, name string) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	// UpdateByName applies the non-nil fields of in and returns the new document.
	UpdateByName(ctx context.Context, name string, in domain.ProductInput) (*domain.Product, error)
	// DeleteByName removes the product and returns the removed document.
	DeleteByName(ctx context.Context, name string) (*domain.Product, error)
}
