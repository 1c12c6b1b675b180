package ports

import (
	"context"

	"github.com/99minutos/catalog-api/internal/core/domain"
)

// ProductService defines the use-case operations behind the product routes.
// Each call performs exactly one store operation.
type ProductService interface {
	Create(ctx context.Context, in domain.ProductInput) (*domain.Product, error)
	Get(ctx context.Context, name string) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	Update(ctx context.Context, name string, in domain.ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, name string) (*domain.Product, error)
}
