package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/99minutos/catalog-api/internal/api/metrics"
	"github.com/99minutos/catalog-api/internal/core/domain"
	"github.com/99minutos/catalog-api/internal/core/ports"
)

type ProductService struct {
	repo   ports.ProductRepository
	logger zerolog.Logger
}

func NewProductService(repo ports.ProductRepository, logger zerolog.Logger) *ProductService {
	return &ProductService{repo: repo, logger: logger}
}

// Create inserts a product. Absent quantity and price default to zero.
func (s *ProductService) Create(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	p := &domain.Product{}
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Quantity != nil {
		p.Quantity = *in.Quantity
	}
	if in.Price != nil {
		p.Price = *in.Price
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, s.classify("create product", p.Name, err)
	}

	metrics.ProductMutationsTotal.WithLabelValues("create").Inc()
	s.logger.Info().Str("product", created.Name).Str("id", created.ID).Msg("product created")
	return created, nil
}

func (s *ProductService) Get(ctx context.Context, name string) (*domain.Product, error) {
	p, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return nil, s.classify("find product", name, err)
	}
	return p, nil
}

// List returns every product; an empty catalog yields an empty, non-nil slice.
func (s *ProductService) List(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, s.classify("list products", "", err)
	}
	if products == nil {
		products = []*domain.Product{}
	}
	return products, nil
}

func (s *ProductService) Update(ctx context.Context, name string, in domain.ProductInput) (*domain.Product, error) {
	if in.Name != nil {
		trimmed := strings.TrimSpace(*in.Name)
		in.Name = &trimmed
	}

	updated, err := s.repo.UpdateByName(ctx, name, in)
	if err != nil {
		target := name
		if in.Name != nil {
			target = *in.Name
		}
		return nil, s.classify("update product", target, err)
	}

	metrics.ProductMutationsTotal.WithLabelValues("update").Inc()
	s.logger.Info().Str("product", name).Msg("product updated")
	return updated, nil
}

func (s *ProductService) Delete(ctx context.Context, name string) (*domain.Product, error) {
	deleted, err := s.repo.DeleteByName(ctx, name)
	if err != nil {
		return nil, s.classify("delete product", name, err)
	}

	metrics.ProductMutationsTotal.WithLabelValues("delete").Inc()
	s.logger.Info().Str("product", name).Msg("product deleted")
	return deleted, nil
}

// classify maps repository errors onto the domain error kinds. Anything
// unrecognised is logged here and becomes a store error.
func (s *ProductService) classify(op, name string, err error) error {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		return domain.ProductNotFound()
	case errors.Is(err, domain.ErrProductExists):
		return domain.ProductConflict(name)
	}
	s.logger.Error().Err(err).Str("op", op).Str("product", name).Msg("product store failure")
	return domain.StoreError(op, err)
}
