package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrProductExists   = errors.New("product already exists")
)

// Product is a catalog record. Name is unique across the catalog.
type Product struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Quantity  float64   `json:"quantity"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProductInput carries the validated fields of a create or update payload.
// Nil fields were absent from the request.
type ProductInput struct {
	Name     *string
	Quantity *float64
	Price    *float64
}

// ProductNotFound is the classified error for a missing product.
func ProductNotFound() error {
	return &Error{Kind: KindNotFound, Message: "Product not found", Err: ErrProductNotFound}
}

// ProductConflict is the classified error for a duplicate product name.
func ProductConflict(name string) error {
	return &Error{
		Kind:    KindConflict,
		Message: fmt.Sprintf("Product with the name '%s' already exists.", name),
		Err:     ErrProductExists,
	}
}
