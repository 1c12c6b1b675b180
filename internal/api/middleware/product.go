package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/catalog-api/internal/core/domain"
	"github.com/99minutos/catalog-api/internal/core/validation"
)

// PayloadMode selects which product fields are mandatory.
type PayloadMode int

const (
	// CreatePayload requires a name.
	CreatePayload PayloadMode = iota
	// UpdatePayload accepts any subset of fields.
	UpdatePayload
)

// ProductLookup resolves a product by exact name.
type ProductLookup func(ctx context.Context, name string) (*domain.Product, error)

// numericField accepts a JSON number, a numeric JSON string, or a form value.
// The raw text is kept and validated later so that every failure produces the
// same message.
type numericField struct {
	raw string
	set bool
}

func (f *numericField) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if string(b) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		f.raw, f.set = s, true
		return nil
	}
	f.raw, f.set = string(b), true
	return nil
}

// UnmarshalParam implements echo.BindUnmarshaler for form bodies.
func (f *numericField) UnmarshalParam(param string) error {
	f.raw, f.set = param, true
	return nil
}

type productRequest struct {
	Name     *string      `json:"name" form:"name"`
	Quantity numericField `json:"quantity" form:"quantity"`
	Price    numericField `json:"price" form:"price"`
}

// ValidateProduct binds the request body, validates every supplied field and
// stores the result for later guards and the handler. Fields are checked in
// the order name, quantity, price.
func ValidateProduct(mode PayloadMode) Guard {
	return func(c echo.Context) error {
		var req productRequest
		if err := c.Bind(&req); err != nil {
			return reject(guardPayload, http.StatusBadRequest, "invalid payload")
		}

		var in domain.ProductInput
		switch {
		case req.Name != nil:
			if err := validation.ValidateProductName(*req.Name); err != nil {
				return rejectDomain(guardPayload, err)
			}
			name := strings.TrimSpace(*req.Name)
			in.Name = &name
		case mode == CreatePayload:
			return rejectDomain(guardPayload, validation.ErrProductNameInvalid)
		}

		var err error
		if in.Quantity, err = numeric(req.Quantity, "quantity"); err != nil {
			return rejectDomain(guardPayload, err)
		}
		if in.Price, err = numeric(req.Price, "price"); err != nil {
			return rejectDomain(guardPayload, err)
		}

		withContext(c, WithProductInput(c.Request().Context(), in))
		return nil
	}
}

func numeric(f numericField, field string) (*float64, error) {
	if !f.set {
		return nil, nil
	}
	v, err := validation.ValidatePositiveNumber(f.raw, field)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// RequireUniqueName rejects a create whose name is already taken. It must run
// after ValidateProduct.
func RequireUniqueName(lookup ProductLookup, log zerolog.Logger) Guard {
	return func(c echo.Context) error {
		in, ok := ProductInputFrom(c.Request().Context())
		if !ok || in.Name == nil {
			return reject(guardUniqueName, http.StatusInternalServerError, msgStoreCheckFailed)
		}

		_, err := lookup(c.Request().Context(), *in.Name)
		switch {
		case err == nil:
			msg, _ := domain.MessageOf(domain.ProductConflict(*in.Name))
			return reject(guardUniqueName, http.StatusConflict, msg)
		case errors.Is(err, domain.ErrProductNotFound):
			return nil
		default:
			log.Error().Err(err).Str("name", *in.Name).Msg("uniqueness check failed")
			return reject(guardUniqueName, http.StatusInternalServerError, msgStoreCheckFailed)
		}
	}
}

// RequireExistingProduct rejects a request whose :name does not match a
// stored product.
func RequireExistingProduct(lookup ProductLookup, log zerolog.Logger) Guard {
	return func(c echo.Context) error {
		name := ProductName(c)
		if err := validation.RequireName(name); err != nil {
			return rejectDomain(guardExisting, err)
		}

		_, err := lookup(c.Request().Context(), name)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, domain.ErrProductNotFound):
			return reject(guardExisting, http.StatusNotFound, "Product not found")
		default:
			log.Error().Err(err).Str("name", name).Msg("existence check failed")
			return reject(guardExisting, http.StatusInternalServerError, msgStoreCheckFailed)
		}
	}
}
