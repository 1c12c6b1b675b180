// Package middleware holds the guards that run in front of every API handler.
//
// A guard inspects the request and either lets it continue (nil error), halts
// it with an error that the HTTP error handler renders, or answers the
// request itself by committing a response. Routes compose guards explicitly
// with Chain, in the order auth → role → payload → existence.
package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/catalog-api/internal/api/metrics"
	"github.com/99minutos/catalog-api/internal/core/domain"
)

// Guard is a single pipeline stage.
type Guard func(c echo.Context) error

// Chain runs guards in order and calls h only when every guard passes.
func Chain(h echo.HandlerFunc, guards ...Guard) echo.HandlerFunc {
	return func(c echo.Context) error {
		for _, g := range guards {
			if err := g(c); err != nil {
				return err
			}
			if c.Response().Committed {
				return nil
			}
		}
		return h(c)
	}
}

const (
	guardAuthenticate   = "authenticate"
	guardRequireRole    = "require_role"
	guardPayload        = "product_payload"
	guardUniqueName     = "unique_name"
	guardExisting       = "existing_product"
	guardAuthCredential = "credentials"
)

const msgStoreCheckFailed = "Internal server error while checking product."

func reject(guard string, status int, msg string) error {
	metrics.GuardRejectionsTotal.WithLabelValues(guard, strconv.Itoa(status)).Inc()
	return echo.NewHTTPError(status, msg)
}

func rejectDomain(guard string, err error) error {
	msg, _ := domain.MessageOf(err)
	return reject(guard, http.StatusBadRequest, msg)
}

type identityKey struct{}

type productInputKey struct{}

// WithIdentity returns ctx carrying the authenticated caller.
func WithIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the caller attached by Authenticate.
func IdentityFrom(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(domain.Identity)
	return id, ok
}

// WithProductInput returns ctx carrying the validated product payload.
func WithProductInput(ctx context.Context, in domain.ProductInput) context.Context {
	return context.WithValue(ctx, productInputKey{}, in)
}

// ProductInputFrom returns the payload stored by ValidateProduct.
func ProductInputFrom(ctx context.Context) (domain.ProductInput, bool) {
	in, ok := ctx.Value(productInputKey{}).(domain.ProductInput)
	return in, ok
}

// ProductName returns the :name path parameter. The router has already
// percent-decoded it once; it must not be decoded again.
func ProductName(c echo.Context) string {
	return c.Param("name")
}

func withContext(c echo.Context, ctx context.Context) {
	c.SetRequest(c.Request().WithContext(ctx))
}
