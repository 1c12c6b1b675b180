package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/catalog-api/internal/api/metrics"
	"github.com/99minutos/catalog-api/internal/core/domain"
	"github.com/99minutos/catalog-api/internal/core/ports"
)

// HeaderIdempotencyKey is the request header that makes a create replayable.
const HeaderIdempotencyKey = "Idempotency-Key"

type idempotencyKey struct{}

// IdempotencyKeyFrom returns the caller-scoped key recorded by
// ReplayIdempotentCreate.
func IdempotencyKeyFrom(ctx context.Context) (string, bool) {
	k, ok := ctx.Value(idempotencyKey{}).(string)
	return k, ok && k != ""
}

// ReplayIdempotentCreate answers a repeated create with the product the first
// request produced. Keys are scoped to the authenticated caller. A nil store
// or a store failure lets the request continue unreplayed.
func ReplayIdempotentCreate(store ports.IdempotencyStore, lookup ProductLookup, log zerolog.Logger) Guard {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(HeaderIdempotencyKey)
		if store == nil || header == "" {
			return nil
		}
		id, _ := IdentityFrom(c.Request().Context())
		key := id.SubjectID + ":" + header
		ctx := c.Request().Context()

		name, found, err := store.Lookup(ctx, key)
		if err != nil {
			log.Warn().Err(err).Msg("idempotency lookup failed")
			return nil
		}
		if !found {
			withContext(c, context.WithValue(ctx, idempotencyKey{}, key))
			return nil
		}

		product, err := lookup(ctx, name)
		switch {
		case err == nil:
			metrics.IdempotentReplaysTotal.Inc()
			return c.JSON(http.StatusCreated, product)
		case errors.Is(err, domain.ErrProductNotFound):
			// created then deleted; treat as a fresh request
			withContext(c, context.WithValue(ctx, idempotencyKey{}, key))
			return nil
		default:
			log.Warn().Err(err).Str("name", name).Msg("idempotent replay lookup failed")
			return nil
		}
	}
}
