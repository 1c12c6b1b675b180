package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/catalog-api/internal/core/domain"
)

const msgInternal = "Internal server error"

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Message string `json:"message"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps classified domain errors to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"message": "<text>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Message: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (guard rejections, bind failures, 404 from router).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil {
			log.Debug().Err(he.Internal).Str("path", c.Path()).Msg("request rejected")
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	if code, ok := statusOf(domain.KindOf(err)); ok {
		msg, _ := domain.MessageOf(err)
		return code, msg
	}

	// Store failures and anything unclassified: log the cause, answer generically.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")

	return http.StatusInternalServerError, msgInternal
}

func statusOf(k domain.Kind) (int, bool) {
	switch k {
	case domain.KindValidation:
		return http.StatusBadRequest, true
	case domain.KindConflict:
		return http.StatusConflict, true
	case domain.KindNotFound:
		return http.StatusNotFound, true
	case domain.KindUnauthorized:
		return http.StatusUnauthorized, true
	case domain.KindForbidden:
		return http.StatusForbidden, true
	}
	return 0, false
}
