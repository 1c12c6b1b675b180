package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/catalog-api/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{name: "echo error", err: echo.NewHTTPError(http.StatusUnauthorized, "Invalid token."), code: http.StatusUnauthorized, msg: "Invalid token."},
		{name: "route not found", err: echo.ErrNotFound, code: http.StatusNotFound, msg: "Not Found"},
		{name: "validation", err: domain.NewValidationError("Email is required"), code: http.StatusBadRequest, msg: "Email is required"},
		{name: "not found", err: domain.ProductNotFound(), code: http.StatusNotFound, msg: "Product not found"},
		{name: "conflict", err: domain.ProductConflict("Widget"), code: http.StatusConflict, msg: "Product with the name 'Widget' already exists."},
		{name: "store", err: domain.StoreError("list products", errors.New("socket closed")), code: http.StatusInternalServerError, msg: msgInternal},
		{name: "unclassified", err: errors.New("boom"), code: http.StatusInternalServerError, msg: msgInternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			NewHTTPErrorHandler(zerolog.Nop())(tc.err, c)

			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body.Message != tc.msg {
				t.Fatalf("expected %q, got %q", tc.msg, body.Message)
			}
		})
	}
}

func TestHTTPErrorHandler_CommittedResponse(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	_ = c.NoContent(http.StatusAccepted)

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("late"), c)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("committed response was overwritten: %d", rec.Code)
	}
}
