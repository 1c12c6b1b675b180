package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/catalog-api/internal/core/domain"
)

const msgForbidden = "Forbidden. You do not have access."

// RequireRole lets the request through only when the authenticated caller's
// role equals role exactly. It must run after Authenticate.
func RequireRole(role domain.Role) Guard {
	return func(c echo.Context) error {
		id, ok := IdentityFrom(c.Request().Context())
		if !ok || id.Role != role {
			return reject(guardRequireRole, http.StatusForbidden, msgForbidden)
		}
		return nil
	}
}
