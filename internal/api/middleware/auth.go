package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/catalog-api/internal/core/domain"
	"github.com/99minutos/catalog-api/internal/core/ports"
	"github.com/99minutos/catalog-api/internal/core/validation"
)

const (
	msgNoToken      = "Access denied, No token provided"
	msgTokenExpired = "Token has expired."
	msgTokenInvalid = "Invalid token."
)

// Authenticate verifies the bearer token and attaches the caller's identity
// to the request context.
func Authenticate(verifier ports.TokenVerifier, log zerolog.Logger) Guard {
	return func(c echo.Context) error {
		token := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if token == "" {
			return reject(guardAuthenticate, http.StatusUnauthorized, msgNoToken)
		}

		id, err := verifier.VerifyToken(token)
		if err != nil {
			log.Debug().Err(err).Str("path", c.Path()).Msg("token rejected")
			if errors.Is(err, domain.ErrTokenExpired) {
				return reject(guardAuthenticate, http.StatusUnauthorized, msgTokenExpired)
			}
			return reject(guardAuthenticate, http.StatusUnauthorized, msgTokenInvalid)
		}

		withContext(c, WithIdentity(c.Request().Context(), id))
		return nil
	}
}

func bearerToken(header string) string {
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

type credentialsRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type credentialsKey struct{}

// Credentials carries the email and password of a register or login request.
type Credentials struct {
	Email    string
	Password string
}

// ValidateCredentials binds the email/password body, checks both fields, and
// stores them for the auth handler. Email is checked first.
func ValidateCredentials() Guard {
	return func(c echo.Context) error {
		var req credentialsRequest
		if err := c.Bind(&req); err != nil {
			return reject(guardAuthCredential, http.StatusBadRequest, "invalid payload")
		}
		if err := validation.ValidateEmail(req.Email); err != nil {
			return rejectDomain(guardAuthCredential, err)
		}
		if err := validation.ValidatePassword(req.Password); err != nil {
			return rejectDomain(guardAuthCredential, err)
		}

		withContext(c, contextWithCredentials(c, Credentials{Email: req.Email, Password: req.Password}))
		return nil
	}
}

func contextWithCredentials(c echo.Context, cr Credentials) context.Context {
	return context.WithValue(c.Request().Context(), credentialsKey{}, cr)
}

// CredentialsFrom returns the credentials stored by ValidateCredentials.
func CredentialsFrom(ctx context.Context) (Credentials, bool) {
	cr, ok := ctx.Value(credentialsKey{}).(Credentials)
	return cr, ok
}
