package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/catalog-api/internal/api/metrics"
	"github.com/99minutos/catalog-api/internal/api/middleware"
	"github.com/99minutos/catalog-api/internal/core/domain"
	"github.com/99minutos/catalog-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type credentialsRequest struct {
	Email    string `json:"email" example:"jane@example.com"`
	Password string `json:"password" example:"s3cretpass"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Register creates a new user account and signs them in.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Email and password"
// @Success      201   {object}  tokenResponse
// @Failure      400   {object}  errorBody
// @Failure      500   {object}  errorBody
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	cr, err := credentials(c)
	if err != nil {
		return err
	}

	token, err := h.authService.Register(c.Request().Context(), cr.Email, cr.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			metrics.AuthAttemptsTotal.WithLabelValues("register", "rejected").Inc()
			return echo.NewHTTPError(http.StatusBadRequest, "User already exists")
		}
		metrics.AuthAttemptsTotal.WithLabelValues("register", "error").Inc()
		return err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("register", "success").Inc()
	return c.JSON(http.StatusCreated, tokenResponse{Token: token})
}

// Login exchanges credentials for a session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Email and password"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  errorBody
// @Failure      500   {object}  errorBody
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	cr, err := credentials(c)
	if err != nil {
		return err
	}

	token, err := h.authService.Login(c.Request().Context(), cr.Email, cr.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.AuthAttemptsTotal.WithLabelValues("login", "rejected").Inc()
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid credentials")
		}
		metrics.AuthAttemptsTotal.WithLabelValues("login", "error").Inc()
		return err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("login", "success").Inc()
	return c.JSON(http.StatusOK, tokenResponse{Token: token})
}

// credentials returns what ValidateCredentials stored, or runs it when the
// handler is mounted without the guard.
func credentials(c echo.Context) (middleware.Credentials, error) {
	if cr, ok := middleware.CredentialsFrom(c.Request().Context()); ok {
		return cr, nil
	}
	if err := middleware.ValidateCredentials()(c); err != nil {
		return middleware.Credentials{}, err
	}
	cr, _ := middleware.CredentialsFrom(c.Request().Context())
	return cr, nil
}
