package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/catalog-api/internal/core/domain"
	"github.com/99minutos/catalog-api/internal/core/service"
)

// runGuards drives a chain ending in a 200 handler and renders any error with
// echo's default error handler.
func runGuards(t *testing.T, req *http.Request, guards ...Guard) (*httptest.ResponseRecorder, echo.Context, bool) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	h := Chain(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	}, guards...)

	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, c, called
}

func messageOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return body.Message
}

func newCredentials(now func() time.Time) *service.CredentialService {
	return service.NewCredentialServiceWithClock(service.CredentialConfig{Secret: "secret", BcryptCost: 4}, now)
}

func TestAuthenticate_ValidToken(t *testing.T) {
	creds := newCredentials(time.Now)
	token, err := creds.IssueToken("user-1", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	var got domain.Identity
	probe := func(c echo.Context) error {
		id, ok := IdentityFrom(c.Request().Context())
		if !ok {
			t.Fatalf("identity not attached")
		}
		got = id
		return nil
	}

	rec, _, called := runGuards(t, req, Authenticate(creds, zerolog.Nop()), probe)
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got.SubjectID != "user-1" || got.Role != domain.RoleAdmin {
		t.Fatalf("unexpected identity %+v", got)
	}
}

func TestAuthenticate_Rejections(t *testing.T) {
	creds := newCredentials(time.Now)
	expired := newCredentials(func() time.Time { return time.Now().Add(-2 * time.Hour) })
	old, err := expired.IssueToken("user-1", domain.RoleUser)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	cases := []struct {
		name   string
		header string
		msg    string
	}{
		{name: "missing header", header: "", msg: msgNoToken},
		{name: "bearer only", header: "Bearer ", msg: msgNoToken},
		{name: "garbage", header: "Bearer not-a-token", msg: msgTokenInvalid},
		{name: "no bearer prefix", header: "Token abc", msg: msgTokenInvalid},
		{name: "expired", header: "Bearer " + old, msg: msgTokenExpired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec, _, called := runGuards(t, req, Authenticate(creds, zerolog.Nop()))
			if called {
				t.Fatalf("should not reach handler")
			}
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
			if got := messageOf(t, rec); got != tc.msg {
				t.Fatalf("expected %q, got %q", tc.msg, got)
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	if got := bearerToken("Bearer  abc "); got != "abc" {
		t.Fatalf("expected abc, got %q", got)
	}
	if got := bearerToken("abc"); got != "abc" {
		t.Fatalf("expected raw token passthrough, got %q", got)
	}
}

func TestValidateCredentials(t *testing.T) {
	cases := []struct {
		name string
		body string
		code int
		msg  string
	}{
		{name: "ok", body: `{"email":"a@b.co","password":"password1"}`, code: http.StatusOK},
		{name: "missing email", body: `{"password":"password1"}`, code: http.StatusBadRequest, msg: "Email is required"},
		{name: "email first", body: `{"email":"nope","password":"x"}`, code: http.StatusBadRequest, msg: "Invalid email address"},
		{name: "missing password", body: `{"email":"a@b.co"}`, code: http.StatusBadRequest, msg: "Password is required"},
		{name: "short password", body: `{"email":"a@b.co","password":"short"}`, code: http.StatusBadRequest, msg: "Password must be at least 8 characters long"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

			rec, c, _ := runGuards(t, req, ValidateCredentials())
			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
			if tc.code != http.StatusOK {
				if got := messageOf(t, rec); got != tc.msg {
					t.Fatalf("expected %q, got %q", tc.msg, got)
				}
				return
			}
			cr, ok := CredentialsFrom(c.Request().Context())
			if !ok || cr.Email != "a@b.co" || cr.Password != "password1" {
				t.Fatalf("credentials not stored: %+v", cr)
			}
		})
	}
}

func TestValidateCredentials_FormBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("email=a%40b.co&password=password1"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)

	rec, _, called := runGuards(t, req, ValidateCredentials())
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected form body to pass, got %d", rec.Code)
	}
}
