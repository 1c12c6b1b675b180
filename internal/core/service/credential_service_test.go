package service

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/catalog-api/internal/core/domain"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newTestCredentials(clock *fakeClock) *CredentialService {
	return NewCredentialServiceWithClock(CredentialConfig{Secret: "test-secret", BcryptCost: bcrypt.MinCost}, clock.Now)
}

func TestCredentialService_TokenRoundTrip(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := newTestCredentials(clock)

	token, err := svc.IssueToken("665f1c2ab3e4d5f6a7b8c9d0", domain.RoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	id, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, domain.Identity{SubjectID: "665f1c2ab3e4d5f6a7b8c9d0", Role: domain.RoleAdmin}, id)

	clock.t = clock.t.Add(TokenLifetime - time.Second)
	_, err = svc.VerifyToken(token)
	assert.NoError(t, err, "still valid just before expiry")

	clock.t = clock.t.Add(2 * time.Second)
	_, err = svc.VerifyToken(token)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestCredentialService_TokenCarriesIssuedAtAndExpiry(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestCredentials(&fakeClock{t: issued})

	token, err := svc.IssueToken("u1", domain.RoleUser)
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)

	assert.Equal(t, "u1", claims["sub"])
	assert.Equal(t, "user", claims["role"])
	assert.EqualValues(t, issued.Unix(), claims["iat"])
	assert.EqualValues(t, issued.Add(time.Hour).Unix(), claims["exp"])
	assert.NotEmpty(t, claims["jti"])
}

func TestCredentialService_VerifyRejectsBadTokens(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	svc := newTestCredentials(clock)

	good, err := svc.IssueToken("u1", domain.RoleUser)
	require.NoError(t, err)

	otherKey := NewCredentialServiceWithClock(CredentialConfig{Secret: "other"}, clock.Now)
	foreign, err := otherKey.IssueToken("u1", domain.RoleAdmin)
	require.NoError(t, err)

	parts := strings.Split(good, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "u1", "role": "admin", "exp": clock.t.Add(time.Hour).Unix()})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noSubject := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"role": "admin", "exp": clock.t.Add(time.Hour).Unix()})
	noSubjectSigned, err := noSubject.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	noExpiry := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1", "role": "admin"})
	noExpirySigned, err := noExpiry.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":        "not-a-token",
		"empty":          "",
		"foreign secret": foreign,
		"tampered":       tampered,
		"alg none":       unsigned,
		"no subject":     noSubjectSigned,
		"no expiry":      noExpirySigned,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.VerifyToken(token)
			assert.ErrorIs(t, err, domain.ErrTokenInvalid)
		})
	}
}

func TestCredentialService_ExpiredTamperedTokenIsInvalid(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	svc := newTestCredentials(clock)

	token, err := svc.IssueToken("u1", domain.RoleUser)
	require.NoError(t, err)

	clock.t = clock.t.Add(2 * TokenLifetime)
	_, err = NewCredentialServiceWithClock(CredentialConfig{Secret: "other"}, clock.Now).VerifyToken(token)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestCredentialService_Passwords(t *testing.T) {
	svc := newTestCredentials(&fakeClock{t: time.Now()})

	digest, err := svc.HashPassword("password1")
	require.NoError(t, err)
	assert.NotEqual(t, "password1", digest)

	again, err := svc.HashPassword("password1")
	require.NoError(t, err)
	assert.NotEqual(t, digest, again, "digests are salted")

	ok, err := svc.VerifyPassword("password1", digest)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.VerifyPassword("password2", digest)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.VerifyPassword("password1", "not-a-bcrypt-digest")
	assert.False(t, ok)
	assert.ErrorIs(t, err, domain.ErrCredentialFormat)
}

func TestCredentialService_LongPasswords(t *testing.T) {
	svc := newTestCredentials(&fakeClock{t: time.Now()})
	long := strings.Repeat("p", 80)

	digest, err := svc.HashPassword(long)
	require.NoError(t, err)

	ok, err := svc.VerifyPassword(long, digest)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.VerifyPassword(strings.Repeat("q", 80), digest)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewCredentialService_DefaultCost(t *testing.T) {
	svc := NewCredentialService(CredentialConfig{Secret: "s"})
	assert.Equal(t, bcrypt.DefaultCost, svc.cost)
}
