package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/catalog-api/internal/core/domain"
)

// TokenLifetime is the fixed validity window of a session token.
const TokenLifetime = time.Hour

// CredentialConfig is the immutable signing and hashing policy.
type CredentialConfig struct {
	Secret     string
	BcryptCost int
}

// sessionClaims is the JWT payload: sub, role, iat, exp and jti.
type sessionClaims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// CredentialService hashes passwords and issues/verifies session tokens.
// It holds no state beyond its configuration and is safe for concurrent use.
type CredentialService struct {
	secret []byte
	cost   int
	now    func() time.Time
}

// NewCredentialService returns a CredentialService using the wall clock.
func NewCredentialService(cfg CredentialConfig) *CredentialService {
	return NewCredentialServiceWithClock(cfg, time.Now)
}

// NewCredentialServiceWithClock is NewCredentialService with an injectable clock.
func NewCredentialServiceWithClock(cfg CredentialConfig, now func() time.Time) *CredentialService {
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &CredentialService{secret: []byte(cfg.Secret), cost: cost, now: now}
}

// IssueToken signs a token for subjectID valid for TokenLifetime.
func (s *CredentialService) IssueToken(subjectID string, role domain.Role) (string, error) {
	now := s.now()
	claims := sessionClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenLifetime)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken decodes token. It returns domain.ErrTokenExpired once the
// expiry has passed and domain.ErrTokenInvalid for anything else that fails.
func (s *CredentialService) VerifyToken(token string) (domain.Identity, error) {
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Identity{}, domain.ErrTokenExpired
		}
		return domain.Identity{}, domain.ErrTokenInvalid
	}
	if !parsed.Valid || claims.Subject == "" || !claims.Role.Valid() {
		return domain.Identity{}, domain.ErrTokenInvalid
	}

	return domain.Identity{SubjectID: claims.Subject, Role: claims.Role}, nil
}

// bcrypt only reads the first 72 bytes of a password.
const bcryptMaxInput = 72

// bcryptInput truncates plain to what bcrypt reads, so longer passwords hash
// and verify instead of failing with bcrypt.ErrPasswordTooLong.
func bcryptInput(plain string) []byte {
	b := []byte(plain)
	if len(b) > bcryptMaxInput {
		b = b[:bcryptMaxInput]
	}
	return b
}

// HashPassword returns a salted bcrypt digest of plain.
func (s *CredentialService) HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(bcryptInput(plain), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether plain matches digest. A mismatch is not an
// error; a digest bcrypt cannot parse wraps domain.ErrCredentialFormat.
func (s *CredentialService) VerifyPassword(plain, digest string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), bcryptInput(plain))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", domain.ErrCredentialFormat, err)
	}
}
