package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/catalog-api/internal/core/domain"
	"github.com/99minutos/catalog-api/internal/core/ports"
)

// AuthService implements registration and login on top of the credential
// service and the user store.
type AuthService struct {
	repo  ports.UserRepository
	creds *CredentialService
	log   zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, creds *CredentialService, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, creds: creds, log: log}
}

// Register creates a user with the default role and returns a session token.
// Email and password are trimmed exactly as validation trims them.
func (s *AuthService) Register(ctx context.Context, email, password string) (string, error) {
	email, password = strings.TrimSpace(email), strings.TrimSpace(password)

	_, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return "", domain.ErrUserExists
	case !errors.Is(err, domain.ErrUserNotFound):
		return "", domain.StoreError("find user", err)
	}

	hash, err := s.creds.HashPassword(password)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return "", domain.ErrUserExists
		}
		return "", domain.StoreError("create user", err)
	}

	s.log.Info().Str("user_id", created.ID).Msg("user registered")
	return s.creds.IssueToken(created.ID, created.Role)
}

// Login exchanges credentials for a token carrying the stored role. An
// unknown email and a wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	email, password = strings.TrimSpace(email), strings.TrimSpace(password)

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", domain.StoreError("find user", err)
	}

	ok, err := s.creds.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return "", fmt.Errorf("login %s: %w", user.ID, err)
	}
	if !ok {
		return "", domain.ErrInvalidCredentials
	}

	return s.creds.IssueToken(user.ID, user.Role)
}
