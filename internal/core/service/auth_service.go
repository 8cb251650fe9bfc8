package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/privytune/backend/internal/core/domain"
	"github.com/privytune/backend/internal/core/ports"
)

const defaultTokenTTL = 24 * time.Hour

// AuthService implements registration and login.
type AuthService struct {
	users    ports.UserRepository
	verifier ports.CredentialVerifier
	hasher   ports.PasswordHasher
	tokens   ports.TokenCodec
	tokenTTL time.Duration
	log      zerolog.Logger
	now      func() time.Time
}

func NewAuthService(
	users ports.UserRepository,
	verifier ports.CredentialVerifier,
	hasher ports.PasswordHasher,
	tokens ports.TokenCodec,
	tokenTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &AuthService{
		users:    users,
		verifier: verifier,
		hasher:   hasher,
		tokens:   tokens,
		tokenTTL: tokenTTL,
		log:      log,
		now:      time.Now,
	}
}

// TokenTTL is the lifetime of every token this service issues.
func (s *AuthService) TokenTTL() time.Duration {
	return s.tokenTTL
}

// Register creates a USER account and returns it with a fresh token.
// An already registered email yields domain.ErrUserExists and leaves the
// stored record untouched.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, string, error) {
	in.Email = normalizeEmail(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	if in.FirstName == "" || in.LastName == "" || in.Email == "" || in.Password == "" {
		return nil, "", domain.ErrInvalidInput
	}

	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, "", domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, "", fmt.Errorf("register: lookup: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, "", fmt.Errorf("register: hash password: %w", err)
	}

	now := s.now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, "", domain.ErrUserExists
		}
		return nil, "", fmt.Errorf("register: create user: %w", err)
	}

	token, err := s.tokens.Issue(created.Email, s.tokenTTL)
	if err != nil {
		return nil, "", fmt.Errorf("register: %w", err)
	}

	s.log.Info().Str("user_id", created.ID).Msg("user registered")
	return created, token, nil
}

// Authenticate checks the credentials and returns the user with a fresh token.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", domain.ErrInvalidCredentials
	}

	user, err := s.verifier.Verify(ctx, email, password)
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.Email, s.tokenTTL)
	if err != nil {
		return nil, "", fmt.Errorf("authenticate: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("user authenticated")
	return user, token, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
