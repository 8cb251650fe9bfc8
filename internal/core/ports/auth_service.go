package ports

import (
	"context"
	"time"

	"github.com/privytune/backend/internal/core/domain"
)

// RegisterInput carries the fields accepted at sign-up.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// AuthService issues sessions: every successful call returns a signed token.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, string, error)
	Authenticate(ctx context.Context, email, password string) (*domain.User, string, error)
	TokenTTL() time.Duration
}

// CredentialVerifier checks an (email, password) pair against the user store.
type CredentialVerifier interface {
	Verify(ctx context.Context, email, password string) (*domain.User, error)
}
