package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/privytune/backend/internal/core/domain"
	"github.com/privytune/backend/internal/core/ports"
)

// dummyPassword is hashed once at construction so unknown identifiers still pay
// for a full hash comparison.
const dummyPassword = "privytune-timing-equaliser"

// CredentialVerifier checks submitted passwords against the user store.
type CredentialVerifier struct {
	users     ports.UserRepository
	hasher    ports.PasswordHasher
	dummyHash string
}

func NewCredentialVerifier(users ports.UserRepository, hasher ports.PasswordHasher) (*CredentialVerifier, error) {
	dummy, err := hasher.Hash(dummyPassword)
	if err != nil {
		return nil, fmt.Errorf("credential verifier: %w", err)
	}
	return &CredentialVerifier{users: users, hasher: hasher, dummyHash: dummy}, nil
}

// Verify returns the user owning email when password matches. Unknown emails
// and wrong passwords are indistinguishable: both yield ErrInvalidCredentials.
func (v *CredentialVerifier) Verify(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := v.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			v.hasher.Compare(v.dummyHash, password)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("verify credentials: %w", err)
	}

	if !v.hasher.Compare(user.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}
