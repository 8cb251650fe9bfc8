package ports

import (
	"context"

	"github.com/privytune/backend/internal/core/domain"
)

// UserRepository is the user store. Implementations enforce email uniqueness
// and return domain.ErrUserExists on conflict and domain.ErrUserNotFound on a
// missed lookup.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
