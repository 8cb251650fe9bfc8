package domain

import (
	"context"
	"slices"
)

// Identity is the authenticated principal resolved for a single request.
type Identity struct {
	User  *User
	Roles []Role
}

// NewIdentity builds the identity for u with the roles its role grants.
func NewIdentity(u *User) *Identity {
	return &Identity{User: u, Roles: u.Role.Grants()}
}

// HasRole reports whether the identity was granted r.
func (i *Identity) HasRole(r Role) bool {
	if i == nil {
		return false
	}
	return slices.Contains(i.Roles, r)
}

// HasAnyRole reports whether the identity holds at least one of roles.
func (i *Identity) HasAnyRole(roles ...Role) bool {
	for _, r := range roles {
		if i.HasRole(r) {
			return true
		}
	}
	return false
}

type identityCtxKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, id)
}

// IdentityFrom returns the identity attached to ctx, if any.
func IdentityFrom(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityCtxKey{}).(*Identity)
	return id, ok && id != nil
}
