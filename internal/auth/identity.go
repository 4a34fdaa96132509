// ABOUTME: Verified identity carried through request handling via context
// ABOUTME: Provides WithIdentity/FromContext and role normalization

package auth

import (
	"context"
	"strings"
)

// Normalized role names.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Identity is the verified principal attached to a request after the gateway
// accepts its bearer token.
type Identity struct {
	Subject string // unique username
	Role    string // normalized role name, e.g. RoleUser or RoleAdmin
}

// IsAdmin reports whether the identity carries the ADMIN role.
func (id *Identity) IsAdmin() bool {
	return id.Role == RoleAdmin
}

// NormalizeRole strips the legacy "ROLE_" prefix and upper-cases the name so
// "ROLE_ADMIN", "admin", and "ADMIN" all compare equal.
func NormalizeRole(role string) string {
	role = strings.ToUpper(strings.TrimSpace(role))
	return strings.TrimPrefix(role, "ROLE_")
}

// identityKey is the key type for storing an Identity in context.Context.
type identityKey struct{}

// WithIdentity returns a new context with the verified identity attached.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext retrieves the verified identity from the context, returning nil
// for anonymous requests.
func FromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityKey{}).(*Identity)
	return id
}
