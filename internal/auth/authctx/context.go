// Package authctx provides type-safe context propagation for the
// authenticated identity resolved by the auth middleware.
package authctx

import (
	"context"
	"errors"
)

// Identity is the resolved caller identity attached to a request.
type Identity struct {
	// UserID is the identifier of the authenticated user.
	UserID string
}

// contextKey is an unexported type to prevent collisions with other packages.
type contextKey struct{}

var identityKey = contextKey{}

// ErrNoIdentity is returned when no identity is present in the context.
var ErrNoIdentity = errors.New("authctx: no identity in context")

// Set stores the authenticated identity in the context.
func Set(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// Get retrieves the authenticated identity from the context.
func Get(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// MustGet retrieves the authenticated identity from the context.
// Panics if it is missing. Use in handlers that are only reachable
// through the auth middleware.
func MustGet(ctx context.Context) Identity {
	id, ok := Get(ctx)
	if !ok {
		panic("authctx: identity not found in context")
	}
	return id
}

// GetOrError retrieves the identity or returns ErrNoIdentity.
func GetOrError(ctx context.Context) (Identity, error) {
	id, ok := Get(ctx)
	if !ok {
		return Identity{}, ErrNoIdentity
	}
	return id, nil
}
