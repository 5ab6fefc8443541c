// Package authcontext carries the resolved caller identity through the
// request context. Handlers receive it explicitly; there is no ambient
// current-user state anywhere else.
package authcontext

import "context"

type identityKey struct{}

// Identity is the authenticated caller attached to a request after the
// bearer token has been resolved.
type Identity struct {
	UserID  int64
	Email   string
	IsStaff bool
}

// WithIdentity returns a context carrying the resolved identity.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom extracts the resolved identity, if any.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
