package auth

import "context"

// Identity is the verified subject of a request. It is only ever created
// from a token that passed verification, never from caller-supplied fields.
type Identity struct {
	Username string
}

// identityKey is a private type for the identity context key.
type identityKey struct{}

// SetIdentity stores the authenticated identity in the context.
func SetIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext retrieves the authenticated identity.
// Returns nil when the request is unauthenticated.
func IdentityFromContext(ctx context.Context) *Identity {
	if v, ok := ctx.Value(identityKey{}).(*Identity); ok {
		return v
	}
	return nil
}
