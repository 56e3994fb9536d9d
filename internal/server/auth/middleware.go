package auth

import (
	"net/http"
	"strings"
)

const bearerPrefix = "Bearer "

// Middleware extracts a bearer token from the Authorization header and, when
// it verifies, attaches the subject's identity to the request context.
//
// It never rejects a request by itself: a missing or invalid token simply
// leaves the context unauthenticated and the guards decide downstream. This
// keeps token parsing in one place while letting individual routes be
// optionally authenticated.
func Middleware(tokens *TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if raw := bearerToken(r); raw != "" {
				if username, err := tokens.Verify(raw); err == nil {
					ctx := SetIdentity(r.Context(), &Identity{Username: username})
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
}
