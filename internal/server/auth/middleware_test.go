package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runMiddleware(t *testing.T, m *TokenManager, authHeader string) *Identity {
	t.Helper()

	var captured *Identity
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		captured = IdentityFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()

	Middleware(m)(next).ServeHTTP(rec, req)

	require.True(t, called, "middleware must never reject by itself")
	require.Equal(t, http.StatusOK, rec.Code)
	return captured
}

func TestMiddleware_ValidToken(t *testing.T) {
	t.Parallel()

	m := NewTokenManager([]byte("secret"), time.Hour)
	tok, err := m.Issue("alice")
	require.NoError(t, err)

	id := runMiddleware(t, m, "Bearer "+tok)
	require.NotNil(t, id)
	assert.Equal(t, "alice", id.Username)
}

func TestMiddleware_MissingHeader(t *testing.T) {
	t.Parallel()

	m := NewTokenManager([]byte("secret"), time.Hour)
	assert.Nil(t, runMiddleware(t, m, ""))
}

func TestMiddleware_InvalidToken(t *testing.T) {
	t.Parallel()

	m := NewTokenManager([]byte("secret"), time.Hour)
	assert.Nil(t, runMiddleware(t, m, "Bearer not.a.token"))
}

func TestMiddleware_WrongScheme(t *testing.T) {
	t.Parallel()

	m := NewTokenManager([]byte("secret"), time.Hour)
	tok, err := m.Issue("alice")
	require.NoError(t, err)

	assert.Nil(t, runMiddleware(t, m, "Basic "+tok))
}

func TestMiddleware_TokenFromOtherSecret(t *testing.T) {
	t.Parallel()

	other := NewTokenManager([]byte("other-secret"), time.Hour)
	tok, err := other.Issue("alice")
	require.NoError(t, err)

	m := NewTokenManager([]byte("secret"), time.Hour)
	assert.Nil(t, runMiddleware(t, m, "Bearer "+tok))
}
