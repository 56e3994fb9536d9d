// Package auth implements the authentication and authorization core:
// password hashing, session-token issuance and verification, the HTTP
// middleware that attaches a verified identity to the request context,
// and the guards route handlers use to enforce access rules.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/philipbrowne/messagely/internal/common"
)

// Claims bind a username to the token's registered claims.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// TokenManager issues and verifies HS256-signed session tokens.
//
// Tokens are stateless: validity is purely a function of the signature and
// the expiry claim. The secret is read once at startup and never changes;
// rotating it invalidates every outstanding token, which is acceptable
// because there is no server-side revocation list.
type TokenManager struct {
	secret   []byte
	validity time.Duration
}

func NewTokenManager(secret []byte, validity time.Duration) *TokenManager {
	return &TokenManager{secret: secret, validity: validity}
}

// Issue returns a signed token whose subject is the given username.
func (m *TokenManager) Issue(username string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.validity)),
		},
		Username: username,
	})
	return token.SignedString(m.secret)
}

// Verify parses and validates a token and returns the bound username.
// Malformed encoding, a bad signature, expiry, or a missing subject all
// collapse into common.ErrInvalidToken — never a partial success.
func (m *TokenManager) Verify(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid || claims.Username == "" {
		return "", common.ErrInvalidToken
	}
	return claims.Username, nil
}
