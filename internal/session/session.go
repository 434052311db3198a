// Package session issues and verifies the signed tokens carried in the
// session cookie after a completed wallet sign-in.
package session

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/msafer/waitlist/internal/domain"
)

const (
	// CookieName is the session cookie set after sign-in
	CookieName = "waitlist_session"

	// TokenTTL is how long a session stays valid
	TokenTTL = 7 * 24 * time.Hour
)

// Claims carries the authenticated wallet inside the token
type Claims struct {
	jwt.RegisteredClaims
	Wallet string `json:"wallet"`
}

// Manager signs and verifies session tokens
type Manager struct {
	secret []byte
	now    func() time.Time
}

// NewManager creates a new session manager
func NewManager(secret string) *Manager {
	return &Manager{secret: []byte(secret), now: time.Now}
}

// Issue creates a signed token for the wallet
func (m *Manager) Issue(wallet string) (string, error) {
	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
		Wallet: wallet,
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Verify parses a token and returns the wallet it was issued for
func (m *Manager) Verify(tokenString string) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return m.now() }),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %s", domain.ErrUnauthenticated, domain.ErrMsgInvalidSignature)
	}
	if !token.Valid || claims.Wallet == "" {
		return "", domain.ErrUnauthenticated
	}

	return claims.Wallet, nil
}

// Cookie wraps a signed token in the session cookie
func (m *Manager) Cookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(TokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearCookie expires the session cookie
func (m *Manager) ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}
