package api

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/go-chi/jwtauth/v5"
)

const (
	roleClaim   = "role"
	roleManager = "manager"
)

// TokenIssuer signs and verifies manager tokens (HS256).
type TokenIssuer struct {
	auth *jwtauth.JWTAuth
	ttl  time.Duration
	now  func() time.Time
}

// NewTokenIssuer creates an issuer for secret. An empty secret is replaced by
// a random one, so tokens do not survive a restart.
func NewTokenIssuer(secret string, ttl time.Duration, now func() time.Time) (*TokenIssuer, error) {
	if secret == "" {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return nil, err
		}
		secret = hex.EncodeToString(buf)
	}
	if now == nil {
		now = time.Now
	}
	return &TokenIssuer{
		auth: jwtauth.New("HS256", []byte(secret), nil),
		ttl:  ttl,
		now:  now,
	}, nil
}

// IssueManager returns a signed manager token and its expiry.
func (t *TokenIssuer) IssueManager() (string, time.Time, error) {
	now := t.now()
	expires := now.Add(t.ttl)
	claims := map[string]interface{}{
		roleClaim: roleManager,
		"sub":     roleManager,
	}
	jwtauth.SetIssuedAt(claims, now)
	jwtauth.SetExpiry(claims, expires)

	_, token, err := t.auth.Encode(claims)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expires, nil
}

// Verifier extracts and verifies a bearer token into the request context.
func (t *TokenIssuer) Verifier() func(http.Handler) http.Handler {
	return jwtauth.Verify(t.auth, jwtauth.TokenFromHeader)
}

// RequireManager rejects requests whose verified token lacks the manager role.
// It must run after Verifier.
func RequireManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			writeDetail(w, http.StatusUnauthorized, "UNAUTHORIZED", "Manager authentication required")
			return
		}
		if role, _ := claims[roleClaim].(string); role != roleManager {
			writeDetail(w, http.StatusUnauthorized, "UNAUTHORIZED", "Manager authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
