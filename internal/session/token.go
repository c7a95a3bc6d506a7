package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenExpired reports whether a persisted JWT is already past its "exp"
// claim, judged locally.
//
// ParseUnverified decodes the claims WITHOUT checking the signature. That
// is fine here: we are not trusting the token; the backend re-validates it
// on every request; we only want to skip the doomed /api/auth/me round-trip
// during rehydration when the expiry has plainly passed.
//
// Anything unparseable is reported as not-expired so the server stays the
// authority: a token format we don't understand still gets its one chance.
func tokenExpired(token string) bool {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Before(time.Now())
}
