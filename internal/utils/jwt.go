package utils // package utils provides helpers for issuing and checking session tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// ScopeDesigner is the only scope issued today.  Tokens carrying any other
// scope are rejected.
const ScopeDesigner = "designer"

// ErrInvalidToken is returned for tokens that fail signature, expiry or
// scope checks.
var ErrInvalidToken = errors.New("invalid session token")

// SessionToken is a signed bearer token bound to one designer session.
type SessionToken struct {
	Token string    `json:"token"`
	Exp   time.Time `json:"expires_at"`
}

// SessionClaims are the claims carried by a session token.  The subject is
// the session id.
type SessionClaims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// NewSessionToken builds and signs an HS256 JWT for a designer session that
// expires after ttl.
func NewSessionToken(secret, sessionID string, ttl time.Duration) (SessionToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := SessionClaims{
		Scope: ScopeDesigner,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}

// ParseSessionToken verifies raw and returns the session id it was issued
// for.
func ParseSessionToken(secret, raw string) (string, error) {
	var claims SessionClaims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !tok.Valid || claims.Scope != ScopeDesigner || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
