// Package auth issues and verifies session tokens and carries the resolved
// role through request contexts. Roles are derived exactly once, at token
// verification: a captain token yields RoleCaptain, everything else
// (anonymous token, missing token, garbage) degrades to RoleGuest so read
// access never fully drops.
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/captainsdeck/backend/internal/domain"
)

// Session is the verified identity of one request.
type Session struct {
	// Subject is the captain's account ID, or an opaque guest session ID.
	Subject string
	Role    domain.Role
}

// claims is the JWT claim set for both roles.
type claims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Tokens signs and verifies HS256 session tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

// NewTokens builds a Tokens using the given signing secret and token
// lifetime.
func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for the given subject and role.
func (t *Tokens) Issue(subject string, role domain.Role) (string, error) {
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	})
	signed, err := tok.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("auth.Tokens.Issue: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a signed token and returns its session.
// Any failure (bad signature, expiry, wrong algorithm) is reported as
// domain.ErrUnauthorized; callers typically degrade to a guest session.
func (t *Tokens) Verify(raw string) (Session, error) {
	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return Session{}, fmt.Errorf("auth.Tokens.Verify: %w: %w", domain.ErrUnauthorized, err)
	}
	role := c.Role
	if role != domain.RoleCaptain {
		role = domain.RoleGuest
	}
	return Session{Subject: c.Subject, Role: role}, nil
}

type ctxKey struct{}

// WithSession returns a context carrying the session.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// SessionFrom returns the session stored in ctx, or an anonymous guest
// session when none was stored. There is no "no identity" state.
func SessionFrom(ctx context.Context) Session {
	if s, ok := ctx.Value(ctxKey{}).(Session); ok {
		return s
	}
	return Session{Role: domain.RoleGuest}
}

// RoleFrom returns the role of the request.
func RoleFrom(ctx context.Context) domain.Role {
	return SessionFrom(ctx).Role
}
