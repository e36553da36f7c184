package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/captainsdeck/backend/internal/auth"
	"github.com/captainsdeck/backend/internal/domain"
)

func newTokens() *auth.Tokens {
	return auth.NewTokens("test-secret", time.Hour)
}

func TestTokens_RoundTrip(t *testing.T) {
	tk := newTokens()

	raw, err := tk.Issue("captain-1", domain.RoleCaptain)
	require.NoError(t, err)

	s, err := tk.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, "captain-1", s.Subject)
	assert.Equal(t, domain.RoleCaptain, s.Role)
}

func TestTokens_GuestRole(t *testing.T) {
	tk := newTokens()

	raw, err := tk.Issue("guest-abc", domain.RoleGuest)
	require.NoError(t, err)

	s, err := tk.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleGuest, s.Role)
}

func TestTokens_WrongSecretRejected(t *testing.T) {
	raw, err := newTokens().Issue("captain-1", domain.RoleCaptain)
	require.NoError(t, err)

	_, err = auth.NewTokens("other-secret", time.Hour).Verify(raw)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestTokens_ExpiredRejected(t *testing.T) {
	tk := auth.NewTokens("test-secret", -time.Minute)

	raw, err := tk.Issue("captain-1", domain.RoleCaptain)
	require.NoError(t, err)

	_, err = tk.Verify(raw)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestTokens_GarbageRejected(t *testing.T) {
	_, err := newTokens().Verify("not.a.token")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestSessionFrom_DefaultsToGuest(t *testing.T) {
	s := auth.SessionFrom(context.Background())
	assert.Equal(t, domain.RoleGuest, s.Role)
	assert.Empty(t, s.Subject)
}

func TestRoleFrom_CarriesCaptain(t *testing.T) {
	ctx := auth.WithSession(context.Background(), auth.Session{Subject: "c", Role: domain.RoleCaptain})
	assert.Equal(t, domain.RoleCaptain, auth.RoleFrom(ctx))
}
