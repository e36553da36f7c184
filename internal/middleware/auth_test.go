package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/captainsdeck/backend/internal/auth"
	"github.com/captainsdeck/backend/internal/domain"
	"github.com/captainsdeck/backend/internal/middleware"
)

func roleEchoHandler(t *testing.T, want domain.Role) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, want, auth.RoleFrom(r.Context()))
		w.WriteHeader(http.StatusOK)
	})
}

func TestSessionResolver_CaptainToken(t *testing.T) {
	tokens := auth.NewTokens("secret", time.Hour)
	raw, err := tokens.Issue("captain-1", domain.RoleCaptain)
	require.NoError(t, err)

	h := middleware.NewSessionResolver(tokens)(roleEchoHandler(t, domain.RoleCaptain))

	req := httptest.NewRequest(http.MethodGet, "/trips", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestSessionResolver_MissingTokenIsGuest(t *testing.T) {
	tokens := auth.NewTokens("secret", time.Hour)
	h := middleware.NewSessionResolver(tokens)(roleEchoHandler(t, domain.RoleGuest))

	req := httptest.NewRequest(http.MethodGet, "/trips", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestSessionResolver_GarbageTokenDegradesToGuest(t *testing.T) {
	tokens := auth.NewTokens("secret", time.Hour)
	h := middleware.NewSessionResolver(tokens)(roleEchoHandler(t, domain.RoleGuest))

	req := httptest.NewRequest(http.MethodGet, "/trips", nil)
	req.Header.Set("Authorization", "Bearer not.a.jwt")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, "bad token must not block read access")
}

func TestSessionResolver_TokenSignedWithOtherSecret(t *testing.T) {
	theirs := auth.NewTokens("their-secret", time.Hour)
	raw, err := theirs.Issue("captain-1", domain.RoleCaptain)
	require.NoError(t, err)

	ours := auth.NewTokens("our-secret", time.Hour)
	h := middleware.NewSessionResolver(ours)(roleEchoHandler(t, domain.RoleGuest))

	req := httptest.NewRequest(http.MethodGet, "/trips", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}
