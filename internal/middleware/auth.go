package middleware

import (
	"net/http"
	"strings"

	"github.com/captainsdeck/backend/internal/auth"
)

// NewSessionResolver returns a middleware that resolves the Bearer token of
// a request into a session and stores it in the context. A missing or
// invalid token is not an error: the request simply proceeds as an
// anonymous guest, and the captain-only checks downstream reject any
// mutation it attempts.
func NewSessionResolver(tokens *auth.Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if ok {
				if session, err := tokens.Verify(strings.TrimSpace(raw)); err == nil {
					r = r.WithContext(auth.WithSession(r.Context(), session))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
