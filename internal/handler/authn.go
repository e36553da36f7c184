package handler

import (
	"net/http"
)

// sessionResponse is the body of both auth endpoints.
type sessionResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// CreateGuestSession handles POST /auth/session: issue a fresh anonymous
// read-only token. Called on first load and again after logout.
func (s *Server) CreateGuestSession(w http.ResponseWriter, r *http.Request) {
	token, err := s.auth.GuestSession()
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusCreated, sessionResponse{Token: token, Role: "guest"})
}

// Login handles POST /auth/login: verify captain credentials and issue a
// captain token.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if !decodeValid(w, r, &body) {
		return
	}

	token, err := s.auth.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, sessionResponse{Token: token, Role: "captain"})
}
