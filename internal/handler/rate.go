package handler

import (
	"net/http"
)

// GetRate handles GET /settings/rate.
func (s *Server) GetRate(w http.ResponseWriter, r *http.Request) {
	settings, err := s.rates.Get(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, settings)
}

// SetRate handles PUT /settings/rate: a manual captain override of the
// global EUR→CZK rate.
func (s *Server) SetRate(w http.ResponseWriter, r *http.Request) {
	var body setRateRequest
	if !decodeValid(w, r, &body) {
		return
	}

	settings, err := s.rates.SetRate(r.Context(), body.EurCzkRate)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, settings)
}

// RefreshRate handles POST /settings/rate/refresh: re-fetch the rate from
// the external API. A transient upstream failure returns 503 and leaves the
// stored rate in effect.
func (s *Server) RefreshRate(w http.ResponseWriter, r *http.Request) {
	settings, err := s.rates.Refresh(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, settings)
}
