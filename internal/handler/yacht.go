package handler

import (
	"net/http"

	"github.com/captainsdeck/backend/internal/domain"
)

// ListYachts handles GET /trips/{id}/yachts.
func (s *Server) ListYachts(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	yachts, err := s.yachts.ListByTrip(r.Context(), tripID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if yachts == nil {
		yachts = []domain.Yacht{}
	}
	respond(w, http.StatusOK, yachts)
}

// CreateYacht handles POST /trips/{id}/yachts.
func (s *Server) CreateYacht(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var yacht domain.Yacht
	if err := decodeJSON(r, &yacht); err != nil {
		requestError(w, "invalid request body")
		return
	}
	yacht.TripID = tripID

	created, err := s.yachts.Create(r.Context(), yacht)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusCreated, created)
}

// UpdateYacht handles PUT /trips/{id}/yachts/{yachtID}.
func (s *Server) UpdateYacht(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	yachtID, ok := pathUUID(w, r, "yachtID")
	if !ok {
		return
	}
	var yacht domain.Yacht
	if err := decodeJSON(r, &yacht); err != nil {
		requestError(w, "invalid request body")
		return
	}
	yacht.ID = yachtID
	yacht.TripID = tripID

	updated, err := s.yachts.Update(r.Context(), yacht)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, updated)
}

// DeleteYacht handles DELETE /trips/{id}/yachts/{yachtID}.
func (s *Server) DeleteYacht(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	yachtID, ok := pathUUID(w, r, "yachtID")
	if !ok {
		return
	}
	if err := s.yachts.Delete(r.Context(), tripID, yachtID); err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusNoContent, nil)
}

// EnrichYacht handles POST /trips/{id}/yachts/enrich: scrape a pasted
// listing URL and return suggested field values. Nothing is persisted — the
// client applies the suggestion to its draft form.
func (s *Server) EnrichYacht(w http.ResponseWriter, r *http.Request) {
	if _, ok := pathUUID(w, r, "id"); !ok {
		return
	}
	var body enrichRequest
	if !decodeValid(w, r, &body) {
		return
	}

	suggestion, err := s.enrich.Suggest(r.Context(), body.URL)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, suggestion)
}
