package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/captainsdeck/backend/internal/costs"
	"github.com/captainsdeck/backend/internal/domain"
)

// Pagination echoes the effective paging parameters of a list response.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// tripListResponse is the body of GET /trips.
type tripListResponse struct {
	Data       []domain.Trip `json:"data"`
	Pagination Pagination    `json:"pagination"`
}

// yachtView is one vessel option with its derived per-head cost view.
// Breakdown is null when the guest count is unknown.
type yachtView struct {
	domain.Yacht
	Breakdown *costs.Breakdown `json:"breakdown,omitempty"`
}

// tripDetailResponse is the body of GET /trips/{id}: the trip plus every
// vessel option with live cost splits and the payment running total.
type tripDetailResponse struct {
	Trip         domain.Trip `json:"trip"`
	Yachts       []yachtView `json:"yachts"`
	Guests       int         `json:"guests,omitempty"`
	TotalPaidEur float64     `json:"total_paid_eur"`
}

// ListTrips handles GET /trips.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	params := domain.NewPaginationParams(queryInt(r, "page"), queryInt(r, "limit"))
	trips, total, err := s.trips.ListPaged(r.Context(), params)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	respond(w, http.StatusOK, tripListResponse{
		Data:       trips,
		Pagination: Pagination{Page: params.Page, Limit: params.Limit, Total: int(total)},
	})
}

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var trip domain.Trip
	if err := decodeJSON(r, &trip); err != nil {
		requestError(w, "invalid request body")
		return
	}

	created, err := s.trips.Create(r.Context(), trip)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusCreated, created)
}

// GetTrip handles GET /trips/{id}. The response includes every vessel option
// with its computed cost breakdown. The guest count used for the per-head
// split comes from ?guests=, falling back to the trip's locked count; the
// exchange rate can be previewed with ?rate= without touching the stored
// rate. Without a usable guest count the breakdowns are omitted.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	trip, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	yachts, err := s.yachts.ListByTrip(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	payments, err := s.payments.ListByTrip(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	guests := 0
	if trip.ConfirmedGuests != nil {
		guests = *trip.ConfirmedGuests
	}
	if n := queryInt(r, "guests"); n != nil && *n >= 1 {
		guests = *n
	}

	conv := s.conv
	if rate := r.URL.Query().Get("rate"); rate != "" {
		if f, err := strconv.ParseFloat(rate, 64); err == nil {
			preview := costs.NewConverter(s.conv.Rate())
			if preview.SetRate(f) {
				conv = preview
			}
		}
	}

	views := make([]yachtView, len(yachts))
	for i, y := range yachts {
		views[i] = yachtView{Yacht: y}
		if guests >= 1 {
			if b, err := costs.NewBreakdown(y, guests, conv); err == nil {
				views[i].Breakdown = &b
			}
		}
	}

	respond(w, http.StatusOK, tripDetailResponse{
		Trip:         trip,
		Yachts:       views,
		Guests:       guests,
		TotalPaidEur: s.payments.TotalPaidEur(payments),
	})
}

// DeleteTrip handles DELETE /trips/{id}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := s.trips.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusNoContent, nil)
}

// UpdateTripSettings handles PATCH /trips/{id}/settings.
func (s *Server) UpdateTripSettings(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var settings domain.TripSettings
	if err := decodeJSON(r, &settings); err != nil {
		requestError(w, "invalid request body")
		return
	}

	trip, err := s.trips.UpdateSettings(r.Context(), id, settings)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, trip)
}

// SelectYacht handles POST /trips/{id}/select. Selecting the currently
// selected yacht clears the selection.
func (s *Server) SelectYacht(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var body selectYachtRequest
	if !decodeValid(w, r, &body) {
		return
	}

	trip, err := s.trips.SelectYacht(r.Context(), id, body.YachtID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, trip)
}

// ConfirmTrip handles POST /trips/{id}/confirm.
func (s *Server) ConfirmTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var body confirmRequest
	if !decodeValid(w, r, &body) {
		return
	}

	trip, err := s.trips.Confirm(r.Context(), id, body.Guests)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, trip)
}

// --- request helpers --------------------------------------------------------

// pathUUID parses a UUID path parameter, writing a 404 on failure. A
// syntactically invalid id addresses nothing, which is the same as a missing
// resource.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		respond(w, http.StatusNotFound, errorBody("not_found", "resource not found"))
		return uuid.Nil, false
	}
	return id, true
}

// queryInt reads an optional integer query parameter.
func queryInt(r *http.Request, name string) *int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}
