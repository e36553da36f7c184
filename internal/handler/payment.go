package handler

import (
	"net/http"

	"github.com/captainsdeck/backend/internal/domain"
)

// paymentListResponse is the body of GET /trips/{id}/payments: the records
// plus the running total normalized to EUR at the current rate.
type paymentListResponse struct {
	Data         []domain.Payment `json:"data"`
	TotalPaidEur float64          `json:"total_paid_eur"`
}

// ListPayments handles GET /trips/{id}/payments.
func (s *Server) ListPayments(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	payments, err := s.payments.ListByTrip(r.Context(), tripID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if payments == nil {
		payments = []domain.Payment{}
	}
	respond(w, http.StatusOK, paymentListResponse{
		Data:         payments,
		TotalPaidEur: s.payments.TotalPaidEur(payments),
	})
}

// CreatePayment handles POST /trips/{id}/payments.
func (s *Server) CreatePayment(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var payment domain.Payment
	if err := decodeJSON(r, &payment); err != nil {
		requestError(w, "invalid request body")
		return
	}
	payment.TripID = tripID

	created, err := s.payments.Add(r.Context(), payment)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusCreated, created)
}

// DeletePayment handles DELETE /trips/{id}/payments/{paymentID}.
func (s *Server) DeletePayment(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	paymentID, ok := pathUUID(w, r, "paymentID")
	if !ok {
		return
	}
	if err := s.payments.Delete(r.Context(), tripID, paymentID); err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusNoContent, nil)
}
