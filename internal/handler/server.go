// Package handler implements the HTTP surface of the Captain's Deck API.
// All handlers are methods on Server; they decode requests, call the service
// layer, and map domain errors onto HTTP statuses. Methods are split into
// domain-specific files (trip.go, yacht.go, etc.) but all share the same
// Server struct so they can access its dependencies.
package handler

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/captainsdeck/backend/internal/costs"
	"github.com/captainsdeck/backend/internal/domain"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)
	SelectYacht(ctx context.Context, tripID, yachtID uuid.UUID) (domain.Trip, error)
	Confirm(ctx context.Context, tripID uuid.UUID, guests int) (domain.Trip, error)
	UpdateSettings(ctx context.Context, tripID uuid.UUID, s domain.TripSettings) (domain.Trip, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// YachtServicer defines the vessel-option operations the yacht handlers use.
type YachtServicer interface {
	Create(ctx context.Context, y domain.Yacht) (domain.Yacht, error)
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Yacht, error)
	Update(ctx context.Context, y domain.Yacht) (domain.Yacht, error)
	Delete(ctx context.Context, tripID, id uuid.UUID) error
}

// PaymentServicer defines the payment-tracker operations.
type PaymentServicer interface {
	Add(ctx context.Context, p domain.Payment) (domain.Payment, error)
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Payment, error)
	Delete(ctx context.Context, tripID, id uuid.UUID) error
	TotalPaidEur(payments []domain.Payment) float64
}

// RateServicer defines the exchange-rate operations.
type RateServicer interface {
	Get(ctx context.Context) (domain.Settings, error)
	SetRate(ctx context.Context, rate float64) (domain.Settings, error)
	Refresh(ctx context.Context) (domain.Settings, error)
}

// AuthServicer defines the identity operations.
type AuthServicer interface {
	GuestSession() (string, error)
	Login(ctx context.Context, email, password string) (string, error)
}

// EnrichServicer defines the listing-scrape operation.
type EnrichServicer interface {
	Suggest(ctx context.Context, listingURL string) (domain.YachtSuggestion, error)
}

// Server holds the handler dependencies for all API endpoints.
type Server struct {
	trips    TripServicer
	yachts   YachtServicer
	payments PaymentServicer
	rates    RateServicer
	auth     AuthServicer
	enrich   EnrichServicer
	conv     *costs.Converter
	openapi  []byte
}

// NewServer constructs the Server with all its dependencies.
func NewServer(
	trips TripServicer,
	yachts YachtServicer,
	payments PaymentServicer,
	rates RateServicer,
	auth AuthServicer,
	enrich EnrichServicer,
	conv *costs.Converter,
	openapi []byte,
) *Server {
	return &Server{
		trips:    trips,
		yachts:   yachts,
		payments: payments,
		rates:    rates,
		auth:     auth,
		enrich:   enrich,
		conv:     conv,
		openapi:  openapi,
	}
}

// Routes mounts every endpoint on a fresh chi router. Middleware (request
// IDs, logging, CORS, session resolution) is applied by the caller so tests
// can exercise routes bare.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Post("/auth/session", s.CreateGuestSession)
	r.Post("/auth/login", s.Login)

	r.Route("/trips", func(r chi.Router) {
		r.Get("/", s.ListTrips)
		r.Post("/", s.CreateTrip)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetTrip)
			r.Delete("/", s.DeleteTrip)
			r.Patch("/settings", s.UpdateTripSettings)
			r.Post("/select", s.SelectYacht)
			r.Post("/confirm", s.ConfirmTrip)
			r.Get("/qr", s.GetPaymentQR)

			r.Get("/yachts", s.ListYachts)
			r.Post("/yachts", s.CreateYacht)
			r.Post("/yachts/enrich", s.EnrichYacht)
			r.Put("/yachts/{yachtID}", s.UpdateYacht)
			r.Delete("/yachts/{yachtID}", s.DeleteYacht)

			r.Get("/payments", s.ListPayments)
			r.Post("/payments", s.CreatePayment)
			r.Delete("/payments/{paymentID}", s.DeletePayment)
		})
	})

	r.Route("/settings", func(r chi.Router) {
		r.Get("/rate", s.GetRate)
		r.Put("/rate", s.SetRate)
		r.Post("/rate/refresh", s.RefreshRate)
	})

	return r
}
