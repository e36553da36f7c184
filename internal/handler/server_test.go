package handler_test

import (
	"context"
	"net/http/httptest"
	"strings"

	"github.com/google/uuid"

	"github.com/captainsdeck/backend/internal/costs"
	"github.com/captainsdeck/backend/internal/domain"
	"github.com/captainsdeck/backend/internal/handler"
)

// Function-field mocks for every servicer interface. Unset fields panic on
// use, which keeps each test honest about what it exercises.

type mockTrips struct {
	create         func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID        func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	listPaged      func(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)
	selectYacht    func(ctx context.Context, tripID, yachtID uuid.UUID) (domain.Trip, error)
	confirm        func(ctx context.Context, tripID uuid.UUID, guests int) (domain.Trip, error)
	updateSettings func(ctx context.Context, tripID uuid.UUID, s domain.TripSettings) (domain.Trip, error)
	delete         func(ctx context.Context, id uuid.UUID) error
}

func (m *mockTrips) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTrips) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTrips) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	return m.listPaged(ctx, p)
}
func (m *mockTrips) SelectYacht(ctx context.Context, tripID, yachtID uuid.UUID) (domain.Trip, error) {
	return m.selectYacht(ctx, tripID, yachtID)
}
func (m *mockTrips) Confirm(ctx context.Context, tripID uuid.UUID, guests int) (domain.Trip, error) {
	return m.confirm(ctx, tripID, guests)
}
func (m *mockTrips) UpdateSettings(ctx context.Context, tripID uuid.UUID, s domain.TripSettings) (domain.Trip, error) {
	return m.updateSettings(ctx, tripID, s)
}
func (m *mockTrips) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

var _ handler.TripServicer = (*mockTrips)(nil)

type mockYachts struct {
	create     func(ctx context.Context, y domain.Yacht) (domain.Yacht, error)
	listByTrip func(ctx context.Context, tripID uuid.UUID) ([]domain.Yacht, error)
	update     func(ctx context.Context, y domain.Yacht) (domain.Yacht, error)
	delete     func(ctx context.Context, tripID, id uuid.UUID) error
}

func (m *mockYachts) Create(ctx context.Context, y domain.Yacht) (domain.Yacht, error) {
	return m.create(ctx, y)
}
func (m *mockYachts) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Yacht, error) {
	return m.listByTrip(ctx, tripID)
}
func (m *mockYachts) Update(ctx context.Context, y domain.Yacht) (domain.Yacht, error) {
	return m.update(ctx, y)
}
func (m *mockYachts) Delete(ctx context.Context, tripID, id uuid.UUID) error {
	return m.delete(ctx, tripID, id)
}

var _ handler.YachtServicer = (*mockYachts)(nil)

type mockPayments struct {
	add        func(ctx context.Context, p domain.Payment) (domain.Payment, error)
	listByTrip func(ctx context.Context, tripID uuid.UUID) ([]domain.Payment, error)
	delete     func(ctx context.Context, tripID, id uuid.UUID) error
	totalEur   func(payments []domain.Payment) float64
}

func (m *mockPayments) Add(ctx context.Context, p domain.Payment) (domain.Payment, error) {
	return m.add(ctx, p)
}
func (m *mockPayments) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Payment, error) {
	return m.listByTrip(ctx, tripID)
}
func (m *mockPayments) Delete(ctx context.Context, tripID, id uuid.UUID) error {
	return m.delete(ctx, tripID, id)
}
func (m *mockPayments) TotalPaidEur(payments []domain.Payment) float64 {
	if m.totalEur == nil {
		return 0
	}
	return m.totalEur(payments)
}

var _ handler.PaymentServicer = (*mockPayments)(nil)

type mockRates struct {
	get     func(ctx context.Context) (domain.Settings, error)
	setRate func(ctx context.Context, rate float64) (domain.Settings, error)
	refresh func(ctx context.Context) (domain.Settings, error)
}

func (m *mockRates) Get(ctx context.Context) (domain.Settings, error) { return m.get(ctx) }
func (m *mockRates) SetRate(ctx context.Context, rate float64) (domain.Settings, error) {
	return m.setRate(ctx, rate)
}
func (m *mockRates) Refresh(ctx context.Context) (domain.Settings, error) { return m.refresh(ctx) }

var _ handler.RateServicer = (*mockRates)(nil)

type mockAuth struct {
	guestSession func() (string, error)
	login        func(ctx context.Context, email, password string) (string, error)
}

func (m *mockAuth) GuestSession() (string, error) { return m.guestSession() }
func (m *mockAuth) Login(ctx context.Context, email, password string) (string, error) {
	return m.login(ctx, email, password)
}

var _ handler.AuthServicer = (*mockAuth)(nil)

type mockEnrich struct {
	suggest func(ctx context.Context, listingURL string) (domain.YachtSuggestion, error)
}

func (m *mockEnrich) Suggest(ctx context.Context, listingURL string) (domain.YachtSuggestion, error) {
	return m.suggest(ctx, listingURL)
}

var _ handler.EnrichServicer = (*mockEnrich)(nil)

// deps bundles the mocks behind a Server for a test.
type deps struct {
	trips    *mockTrips
	yachts   *mockYachts
	payments *mockPayments
	rates    *mockRates
	auth     *mockAuth
	enrich   *mockEnrich
	conv     *costs.Converter
}

func newDeps() *deps {
	return &deps{
		trips:    &mockTrips{},
		yachts:   &mockYachts{},
		payments: &mockPayments{},
		rates:    &mockRates{},
		auth:     &mockAuth{},
		enrich:   &mockEnrich{},
		conv:     costs.NewConverter(25),
	}
}

func (d *deps) server() *handler.Server {
	return handler.NewServer(d.trips, d.yachts, d.payments, d.rates, d.auth, d.enrich, d.conv, []byte("openapi: 3.0.3\n"))
}

// serve runs one request through the full route table.
func (d *deps) serve(method, target, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	d.server().Routes().ServeHTTP(rec, req)
	return rec
}
