package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/captainsdeck/backend/internal/domain"
)

func TestCreateYacht_TripIDFromPath(t *testing.T) {
	d := newDeps()
	tripID := uuid.New()
	d.yachts.create = func(_ context.Context, y domain.Yacht) (domain.Yacht, error) {
		assert.Equal(t, tripID, y.TripID, "path wins over any body value")
		y.ID = uuid.New()
		return y, nil
	}

	rec := d.serve(http.MethodPost, "/trips/"+tripID.String()+"/yachts",
		`{"name":"Lagoon 42","price":2400}`)

	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestListYachts_EmptyIsArray(t *testing.T) {
	d := newDeps()
	d.yachts.listByTrip = func(_ context.Context, _ uuid.UUID) ([]domain.Yacht, error) {
		return nil, nil
	}

	rec := d.serve(http.MethodGet, "/trips/"+uuid.NewString()+"/yachts", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String(), "nil list serializes as [], not null")
}

func TestUpdateYacht_IDsFromPath(t *testing.T) {
	d := newDeps()
	tripID, yachtID := uuid.New(), uuid.New()
	d.yachts.update = func(_ context.Context, y domain.Yacht) (domain.Yacht, error) {
		assert.Equal(t, tripID, y.TripID)
		assert.Equal(t, yachtID, y.ID)
		return y, nil
	}

	rec := d.serve(http.MethodPut,
		"/trips/"+tripID.String()+"/yachts/"+yachtID.String(),
		`{"name":"Renamed","price":2000}`)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestEnrichYacht_ReturnsSuggestion(t *testing.T) {
	d := newDeps()
	d.enrich.suggest = func(_ context.Context, listingURL string) (domain.YachtSuggestion, error) {
		assert.Equal(t, "https://example.com/listing", listingURL)
		return domain.YachtSuggestion{Name: "Bavaria C46", Price: 2850}, nil
	}

	rec := d.serve(http.MethodPost, "/trips/"+uuid.NewString()+"/yachts/enrich",
		`{"url":"https://example.com/listing"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Bavaria C46")
}

func TestEnrichYacht_AllFetchesFailedIs503(t *testing.T) {
	d := newDeps()
	d.enrich.suggest = func(_ context.Context, _ string) (domain.YachtSuggestion, error) {
		return domain.YachtSuggestion{}, fmt.Errorf("service: %w", domain.ErrUnavailable)
	}

	rec := d.serve(http.MethodPost, "/trips/"+uuid.NewString()+"/yachts/enrich",
		`{"url":"https://example.com/listing"}`)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestListPayments_IncludesTotal(t *testing.T) {
	d := newDeps()
	d.payments.listByTrip = func(_ context.Context, _ uuid.UUID) ([]domain.Payment, error) {
		return []domain.Payment{
			{GuestName: "Marta", Amount: 100, Currency: domain.CurrencyEUR},
			{GuestName: "Petr", Amount: 2500, Currency: domain.CurrencyCZK},
		}, nil
	}
	d.payments.totalEur = func(payments []domain.Payment) float64 { return 200 }

	rec := d.serve(http.MethodGet, "/trips/"+uuid.NewString()+"/payments", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data         []domain.Payment `json:"data"`
		TotalPaidEur float64          `json:"total_paid_eur"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Data, 2)
	assert.Equal(t, 200.0, body.TotalPaidEur)
}

func TestCreatePayment_Created(t *testing.T) {
	d := newDeps()
	tripID := uuid.New()
	d.payments.add = func(_ context.Context, p domain.Payment) (domain.Payment, error) {
		assert.Equal(t, tripID, p.TripID)
		p.ID = uuid.New()
		return p, nil
	}

	rec := d.serve(http.MethodPost, "/trips/"+tripID.String()+"/payments",
		`{"guest_name":"Marta","amount":125,"currency":"EUR","type":"deposit"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestDeletePayment_NotFound(t *testing.T) {
	d := newDeps()
	d.payments.delete = func(_ context.Context, _, _ uuid.UUID) error { return domain.ErrNotFound }

	rec := d.serve(http.MethodDelete,
		"/trips/"+uuid.NewString()+"/payments/"+uuid.NewString(), "")

	require.Equal(t, http.StatusNotFound, rec.Code)
}
