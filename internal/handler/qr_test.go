package handler_test

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/captainsdeck/backend/internal/domain"
)

// pngMagic is the first eight bytes of every PNG file.
var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func confirmedTrip(id uuid.UUID) domain.Trip {
	guests := 5
	return domain.Trip{
		ID:                 id,
		Name:               "Croatia 2026",
		Status:             domain.StatusConfirmed,
		ConfirmedGuests:    &guests,
		CaptainIbanEur:     "DE89370400440532013000",
		CaptainIbanCzk:     "CZ6508000000192000145399",
		DepositAmount:      625,
		FinalPaymentAmount: 625,
	}
}

func TestGetPaymentQR_RendersPNG(t *testing.T) {
	d := newDeps()
	d.trips.getByID = func(_ context.Context, id uuid.UUID) (domain.Trip, error) {
		return confirmedTrip(id), nil
	}

	rec := d.serve(http.MethodGet, "/trips/"+uuid.NewString()+"/qr?payment=deposit&currency=EUR", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), pngMagic), "body must be a PNG")
}

func TestGetPaymentQR_CZKUsesCZKIban(t *testing.T) {
	d := newDeps()
	trip := confirmedTrip(uuid.New())
	trip.CaptainIbanCzk = ""
	d.trips.getByID = func(_ context.Context, _ uuid.UUID) (domain.Trip, error) {
		return trip, nil
	}

	rec := d.serve(http.MethodGet, "/trips/"+uuid.NewString()+"/qr?payment=deposit&currency=CZK", "")

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "IBAN")
}

func TestGetPaymentQR_InvalidParams(t *testing.T) {
	d := newDeps()
	for _, target := range []string{
		"/trips/" + uuid.NewString() + "/qr",
		"/trips/" + uuid.NewString() + "/qr?payment=deposit&currency=USD",
		"/trips/" + uuid.NewString() + "/qr?payment=tip&currency=EUR",
	} {
		rec := d.serve(http.MethodGet, target, "")
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, target)
	}
}

func TestGetPaymentQR_NoAmountConfigured(t *testing.T) {
	d := newDeps()
	d.trips.getByID = func(_ context.Context, id uuid.UUID) (domain.Trip, error) {
		return domain.Trip{ID: id, Name: "Croatia 2026"}, nil
	}

	rec := d.serve(http.MethodGet, "/trips/"+uuid.NewString()+"/qr?payment=final&currency=EUR", "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
