package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/captainsdeck/backend/internal/domain"
	"github.com/captainsdeck/backend/internal/repo"
)

func TestPaymentRepo_CreateAndList(t *testing.T) {
	tx := newTestTx(t)
	trips := repo.NewTripRepo(tx)
	payments := repo.NewPaymentRepo(tx)
	ctx := context.Background()

	trip, err := trips.Create(ctx, tripFixture())
	require.NoError(t, err)

	got, err := payments.Create(ctx, domain.Payment{
		TripID:    trip.ID,
		GuestName: "Marek",
		Amount:    6250,
		Currency:  domain.CurrencyCZK,
		Type:      domain.PaymentDeposit,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, "Marek", got.GuestName)
	assert.Equal(t, domain.CurrencyCZK, got.Currency)
	assert.Equal(t, domain.PaymentDeposit, got.Type)
	assert.False(t, got.PaidAt.IsZero(), "PaidAt is server-assigned")

	list, err := payments.ListByTrip(ctx, trip.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, got.ID, list[0].ID)
}

func TestPaymentRepo_Delete(t *testing.T) {
	tx := newTestTx(t)
	trips := repo.NewTripRepo(tx)
	payments := repo.NewPaymentRepo(tx)
	ctx := context.Background()

	trip, err := trips.Create(ctx, tripFixture())
	require.NoError(t, err)
	p, err := payments.Create(ctx, domain.Payment{
		TripID: trip.ID, GuestName: "Eva", Amount: 250,
		Currency: domain.CurrencyEUR, Type: domain.PaymentFinal,
	})
	require.NoError(t, err)

	require.NoError(t, payments.Delete(ctx, trip.ID, p.ID))
	assert.ErrorIs(t, payments.Delete(ctx, trip.ID, p.ID), domain.ErrNotFound)
}

func TestSettingsRepo_GetDefaultRow(t *testing.T) {
	r := repo.NewSettingsRepo(newTestTx(t))

	s, err := r.Get(context.Background())
	require.NoError(t, err)
	assert.Greater(t, s.EurCzkRate, 0.0)
}

func TestSettingsRepo_SetRate(t *testing.T) {
	r := repo.NewSettingsRepo(newTestTx(t))
	ctx := context.Background()

	s, err := r.SetRate(ctx, 24.73)
	require.NoError(t, err)
	assert.Equal(t, 24.73, s.EurCzkRate)

	got, err := r.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 24.73, got.EurCzkRate)
}

func TestCaptainRepo_CreateAndGetByEmail(t *testing.T) {
	r := repo.NewCaptainRepo(newTestTx(t))
	ctx := context.Background()

	created, err := r.Create(ctx, "Skipper@Example.com", "$2a$10$hash")
	require.NoError(t, err)
	assert.Equal(t, "skipper@example.com", created.Email, "emails are stored lowercased")

	got, err := r.GetByEmail(ctx, "SKIPPER@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	n, err := r.Count(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, int64(1))
}

func TestCaptainRepo_GetByEmail_NotFound(t *testing.T) {
	r := repo.NewCaptainRepo(newTestTx(t))

	_, err := r.GetByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
