package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/captainsdeck/backend/internal/costs"
	"github.com/captainsdeck/backend/internal/domain"
	"github.com/captainsdeck/backend/internal/repo"
	"github.com/captainsdeck/backend/internal/service"
)

type mockPaymentRepo struct {
	t *testing.T

	create     func(ctx context.Context, p domain.Payment) (domain.Payment, error)
	listByTrip func(ctx context.Context, tripID uuid.UUID) ([]domain.Payment, error)
	delete     func(ctx context.Context, tripID, id uuid.UUID) error
}

func (m *mockPaymentRepo) Create(ctx context.Context, p domain.Payment) (domain.Payment, error) {
	if m.create == nil {
		m.t.Fatal("unexpected PaymentRepo.Create call")
	}
	return m.create(ctx, p)
}
func (m *mockPaymentRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Payment, error) {
	if m.listByTrip == nil {
		m.t.Fatal("unexpected PaymentRepo.ListByTrip call")
	}
	return m.listByTrip(ctx, tripID)
}
func (m *mockPaymentRepo) Delete(ctx context.Context, tripID, id uuid.UUID) error {
	if m.delete == nil {
		m.t.Fatal("unexpected PaymentRepo.Delete call")
	}
	return m.delete(ctx, tripID, id)
}

var _ repo.PaymentRepo = (*mockPaymentRepo)(nil)

func validPayment() domain.Payment {
	return domain.Payment{
		TripID:    uuid.New(),
		GuestName: "Marta",
		Amount:    125,
		Currency:  domain.CurrencyEUR,
		Type:      domain.PaymentDeposit,
	}
}

func TestPaymentService_Add_Valid(t *testing.T) {
	payments := &mockPaymentRepo{t: t,
		create: func(_ context.Context, p domain.Payment) (domain.Payment, error) {
			p.ID = uuid.New()
			return p, nil
		},
	}
	n := &recorderNotifier{}
	svc := service.NewPaymentService(payments, costs.NewConverter(25), n)

	got, err := svc.Add(captainCtx(), validPayment())

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Len(t, n.payments, 1)
}

func TestPaymentService_Add_Invalid(t *testing.T) {
	svc := service.NewPaymentService(&mockPaymentRepo{t: t}, costs.NewConverter(25), &recorderNotifier{})

	cases := map[string]func(p *domain.Payment){
		"empty name":       func(p *domain.Payment) { p.GuestName = "  " },
		"zero amount":      func(p *domain.Payment) { p.Amount = 0 },
		"negative amount":  func(p *domain.Payment) { p.Amount = -50 },
		"unknown currency": func(p *domain.Payment) { p.Currency = "USD" },
		"unknown type":     func(p *domain.Payment) { p.Type = "tip" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			p := validPayment()
			mutate(&p)
			_, err := svc.Add(captainCtx(), p)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestPaymentService_Add_GuestProducesNoStoreCall(t *testing.T) {
	n := &recorderNotifier{}
	svc := service.NewPaymentService(&mockPaymentRepo{t: t}, costs.NewConverter(25), n)

	_, err := svc.Add(guestCtx(), validPayment())

	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Empty(t, n.payments)
}

func TestPaymentService_Delete_GuestProducesNoStoreCall(t *testing.T) {
	svc := service.NewPaymentService(&mockPaymentRepo{t: t}, costs.NewConverter(25), &recorderNotifier{})

	err := svc.Delete(guestCtx(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestPaymentService_TotalPaidEur_MixedCurrencies(t *testing.T) {
	svc := service.NewPaymentService(&mockPaymentRepo{t: t}, costs.NewConverter(25), &recorderNotifier{})

	total := svc.TotalPaidEur([]domain.Payment{
		{Amount: 100, Currency: domain.CurrencyEUR},
		{Amount: 2500, Currency: domain.CurrencyCZK}, // 100 EUR at rate 25
		{Amount: 50, Currency: domain.CurrencyEUR},
	})

	assert.InDelta(t, 250, total, 1e-9)
}
