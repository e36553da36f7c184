package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/captainsdeck/backend/internal/auth"
	"github.com/captainsdeck/backend/internal/costs"
	"github.com/captainsdeck/backend/internal/domain"
	"github.com/captainsdeck/backend/internal/repo"
)

// PaymentService implements the payment tracker: captains record who paid
// what, everyone sees the list and the running EUR total.
type PaymentService struct {
	payments repo.PaymentRepo
	conv     *costs.Converter
	notifier Notifier
}

// NewPaymentService constructs a PaymentService.
func NewPaymentService(payments repo.PaymentRepo, conv *costs.Converter, n Notifier) *PaymentService {
	return &PaymentService{payments: payments, conv: conv, notifier: n}
}

// Add validates and records a payment. Captain only.
func (s *PaymentService) Add(ctx context.Context, p domain.Payment) (domain.Payment, error) {
	if !auth.RoleFrom(ctx).CanMutate() {
		return domain.Payment{}, fmt.Errorf("service.PaymentService.Add: %w", domain.ErrForbidden)
	}
	p.GuestName = strings.TrimSpace(p.GuestName)
	if p.GuestName == "" {
		return domain.Payment{}, fmt.Errorf("service.PaymentService.Add: %w: guest name is required", domain.ErrValidation)
	}
	if p.Amount <= 0 || math.IsNaN(p.Amount) || math.IsInf(p.Amount, 0) {
		return domain.Payment{}, fmt.Errorf("service.PaymentService.Add: %w: amount must be positive", domain.ErrValidation)
	}
	if !p.Currency.Valid() {
		return domain.Payment{}, fmt.Errorf("service.PaymentService.Add: %w: unknown currency %q", domain.ErrValidation, p.Currency)
	}
	if !p.Type.Valid() {
		return domain.Payment{}, fmt.Errorf("service.PaymentService.Add: %w: unknown payment type %q", domain.ErrValidation, p.Type)
	}

	created, err := s.payments.Create(ctx, p)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("service.PaymentService.Add: %w", err)
	}
	s.notifier.PaymentsChanged(created.TripID)
	return created, nil
}

// ListByTrip returns all payments of a trip, newest first. Readable by everyone.
func (s *PaymentService) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Payment, error) {
	payments, err := s.payments.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.PaymentService.ListByTrip: %w", err)
	}
	return payments, nil
}

// Delete removes a payment record. Captain only.
func (s *PaymentService) Delete(ctx context.Context, tripID, id uuid.UUID) error {
	if !auth.RoleFrom(ctx).CanMutate() {
		return fmt.Errorf("service.PaymentService.Delete: %w", domain.ErrForbidden)
	}
	if err := s.payments.Delete(ctx, tripID, id); err != nil {
		return fmt.Errorf("service.PaymentService.Delete: %w", err)
	}
	s.notifier.PaymentsChanged(tripID)
	return nil
}

// TotalPaidEur sums a payment list normalized to EUR at the current global
// exchange rate. CZK contributions are converted by division.
func (s *PaymentService) TotalPaidEur(payments []domain.Payment) float64 {
	var total float64
	for _, p := range payments {
		total += s.conv.ToEur(p.Amount, p.Currency)
	}
	return total
}
