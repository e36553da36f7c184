// Package service contains the business logic for the Captain's Deck API.
// Services validate inputs, enforce the captain-only mutation gate, run the
// trip lifecycle state machine, and orchestrate repo calls. No SQL lives
// here — services depend on repo interfaces, not implementations.
//
// Every mutating method checks the caller's role from the context before
// touching a repository: a guest caller gets domain.ErrForbidden and no
// store call is ever made.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/captainsdeck/backend/internal/auth"
	"github.com/captainsdeck/backend/internal/costs"
	"github.com/captainsdeck/backend/internal/domain"
	"github.com/captainsdeck/backend/internal/money"
	"github.com/captainsdeck/backend/internal/repo"
)

// TripService implements trip CRUD and the lifecycle state machine
// (planning → confirmed), including yacht selection and trip settings.
type TripService struct {
	trips    repo.TripRepo
	yachts   repo.YachtRepo
	notifier Notifier
}

// NewTripService constructs a TripService.
func NewTripService(trips repo.TripRepo, yachts repo.YachtRepo, n Notifier) *TripService {
	return &TripService{trips: trips, yachts: yachts, notifier: n}
}

// Create validates and persists a new trip. Captain only.
func (s *TripService) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	if !auth.RoleFrom(ctx).CanMutate() {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", domain.ErrForbidden)
	}
	if strings.TrimSpace(trip.Name) == "" {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w: name is required", domain.ErrValidation)
	}
	if trip.StartDate != nil && trip.EndDate != nil && trip.EndDate.Before(*trip.StartDate) {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w: end date before start date", domain.ErrValidation)
	}

	created, err := s.trips.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	s.notifier.TripsChanged()
	return created, nil
}

// GetByID returns a single trip by ID. Readable by everyone.
func (s *TripService) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return trip, nil
}

// ListPaged returns one page of trips plus the total count.
func (s *TripService) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	trips, total, err := s.trips.ListPaged(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TripService.ListPaged: %w", err)
	}
	return trips, total, nil
}

// SelectYacht toggles the trip's selected yacht. Selecting the currently
// selected option clears the selection; selecting a different one replaces
// it. Captain only. The yacht must exist within the trip.
func (s *TripService) SelectYacht(ctx context.Context, tripID, yachtID uuid.UUID) (domain.Trip, error) {
	if !auth.RoleFrom(ctx).CanMutate() {
		return domain.Trip{}, fmt.Errorf("service.TripService.SelectYacht: %w", domain.ErrForbidden)
	}

	if _, err := s.yachts.GetByID(ctx, tripID, yachtID); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.SelectYacht: %w", err)
	}

	trip, err := s.trips.ToggleSelectedYacht(ctx, tripID, yachtID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.SelectYacht: %w", err)
	}
	s.notifier.TripChanged(tripID)
	return trip, nil
}

// Confirm transitions a trip from planning to confirmed. It requires a
// selected yacht that still exists and a guest count of at least 1. The
// derived fields — status, 50/50 deposit/final split of the selected yacht's
// total, and the locked guest count — are applied as one atomic update so
// concurrent guest viewers never see a half-applied state.
//
// The split is computed once, here; later edits to the yacht's price do not
// retroactively change a confirmed trip. Status is not a precondition:
// confirming an already-confirmed trip recomputes the split from the
// current selection, and clients are expected to offer the action only
// while planning.
func (s *TripService) Confirm(ctx context.Context, tripID uuid.UUID, guests int) (domain.Trip, error) {
	if !auth.RoleFrom(ctx).CanMutate() {
		return domain.Trip{}, fmt.Errorf("service.TripService.Confirm: %w", domain.ErrForbidden)
	}
	if guests < 1 {
		return domain.Trip{}, fmt.Errorf("service.TripService.Confirm: %w", domain.ErrGuestCount)
	}

	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Confirm: %w", err)
	}
	if trip.SelectedYachtID == nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Confirm: %w: no yacht selected", domain.ErrValidation)
	}

	yacht, err := s.yachts.GetByID(ctx, tripID, *trip.SelectedYachtID)
	if err != nil {
		// The selection may dangle if the yacht was deleted after selecting.
		return domain.Trip{}, fmt.Errorf("service.TripService.Confirm: selected yacht: %w", err)
	}

	deposit, final := costs.DepositSplit(costs.Total(yacht))

	confirmed, err := s.trips.Confirm(ctx, tripID, guests, deposit, final)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Confirm: %w", err)
	}
	s.notifier.TripChanged(tripID)
	return confirmed, nil
}

// UpdateSettings overwrites the captain-editable settings of a trip.
// Captain only. Amounts are coerced to non-negative numbers; a guest count,
// when present, must be at least 1.
func (s *TripService) UpdateSettings(ctx context.Context, tripID uuid.UUID, settings domain.TripSettings) (domain.Trip, error) {
	if !auth.RoleFrom(ctx).CanMutate() {
		return domain.Trip{}, fmt.Errorf("service.TripService.UpdateSettings: %w", domain.ErrForbidden)
	}
	if settings.ConfirmedGuests != nil && *settings.ConfirmedGuests < 1 {
		return domain.Trip{}, fmt.Errorf("service.TripService.UpdateSettings: %w", domain.ErrGuestCount)
	}
	settings.DepositAmount = money.Sanitize(settings.DepositAmount)
	settings.FinalPaymentAmount = money.Sanitize(settings.FinalPaymentAmount)
	settings.CaptainIbanEur = strings.TrimSpace(settings.CaptainIbanEur)
	settings.CaptainIbanCzk = strings.TrimSpace(settings.CaptainIbanCzk)

	trip, err := s.trips.UpdateSettings(ctx, tripID, settings)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.UpdateSettings: %w", err)
	}
	s.notifier.TripChanged(tripID)
	return trip, nil
}

// Delete removes a trip by ID. Captain only.
func (s *TripService) Delete(ctx context.Context, id uuid.UUID) error {
	if !auth.RoleFrom(ctx).CanMutate() {
		return fmt.Errorf("service.TripService.Delete: %w", domain.ErrForbidden)
	}
	if err := s.trips.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	s.notifier.TripsChanged()
	return nil
}
