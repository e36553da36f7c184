package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/captainsdeck/backend/internal/auth"
	"github.com/captainsdeck/backend/internal/domain"
	"github.com/captainsdeck/backend/internal/money"
	"github.com/captainsdeck/backend/internal/repo"
)

// YachtService implements business logic for vessel-option operations.
// All mutations are captain-only; everyone may read.
type YachtService struct {
	yachts   repo.YachtRepo
	notifier Notifier
}

// NewYachtService constructs a YachtService.
func NewYachtService(yachts repo.YachtRepo, n Notifier) *YachtService {
	return &YachtService{yachts: yachts, notifier: n}
}

// sanitize coerces the cost components and capacity of a yacht to safe
// values: negative or non-finite amounts become 0, as does a negative
// capacity. An empty name blocks the save entirely — the one hard
// requirement a proposal has.
func sanitizeYacht(y domain.Yacht) (domain.Yacht, error) {
	y.Name = strings.TrimSpace(y.Name)
	if y.Name == "" {
		return domain.Yacht{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	y.Price = money.Sanitize(y.Price)
	y.CharterPack = money.Sanitize(y.CharterPack)
	y.Extras = money.Sanitize(y.Extras)
	if y.MaxGuests < 0 {
		y.MaxGuests = 0
	}
	return y, nil
}

// Create validates and persists a new vessel option. Captain only.
func (s *YachtService) Create(ctx context.Context, y domain.Yacht) (domain.Yacht, error) {
	if !auth.RoleFrom(ctx).CanMutate() {
		return domain.Yacht{}, fmt.Errorf("service.YachtService.Create: %w", domain.ErrForbidden)
	}
	y, err := sanitizeYacht(y)
	if err != nil {
		return domain.Yacht{}, fmt.Errorf("service.YachtService.Create: %w", err)
	}

	created, err := s.yachts.Create(ctx, y)
	if err != nil {
		return domain.Yacht{}, fmt.Errorf("service.YachtService.Create: %w", err)
	}
	s.notifier.YachtsChanged(created.TripID)
	return created, nil
}

// ListByTrip returns all vessel options of a trip, newest first.
func (s *YachtService) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Yacht, error) {
	yachts, err := s.yachts.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.YachtService.ListByTrip: %w", err)
	}
	return yachts, nil
}

// Update validates and updates an existing vessel option. Captain only.
func (s *YachtService) Update(ctx context.Context, y domain.Yacht) (domain.Yacht, error) {
	if !auth.RoleFrom(ctx).CanMutate() {
		return domain.Yacht{}, fmt.Errorf("service.YachtService.Update: %w", domain.ErrForbidden)
	}
	y, err := sanitizeYacht(y)
	if err != nil {
		return domain.Yacht{}, fmt.Errorf("service.YachtService.Update: %w", err)
	}

	updated, err := s.yachts.Update(ctx, y)
	if err != nil {
		return domain.Yacht{}, fmt.Errorf("service.YachtService.Update: %w", err)
	}
	s.notifier.YachtsChanged(updated.TripID)
	return updated, nil
}

// Delete removes a vessel option. Captain only. Deleting the currently
// selected yacht leaves the trip's selection dangling on purpose — readers
// tolerate a dangling soft reference.
func (s *YachtService) Delete(ctx context.Context, tripID, id uuid.UUID) error {
	if !auth.RoleFrom(ctx).CanMutate() {
		return fmt.Errorf("service.YachtService.Delete: %w", domain.ErrForbidden)
	}
	if err := s.yachts.Delete(ctx, tripID, id); err != nil {
		return fmt.Errorf("service.YachtService.Delete: %w", err)
	}
	s.notifier.YachtsChanged(tripID)
	return nil
}
