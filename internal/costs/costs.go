// Package costs implements the cost-aggregation and currency-conversion
// engine: vessel totals, per-head splits, EUR↔CZK conversion with a
// last-known-good rate, capacity checks, and the deposit/final split.
// Pure computation only; nothing here touches the database.
package costs

import (
	"fmt"
	"math"
	"sync"

	"github.com/captainsdeck/backend/internal/domain"
)

// Total returns the sum of the three cost components of a yacht. Components
// are coerced to non-negative numbers at write time, so the total is always
// ≥ 0; no rounding happens until display.
func Total(y domain.Yacht) float64 {
	return y.Price + y.CharterPack + y.Extras
}

// PerGuest divides a total among guests. Guest counts below 1 are an error
// condition — the caller gets domain.ErrGuestCount, never Inf or NaN.
func PerGuest(total float64, guests int) (float64, error) {
	if guests < 1 {
		return 0, fmt.Errorf("costs.PerGuest: %w", domain.ErrGuestCount)
	}
	return total / float64(guests), nil
}

// OverCapacity reports whether guests exceeds the yacht's capacity.
// Advisory only: it blocks selecting a new option and surfaces a warning,
// but never force-deselects an already-selected one. A maxGuests of 0 means
// the capacity is unknown and the check passes.
func OverCapacity(guests, maxGuests int) bool {
	return maxGuests > 0 && guests > maxGuests
}

// DepositSplit returns the deposit and final payment amounts for a confirmed
// trip: a 50/50 split of the total, computed exactly once at confirmation.
func DepositSplit(total float64) (deposit, final float64) {
	deposit = total * 0.5
	return deposit, total - deposit
}

// Converter converts EUR amounts to CZK (and back) using a mutable shared
// exchange rate. Invalid rates are silently ignored so a bad value fetched
// from upstream can never propagate NaN or Infinity into the display layer;
// the last-known-good rate stays in effect instead.
//
// Safe for concurrent use.
type Converter struct {
	mu   sync.RWMutex
	rate float64
}

// NewConverter returns a Converter seeded with the given rate, falling back
// to domain.DefaultExchangeRate when the seed itself is invalid.
func NewConverter(rate float64) *Converter {
	c := &Converter{rate: domain.DefaultExchangeRate}
	c.SetRate(rate)
	return c
}

// SetRate replaces the rate. Non-positive, NaN, and infinite values are
// rejected and the previous rate is kept. Returns whether the rate was taken.
func (c *Converter) SetRate(rate float64) bool {
	if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return false
	}
	c.mu.Lock()
	c.rate = rate
	c.mu.Unlock()
	return true
}

// Rate returns the current EUR→CZK rate.
func (c *Converter) Rate() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rate
}

// Convert converts an EUR amount to CZK at the current rate.
func (c *Converter) Convert(amountEur float64) float64 {
	return amountEur * c.Rate()
}

// ToEur normalizes an amount in the given currency to EUR. CZK amounts are
// divided by the current rate; EUR amounts pass through unchanged.
func (c *Converter) ToEur(amount float64, currency domain.Currency) float64 {
	if currency == domain.CurrencyCZK {
		return amount / c.Rate()
	}
	return amount
}

// Breakdown is the derived cost view of one yacht for a given guest count
// and exchange rate. It is computed on demand and never stored.
type Breakdown struct {
	TotalEur     float64 `json:"total_eur"`
	PerGuestEur  float64 `json:"per_guest_eur"`
	PerGuestCzk  float64 `json:"per_guest_czk"`
	OverCapacity bool    `json:"over_capacity"`
}

// NewBreakdown computes the full derived cost view for a yacht.
// Returns domain.ErrGuestCount when guests < 1.
func NewBreakdown(y domain.Yacht, guests int, conv *Converter) (Breakdown, error) {
	total := Total(y)
	perHead, err := PerGuest(total, guests)
	if err != nil {
		return Breakdown{}, err
	}
	return Breakdown{
		TotalEur:     total,
		PerGuestEur:  perHead,
		PerGuestCzk:  conv.Convert(perHead),
		OverCapacity: OverCapacity(guests, y.MaxGuests),
	}, nil
}
