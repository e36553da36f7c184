// Package domain contains the core data types for the Captain's Deck API.
// This package has zero business logic and is imported by every other
// internal package (repo, service, handler, stream).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// TripStatus is the lifecycle state of a trip.
// The only modeled transition is planning → confirmed; there is no
// "unconfirm" operation.
type TripStatus string

const (
	// StatusPlanning is the initial state: options are being collected and
	// the guest count is still editable.
	StatusPlanning TripStatus = "planning"

	// StatusConfirmed is the terminal state: a yacht has been locked in, the
	// guest count is pinned, and deposit/final amounts have been derived.
	StatusConfirmed TripStatus = "confirmed"
)

// Trip is the top-level aggregate. Yachts and payments belong to a trip.
//
// ConfirmedGuests is nil until the trip is confirmed; once set it pins the
// guest count used for per-head splits. SelectedYachtID is a soft reference:
// readers must tolerate it pointing at a yacht that has since been deleted.
type Trip struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	StartDate       *time.Time `json:"start_date,omitempty"`
	EndDate         *time.Time `json:"end_date,omitempty"`
	Status          TripStatus `json:"status"`
	ConfirmedGuests *int       `json:"confirmed_guests,omitempty"`
	SelectedYachtID *uuid.UUID `json:"selected_yacht_id,omitempty"`
	CaptainIbanEur  string     `json:"captain_iban_eur,omitempty"`
	CaptainIbanCzk  string     `json:"captain_iban_czk,omitempty"`

	// DepositAmount and FinalPaymentAmount are EUR amounts derived once at
	// confirmation (50/50 split of the selected yacht's total). The captain
	// may override them afterwards via trip settings.
	DepositAmount      float64 `json:"deposit_amount"`
	FinalPaymentAmount float64 `json:"final_payment_amount"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Confirmed reports whether the trip has reached the confirmed state.
func (t Trip) Confirmed() bool { return t.Status == StatusConfirmed }

// GuestCountLocked reports whether guest-count editing should be disabled.
// The lock is advisory: it is enforced by clients, not by the data layer.
func (t Trip) GuestCountLocked() bool { return t.ConfirmedGuests != nil }

// TripSettings carries the captain-editable settings fields of a trip.
// Zero amounts are valid (they clear the derived values).
type TripSettings struct {
	ConfirmedGuests    *int    `json:"confirmed_guests,omitempty"`
	CaptainIbanEur     string  `json:"captain_iban_eur"`
	CaptainIbanCzk     string  `json:"captain_iban_czk"`
	DepositAmount      float64 `json:"deposit_amount"`
	FinalPaymentAmount float64 `json:"final_payment_amount"`
}
