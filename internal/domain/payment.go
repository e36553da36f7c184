package domain

import (
	"time"

	"github.com/google/uuid"
)

// Currency is one of the two currencies the ledger understands.
type Currency string

const (
	CurrencyEUR Currency = "EUR"
	CurrencyCZK Currency = "CZK"
)

// Valid reports whether c is a known currency code.
func (c Currency) Valid() bool { return c == CurrencyEUR || c == CurrencyCZK }

// PaymentType classifies a recorded payment.
type PaymentType string

const (
	PaymentDeposit PaymentType = "deposit"
	PaymentFinal   PaymentType = "final"
	PaymentOther   PaymentType = "other"
)

// Valid reports whether t is a known payment type.
func (t PaymentType) Valid() bool {
	return t == PaymentDeposit || t == PaymentFinal || t == PaymentOther
}

// Payment is a record of money a guest handed to the captain. No money moves
// through the system; this only records intent.
type Payment struct {
	ID        uuid.UUID   `json:"id"`
	TripID    uuid.UUID   `json:"trip_id"`
	GuestName string      `json:"guest_name"`
	Amount    float64     `json:"amount"`
	Currency  Currency    `json:"currency"`
	Type      PaymentType `json:"type"`
	PaidAt    time.Time   `json:"paid_at"`
}
