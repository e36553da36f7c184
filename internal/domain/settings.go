package domain

import "time"

// DefaultExchangeRate is the EUR→CZK rate assumed before anyone has saved or
// fetched a real one.
const DefaultExchangeRate = 25.0

// Settings is the single global settings record. The exchange rate is shared
// across all trips and is last-write-wins between concurrent captains.
type Settings struct {
	EurCzkRate float64   `json:"eur_czk_rate"`
	UpdatedAt  time.Time `json:"updated_at"`
}
