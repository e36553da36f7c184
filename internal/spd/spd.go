// Package spd builds Short Payment Descriptor (SPD 1.0) payloads, the Czech
// banking QR format. The payload is a short text string encoding destination
// account, amount, currency, and a message, suitable for rendering as a
// scannable code.
package spd

import (
	"strconv"
	"strings"

	"github.com/captainsdeck/backend/internal/domain"
)

// Payload builds an SPD 1.0 string such as
//
//	SPD*1.0*ACC:CZ6508000000192000145399*AM:500*CC:EUR*MSG:Deposit Croatia 2026*
//
// The amount is encoded at full precision even though on-screen display is
// zero-decimal. The '*' field separator is stripped from free-text values so
// a trip name can never corrupt the payload.
func Payload(account string, amount float64, currency domain.Currency, message string) string {
	var b strings.Builder
	b.WriteString("SPD*1.0")
	b.WriteString("*ACC:")
	b.WriteString(sanitize(account))
	b.WriteString("*AM:")
	b.WriteString(strconv.FormatFloat(amount, 'f', -1, 64))
	b.WriteString("*CC:")
	b.WriteString(string(currency))
	b.WriteString("*MSG:")
	b.WriteString(sanitize(message))
	b.WriteString("*")
	return b.String()
}

func sanitize(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "*", ""))
}
