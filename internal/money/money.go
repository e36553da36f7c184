// Package money parses free-text price strings from heterogeneous sources
// into canonical float amounts and formats amounts back into locale-correct
// currency strings. It never returns errors: unparseable input degrades to 0
// and display formatting is lossy (whole units) by design.
package money

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/captainsdeck/backend/internal/domain"
)

// Placeholder is rendered when there is no amount at all (nil input).
// Distinct from a formatted zero amount.
const Placeholder = "-"

var (
	eurPrinter = message.NewPrinter(language.MustParse("en-IE"))
	czkPrinter = message.NewPrinter(language.MustParse("cs-CZ"))
)

// ParseAmount extracts a monetary amount from a free-text price string such
// as "3 459,00 €" or "1,234.56 EUR". Everything except digits, commas, and
// periods is stripped first, so spaces act as thousands separators.
//
// Separator disambiguation: the last comma or period is treated as the
// decimal separator iff it is followed by one or two digits; every other
// separator is grouping and is removed. So "3 459,00" → 3459, "1.234.567" →
// 1234567, and "1,234.56" → 1234.56.
//
// Empty or unparseable input returns 0, never an error.
func ParseAmount(text string) float64 {
	var b strings.Builder
	for _, r := range text {
		if (r >= '0' && r <= '9') || r == ',' || r == '.' {
			b.WriteRune(r)
		}
	}
	clean := b.String()
	if clean == "" {
		return 0
	}

	lastSep := strings.LastIndexAny(clean, ",.")
	decimalAt := -1
	if lastSep != -1 {
		if frac := len(clean) - lastSep - 1; frac == 1 || frac == 2 {
			decimalAt = lastSep
		}
	}

	var out strings.Builder
	for i, r := range clean {
		switch {
		case r >= '0' && r <= '9':
			out.WriteRune(r)
		case i == decimalAt:
			out.WriteByte('.')
		}
	}

	f, err := strconv.ParseFloat(out.String(), 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0
	}
	return f
}

// Format renders amount as a zero-decimal currency string: "€1,234" for EUR
// (en-IE conventions) and "1 234 Kč" for CZK (cs-CZ conventions). A nil
// amount renders as Placeholder. Rounding here is display-only; stored
// amounts retain full precision.
func Format(amount *float64, currency domain.Currency) string {
	if amount == nil {
		return Placeholder
	}
	v := math.Round(*amount)
	d := number.Decimal(v, number.MaxFractionDigits(0))
	if currency == domain.CurrencyCZK {
		return czkPrinter.Sprintf("%v Kč", d)
	}
	return eurPrinter.Sprintf("€%v", d)
}

// Sanitize coerces a cost component to a usable non-negative number.
// Negative, NaN, and infinite values become 0.
func Sanitize(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}
