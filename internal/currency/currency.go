package currency

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is one of the fixed set of currencies Krolist supports. The set is
// closed: the symbol and fallback-rate tables below cover every member, and
// conversion never has to handle an unknown code.
type Currency string

const (
	USD Currency = "USD"
	SAR Currency = "SAR"
	EGP Currency = "EGP"
	AED Currency = "AED"
)

// Supported returns the closed set of supported currencies.
func Supported() []Currency {
	return []Currency{USD, SAR, EGP, AED}
}

// fallbackRates is the hardcoded rate-to-USD table used whenever the backing
// store is unreachable, empty, or missing a currency.
var fallbackRates = map[Currency]float64{
	USD: 1,
	SAR: 3.75,
	EGP: 30.90,
	AED: 3.67,
}

// symbols maps each currency to its display symbol. USD is prefixed, the
// Gulf/Egyptian currencies are suffixed with their code.
var symbols = map[Currency]string{
	USD: "$",
	SAR: "SAR",
	EGP: "EGP",
	AED: "AED",
}

// Parse converts a currency code into a Currency, case-insensitively.
func Parse(code string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(code)))
	switch c {
	case USD, SAR, EGP, AED:
		return c, nil
	}
	return "", fmt.Errorf("unsupported currency %q", code)
}

// IsValid reports whether c belongs to the supported set.
func (c Currency) IsValid() bool {
	_, ok := fallbackRates[c]
	return ok
}

// FallbackRates returns a fresh copy of the hardcoded rate table.
func FallbackRates() map[Currency]float64 {
	rates := make(map[Currency]float64, len(fallbackRates))
	for c, r := range fallbackRates {
		rates[c] = r
	}
	return rates
}

// FormatPrice renders an amount with two fixed decimal places and the
// currency's symbol: "$12.50" for USD, "12.50 SAR" for the rest.
func FormatPrice(amount float64, c Currency) string {
	fixed := decimal.NewFromFloat(amount).StringFixed(2)
	if c == USD {
		return symbols[c] + fixed
	}
	return fixed + " " + symbols[c]
}
