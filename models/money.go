package models

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidAmount is returned when a free-text money field cannot be read
// as an amount.
var ErrInvalidAmount = errors.New("invalid money amount")

// Amount is a typed money value. Wizard fields arrive as free text
// ("$500", "2k", "1,200"); the generation boundary parses them into Amounts
// instead of passing raw strings through.
type Amount struct {
	Currency string `json:"currency"` // ISO 4217 code
	Cents    int64  `json:"cents"`
}

var currencySymbols = map[string]string{
	"$": "USD",
	"€": "EUR",
	"£": "GBP",
	"¥": "CNY",
}

// ParseAmount reads a free-text money string. It accepts an optional leading
// currency symbol, thousands separators, a decimal part, and a trailing
// k/K multiplier. The currency defaults to USD when no symbol is present.
func ParseAmount(text string) (Amount, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return Amount{}, fmt.Errorf("%w: empty string", ErrInvalidAmount)
	}

	currency := "USD"
	for symbol, code := range currencySymbols {
		if strings.HasPrefix(s, symbol) {
			currency = code
			s = strings.TrimSpace(strings.TrimPrefix(s, symbol))
			break
		}
	}

	multiplier := 1.0
	if strings.HasSuffix(s, "k") || strings.HasSuffix(s, "K") {
		multiplier = 1000
		s = strings.TrimSpace(s[:len(s)-1])
	}

	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return Amount{}, fmt.Errorf("%w: %q", ErrInvalidAmount, text)
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil || value < 0 || math.IsInf(value, 0) || math.IsNaN(value) {
		return Amount{}, fmt.Errorf("%w: %q", ErrInvalidAmount, text)
	}

	return Amount{
		Currency: currency,
		Cents:    int64(math.Round(value * multiplier * 100)),
	}, nil
}

// IsZero reports whether the amount is zero.
func (a Amount) IsZero() bool {
	return a.Cents == 0
}

// String renders the amount for prompts and logs, e.g. "500 USD" or
// "1250.50 USD".
func (a Amount) String() string {
	if a.Cents%100 == 0 {
		return fmt.Sprintf("%d %s", a.Cents/100, a.Currency)
	}
	return fmt.Sprintf("%d.%02d %s", a.Cents/100, a.Cents%100, a.Currency)
}
