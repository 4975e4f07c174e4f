// Package amountutils parses locale-ambiguous monetary strings as they
// appear in bank exports: currency symbols, spaces or no-break spaces as
// thousands separators, and either comma or dot as the decimal mark.
package amountutils

import (
	"strings"

	"github.com/shopspring/decimal"

	"akazakov/snapstat/internal/parsererror"
)

var currencyReplacer = strings.NewReplacer(
	"₽", "", "$", "", "€", "", "£", "",
	"RUB", "", "USD", "", "EUR", "", "CHF", "",
)

// ParseSigned parses an amount preserving its sign. Negative values in a
// bank statement mean money out; the caller maps sign to transaction type.
//
// Decimal-mark rule: when a comma is present and a dot is not, the comma
// is the decimal mark; otherwise commas and all space-like runes are
// thousands separators and are dropped.
func ParseSigned(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, &parsererror.InvalidAmountError{Value: raw}
	}

	s = currencyReplacer.Replace(s)

	// Unicode minus and leading plus both appear in app exports.
	s = strings.ReplaceAll(s, "−", "-")
	s = strings.TrimPrefix(s, "+")

	// NBSP and narrow NBSP act as thousands separators in Russian locales.
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', ' ', ' ', '\t':
			return -1
		}
		return r
	}, s)

	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &parsererror.InvalidAmountError{Value: raw}
	}
	return d, nil
}

// Parse parses an amount and discards the sign entirely. Direction of
// money flow is conveyed by the transaction type field, never by sign.
func Parse(raw string) (decimal.Decimal, error) {
	d, err := ParseSigned(raw)
	if err != nil {
		return decimal.Zero, err
	}
	return d.Abs(), nil
}
