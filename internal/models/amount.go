package models

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount is a monetary value. It serializes as a plain JSON number with
// exactly two fractional digits, so 100 round-trips as 100.00.
type Amount struct {
	dec decimal.Decimal
}

// NewAmount wraps a decimal value.
func NewAmount(d decimal.Decimal) Amount {
	return Amount{dec: d}
}

// AmountFromString parses a plain decimal string like "1234.56".
func AmountFromString(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Amount{dec: d}, nil
}

// MustAmount is AmountFromString for fixtures; it panics on bad input.
func MustAmount(s string) Amount {
	a, err := AmountFromString(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Decimal returns the underlying value for arithmetic.
func (a Amount) Decimal() decimal.Decimal {
	return a.dec
}

func (a Amount) String() string {
	return a.dec.StringFixed(2)
}

func (a Amount) Equal(b Amount) bool {
	return a.dec.Equal(b.dec)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.dec.StringFixed(2)), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(data, `"`))
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", s, err)
	}
	a.dec = d
	return nil
}
