package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Number is a decimal that marshals as a bare JSON number, the shape the remote procedures expect.
type Number struct {
	decimal.Decimal
}

func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(n.Decimal.String()), nil
}

func (n *Number) UnmarshalJSON(b []byte) error {
	return n.Decimal.UnmarshalJSON(b)
}

// ParseNumber coerces free-text form input. Empty or non-numeric text yields nil.
func ParseNumber(s string) *Number {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &Number{Decimal: d}
}

// Positive reports whether free-text input parses to a number strictly greater than zero.
func Positive(s string) bool {
	n := ParseNumber(s)
	return n != nil && n.IsPositive()
}

// OptionalString maps empty form text to nil so it travels as JSON null.
func OptionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
