// ABOUTME: Decimal money figures for enterprise value and financials
// ABOUTME: Serializes as a bare JSON number and stores as TEXT in SQLite
package models

import (
	"github.com/shopspring/decimal"
)

// Amount is a monetary figure. It embeds decimal.Decimal so arithmetic,
// comparison and database/sql scanning come from the decimal package, but
// unlike decimal.Decimal it marshals to a JSON number instead of a string.
type Amount struct {
	decimal.Decimal
}

// NewAmount builds an Amount from whole currency units.
func NewAmount(units int64) Amount {
	return Amount{decimal.NewFromInt(units)}
}

// ParseAmount parses a decimal string such as "1500000.50".
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, err
	}
	return Amount{d}, nil
}

// MarshalJSON implements json.Marshaler.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}

// Midpoint returns the average of a and b.
func Midpoint(a, b Amount) Amount {
	return Amount{a.Add(b.Decimal).Div(decimal.NewFromInt(2))}
}

func pct(p int) decimal.Decimal {
	return decimal.NewFromInt(int64(p)).Div(decimal.NewFromInt(100))
}
