package tracker

import (
	"encoding/json"
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency is the currency every amount and price is expressed in.
const Currency = money.USD

// Money represents a monetary value in major units.
//
// The zero value is zero dollars.
type Money struct {
	value decimal.Decimal
}

// M returns a Money of value major units.
func M[T number](value T) Money {
	return Money{value: toDecimal(value)}
}

// ParseMoney parses a decimal string like "12.34".
func ParseMoney(s string) (Money, error) {
	v, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Money{value: v}, nil
}

// currency returns the money's currency
func (m Money) currency() *money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return money.New(0, Currency).Currency()
}

// String returns the string representation of the money value, like "$1,234.50".
func (m Money) String() string {
	cur := m.currency()
	dec := m.value.Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.IntPart())
}

// SignedString returns the string representation of the money value with a sign.
// 0 is represented as "-".
func (m Money) SignedString() string {
	if m.value.IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}

func (m Money) Decimal() decimal.Decimal          { return m.value }
func (m Money) Equal(n Money) bool                { return m.value.Equal(n.value) }
func (m Money) IsZero() bool                      { return m.value.IsZero() }
func (m Money) IsPositive() bool                  { return m.value.IsPositive() }
func (m Money) IsNegative() bool                  { return m.value.IsNegative() }
func (m Money) LessThan(n Money) bool             { return m.value.LessThan(n.value) }
func (m Money) GreaterThan(n Money) bool          { return m.value.GreaterThan(n.value) }
func (m Money) Neg() Money                        { return Money{value: m.value.Neg()} }
func (m Money) Add(n Money) Money                 { return Money{value: m.value.Add(n.value)} }
func (m Money) Sub(n Money) Money                 { return Money{value: m.value.Sub(n.value)} }
func (m Money) Mul(n Quantity) Money              { return Money{value: m.value.Mul(n.value)} }
func (m Money) Div(n Quantity) Money              { return Money{value: m.value.Div(n.value)} }
func (m Money) Round() Money                      { return Money{value: m.value.Round(cents)} }
func (m Money) Ratio(total Money) decimal.Decimal { return m.value.Div(total.value) }

// Scale returns m multiplied by a dimensionless ratio.
func (m Money) Scale(r decimal.Decimal) Money { return Money{value: m.value.Mul(r)} }

const cents = 2

// MarshalJSON writes the amount as a plain JSON number rounded to cents.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.value.StringFixed(cents)), nil
}

// UnmarshalJSON reads a JSON number or a numeric string.
func (m *Money) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = Money{}
		return nil
	}
	var v decimal.Decimal
	if err := v.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("invalid amount %s: %w", data, err)
	}
	m.value = v
	return nil
}

var _ json.Marshaler = Money{}
