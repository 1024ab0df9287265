package tracker

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// number is what Q and M accept.
type number interface {
	~int | ~int32 | ~int64 | ~uint | ~uint32 | ~uint64 | ~float32 | ~float64 | decimal.Decimal
}

func toDecimal[T number](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float32:
		return decimal.NewFromFloat32(v)
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	case uint:
		return decimal.NewFromUint64(uint64(v))
	case uint32:
		return decimal.NewFromUint64(uint64(v))
	case uint64:
		return decimal.NewFromUint64(v)
	}
	// named types land here
	d, err := decimal.NewFromString(fmt.Sprint(value))
	if err != nil {
		panic(err)
	}
	return d
}

// Quantity is a number of units of a product. Sealed products and singles are
// counted in whole units but the type does not enforce it.
type Quantity struct {
	value decimal.Decimal
}

// Q returns a Quantity of value units.
func Q[T number](value T) Quantity { return Quantity{value: toDecimal(value)} }

func (q Quantity) Add(o Quantity) Quantity     { return Quantity{value: q.value.Add(o.value)} }
func (q Quantity) Sub(o Quantity) Quantity     { return Quantity{value: q.value.Sub(o.value)} }
func (q Quantity) Neg() Quantity               { return Quantity{value: q.value.Neg()} }
func (q Quantity) Equal(o Quantity) bool       { return q.value.Equal(o.value) }
func (q Quantity) LessThan(o Quantity) bool    { return q.value.LessThan(o.value) }
func (q Quantity) GreaterThan(o Quantity) bool { return q.value.GreaterThan(o.value) }
func (q Quantity) IsZero() bool                { return q.value.IsZero() }
func (q Quantity) IsPositive() bool            { return q.value.IsPositive() }
func (q Quantity) IsNegative() bool            { return q.value.IsNegative() }
func (q Quantity) Decimal() decimal.Decimal    { return q.value }
func (q Quantity) String() string              { return q.value.String() }

// Ratio returns q/total as a dimensionless decimal.
func (q Quantity) Ratio(total Quantity) decimal.Decimal { return q.value.Div(total.value) }

// MarshalJSON writes the quantity as a plain JSON number.
func (q Quantity) MarshalJSON() ([]byte, error) { return []byte(q.value.String()), nil }

// UnmarshalJSON accepts a JSON number or a numeric string.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	if err := q.value.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("invalid quantity %s: %w", data, err)
	}
	return nil
}
