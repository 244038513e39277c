package inventory

import (
	"math"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// ISK is the currency of every price.
const ISK = "ISK"

func init() {
	// go-money knows ISK as the Icelandic krona without fraction digits, in game
	// prices have two.
	money.AddCurrency(ISK, "ISK", "1 $", ".", ",", 2)
}

// Money represents an amount of ISK.
type Money struct {
	value decimal.Decimal
}

// M returns a Money from a float or a decimal value.
func M[T float64 | int64 | decimal.Decimal](value T) Money {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return Money{value: v}
	case float64:
		return Money{value: decimal.NewFromFloat(v)}
	case int64:
		return Money{value: decimal.NewFromInt(v)}
	default:
		panic("unsupported type")
	}
}

func (m Money) Decimal() decimal.Decimal    { return m.value }
func (m Money) IsZero() bool                { return m.value.IsZero() }
func (m Money) Equal(n Money) bool          { return m.value.Equal(n.value) }
func (m Money) Add(n Money) Money           { return Money{value: m.value.Add(n.value)} }
func (m Money) Mul(d decimal.Decimal) Money { return Money{value: m.value.Mul(d)} }
func (m Money) MulQuantity(q int64) Money   { return Money{value: m.value.Mul(decimal.NewFromInt(q))} }

// Float64 returns the nearest float value, for sinks that only handle floats.
func (m Money) Float64() float64 { return m.value.InexactFloat64() }

var maxCents = decimal.NewFromInt(math.MaxInt64)

// String returns the formatted amount, rounded to the cent.
// Amounts beyond the int64 range of cents are written without grouping.
func (m Money) String() string {
	cur := money.GetCurrency(ISK)
	cents := m.value.Shift(int32(cur.Fraction)).Round(0)
	if cents.Abs().GreaterThan(maxCents) {
		return m.value.StringFixed(int32(cur.Fraction)) + " " + ISK
	}
	return cur.Formatter().Format(cents.IntPart())
}

func (m Money) MarshalJSON() ([]byte, error) {
	return m.value.Round(2).MarshalJSON()
}

func (m *Money) UnmarshalJSON(data []byte) error {
	return m.value.UnmarshalJSON(data)
}
