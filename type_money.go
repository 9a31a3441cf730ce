package dashboard

import (
	"math"
	"math/big"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money represents a monetary amount as received from the aggregation service.
// The payload carries bare numbers, the display currency is chosen by the reader (see Currency).
type Money struct {
	value decimal.Decimal // as major unit value
}

func M[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Money {
	return Money{value: newDecimal(value)}
}

func (m Money) Equal(n Money) bool       { return m.value.Equal(n.value) }
func (m Money) IsZero() bool             { return m.value.IsZero() }
func (m Money) IsNegative() bool         { return m.value.IsNegative() }
func (m Money) Decimal() decimal.Decimal { return m.value }

// String returns the amount with exactly two decimals and no symbol.
func (m Money) String() string { return fixed(m.value, 2) }

func (m Money) MarshalJSON() ([]byte, error)  { return []byte(m.value.String()), nil }
func (m *Money) UnmarshalJSON(b []byte) error { return m.value.UnmarshalJSON(b) }

// Currency formats Money for display.
type Currency struct {
	code   string
	symbol string
}

// INR is the default display currency of the dashboard.
var INR = NewCurrency("INR")

// NewCurrency returns the display currency for an ISO 4217 code.
// The symbol is the grapheme known to go-money, or the code itself for unknown currencies.
func NewCurrency(code string) Currency {
	code = strings.ToUpper(strings.TrimSpace(code))
	if c := money.GetCurrency(code); c != nil && c.Grapheme != "" {
		return Currency{code: code, symbol: c.Grapheme}
	}
	return Currency{code: code, symbol: code}
}

func (c Currency) Code() string   { return c.code }
func (c Currency) Symbol() string { return c.symbol }

// Format returns the symbol immediately followed by the amount with exactly two
// decimals, regardless of trailing zeros. There is no thousands separator and the
// sign follows the symbol: 1234.5 is "₹1234.50", -500 is "₹-500.00".
func (c Currency) Format(m Money) string {
	return c.symbol + fixed(m.value, 2)
}

// fixed returns d with exactly places decimals, computed on the nearest float64
// the way a browser prints a JSON number: the exact binary value is rounded half
// away from zero, so 1.005 (stored as 1.00499...) is "1.00". A negative value
// that rounds to zero keeps its sign: -0.001 is "-0.00".
func fixed(d decimal.Decimal, places int32) string {
	f, _ := d.Float64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return d.StringFixed(places)
	}
	// 1100 digits cover the longest exact expansion of a float64.
	exact, err := decimal.NewFromString(new(big.Float).SetFloat64(math.Abs(f)).Text('f', 1100))
	if err != nil {
		return d.StringFixed(places)
	}
	s := exact.StringFixed(places)
	if f < 0 {
		s = "-" + s
	}
	return s
}
