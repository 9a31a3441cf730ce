package dashboard

import "github.com/shopspring/decimal"

// Percent is a share expressed in percent (0-100), e.g. a stock's portfolio share.
type Percent struct {
	value decimal.Decimal
}

func P[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Percent {
	return Percent{value: newDecimal(value)}
}

func (p Percent) Equal(q Percent) bool { return p.value.Equal(q.value) }

// String returns the percent with exactly two decimals and a literal '%': 12.3 is "12.30%".
func (p Percent) String() string {
	return fixed(p.value, 2) + "%"
}

func (p Percent) MarshalJSON() ([]byte, error)  { return []byte(p.value.String()), nil }
func (p *Percent) UnmarshalJSON(b []byte) error { return p.value.UnmarshalJSON(b) }

// Ratio is a dimensionless figure such as a price/earnings ratio.
type Ratio struct {
	value decimal.Decimal
}

func R[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Ratio {
	return Ratio{value: newDecimal(value)}
}

func (r Ratio) Equal(s Ratio) bool { return r.value.Equal(s.value) }

// String returns the ratio with exactly two decimals.
func (r Ratio) String() string { return fixed(r.value, 2) }

func (r Ratio) MarshalJSON() ([]byte, error)  { return []byte(r.value.String()), nil }
func (r *Ratio) UnmarshalJSON(b []byte) error { return r.value.UnmarshalJSON(b) }
