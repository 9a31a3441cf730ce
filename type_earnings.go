package dashboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Earnings is the latest earnings figure of a stock. Depending on the data
// provider behind the aggregation service it is either a number or a free text
// (e.g. "Q2 FY25: 12.4 Cr"), so both are kept as received.
type Earnings struct {
	text   string
	number bool
}

// EarningsNumber returns numeric earnings.
func EarningsNumber[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Earnings {
	return Earnings{text: formatNumber(newDecimal(value).InexactFloat64()), number: true}
}

// EarningsText returns textual earnings.
func EarningsText(s string) Earnings { return Earnings{text: s} }

// IsNumber reports whether the payload carried a number.
func (e Earnings) IsNumber() bool { return e.number }

// String returns the raw value as display text: a number the way a browser
// prints it (12.50 is "12.5", 1e21 is "1e+21"), a text verbatim.
func (e Earnings) String() string { return e.text }

func (e Earnings) MarshalJSON() ([]byte, error) {
	if e.number {
		return []byte(e.text), nil
	}
	return json.Marshal(e.text)
}

func (e *Earnings) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*e = Earnings{text: s}
		return nil
	}
	if len(b) == 0 || (b[0] != '-' && (b[0] < '0' || b[0] > '9')) {
		return fmt.Errorf("earnings must be a number or a string, got %s", b)
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return fmt.Errorf("earnings must be a number or a string, got %s", b)
	}
	*e = Earnings{text: formatNumber(f), number: true}
	return nil
}

// formatNumber prints f with the shortest digits that read back as f, in
// positional notation when the decimal exponent is within [-6, 21), and in
// exponential notation otherwise.
func formatNumber(f float64) string {
	switch {
	case f == 0:
		return "0"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case math.IsNaN(f):
		return "NaN"
	}
	sign := ""
	if f < 0 {
		sign, f = "-", -f
	}
	mantissa, exp, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, 64), "e")
	digits := strings.Replace(mantissa, ".", "", 1)
	x, _ := strconv.Atoi(exp)
	k, n := len(digits), x+1 // n is the position of the decimal point in digits
	switch {
	case k <= n && n <= 21:
		return sign + digits + strings.Repeat("0", n-k)
	case 0 < n && n <= 21:
		return sign + digits[:n] + "." + digits[n:]
	case -6 < n && n <= 0:
		return sign + "0." + strings.Repeat("0", -n) + digits
	}
	if k > 1 {
		mantissa = digits[:1] + "." + digits[1:]
	}
	return fmt.Sprintf("%s%se%+d", sign, mantissa, n-1)
}
