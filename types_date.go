package dashboard

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// TimeFormat is the default layout of the "last updated" time: hours, minutes and seconds.
const TimeFormat = "15:04:05"

// Timestamp is the instant a Snapshot was computed by the aggregation service.
// On the wire it is epoch milliseconds, an RFC 3339 string is accepted as well.
type Timestamp struct {
	t time.Time
}

// NewTimestamp returns the Timestamp of t.
func NewTimestamp(t time.Time) Timestamp { return Timestamp{t: t} }

// UnixMilli returns the Timestamp of the epoch milliseconds ms.
func UnixMilli(ms int64) Timestamp { return Timestamp{t: time.UnixMilli(ms)} }

func (ts Timestamp) Time() time.Time            { return ts.t }
func (ts Timestamp) IsZero() bool               { return ts.t.IsZero() }
func (ts Timestamp) Equal(other Timestamp) bool { return ts.t.Equal(other.t) }

// Format renders the timestamp in loc (time.Local when nil) using layout (TimeFormat when empty).
func (ts Timestamp) Format(layout string, loc *time.Location) string {
	if layout == "" {
		layout = TimeFormat
	}
	if loc == nil {
		loc = time.Local
	}
	return ts.t.In(loc).Format(layout)
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(ts.t.UnixMilli(), 10)), nil
}

func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("invalid timestamp %q: %w", s, err)
		}
		ts.t = t
		return nil
	}
	// epoch milliseconds, possibly written with a fractional part.
	ms, err := decimal.NewFromString(string(b))
	if err != nil {
		return fmt.Errorf("invalid timestamp %s: %w", b, err)
	}
	ts.t = time.UnixMilli(ms.IntPart())
	return nil
}
