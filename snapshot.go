package dashboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Stock is one holding of the portfolio. Investment, PresentValue, GainLoss and
// PortfolioPercent are computed upstream and used as given.
type Stock struct {
	Ticker           string          `json:"ticker"`
	Exchange         string          `json:"exchange"`
	PurchasePrice    Money           `json:"purchasePrice"`
	Quantity         Quantity        `json:"quantity"`
	Sector           string          `json:"sector"`
	CMP              Maybe[Money]    `json:"cmp"` // current market price
	PE               Maybe[Ratio]    `json:"pe"`
	LatestEarnings   Maybe[Earnings] `json:"latestEarnings"`
	Investment       Money           `json:"investment"`
	PresentValue     Money           `json:"presentValue"`
	GainLoss         Money           `json:"gainLoss"`
	PortfolioPercent Percent         `json:"portfolioPercent"`
}

// SectorSummary groups the stocks of one sector with the sector totals.
// Items are kept in the order received.
type SectorSummary struct {
	Sector            string  `json:"sector"`
	TotalInvestment   Money   `json:"totalInvestment"`
	TotalPresentValue Money   `json:"totalPresentValue"`
	TotalGainLoss     Money   `json:"totalGainLoss"`
	Items             []Stock `json:"items"`
}

// Holdings returns the number of stocks in the sector.
func (s SectorSummary) Holdings() int { return len(s.Items) }

// Snapshot is one complete, timestamped picture of the portfolio.
//
// A Snapshot is created wholesale by a successful fetch and is never modified
// afterwards: holders replace the pointer, they do not edit the content.
type Snapshot struct {
	TS            Timestamp       `json:"ts"`
	Stocks        []Stock         `json:"stocks"`
	SectorSummary []SectorSummary `json:"sectorSummary"`
}

// Holdings returns the number of stocks across all sectors.
func (s *Snapshot) Holdings() int {
	n := 0
	for _, sec := range s.SectorSummary {
		n += sec.Holdings()
	}
	return n
}

// ErrMalformed is wrapped by DecodeSnapshot when the payload is not a Snapshot.
var ErrMalformed = errors.New("malformed snapshot")

// DecodeSnapshot reads a JSON Snapshot from r.
//
// The payload must carry "ts" and "sectorSummary" (possibly empty); "stocks" is optional.
func DecodeSnapshot(r io.Reader) (*Snapshot, error) {
	// jsnapshot detects missing properties, they are not distinguishable from zero values on Snapshot.
	var js struct {
		TS            *Timestamp      `json:"ts"`
		Stocks        []Stock         `json:"stocks"`
		SectorSummary []SectorSummary `json:"sectorSummary"`
	}
	dec := json.NewDecoder(r)
	if err := dec.Decode(&js); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: unexpected data after the snapshot", ErrMalformed)
	}
	if js.TS == nil {
		return nil, fmt.Errorf("%w: missing the property %q", ErrMalformed, "ts")
	}
	if js.SectorSummary == nil {
		return nil, fmt.Errorf("%w: missing the property %q", ErrMalformed, "sectorSummary")
	}
	return &Snapshot{TS: *js.TS, Stocks: js.Stocks, SectorSummary: js.SectorSummary}, nil
}

// EncodeSnapshot writes s to w as an indented JSON document.
// A nil sectorSummary is written as an empty list so that the output can be decoded back.
func EncodeSnapshot(w io.Writer, s *Snapshot) error {
	if s.SectorSummary == nil {
		c := *s
		c.SectorSummary = []SectorSummary{}
		s = &c
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(s)
}
