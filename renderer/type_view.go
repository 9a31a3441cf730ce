package renderer

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/etnz/dashboard"
)

// Loading is the whole rendering of a dashboard that has no snapshot yet.
const Loading = "Loading portfolio…"

// Placeholder stands for an absent figure. It is never rendered as 0 or blank.
const Placeholder = "—"

// Title of the dashboard.
const Title = "Portfolio Dashboard"

// Columns are the headers of a sector table, in display order.
var Columns = []string{"Ticker", "Qty", "Purchase", "Investment", "Portfolio %", "CMP", "Present Value", "Gain/Loss", "P/E", "Earnings"}

// Tone is the presentation class of a figure.
type Tone int

const (
	Neutral Tone = iota
	Gain         // zero or positive gain/loss
	Loss         // negative gain/loss
)

func (t Tone) String() string {
	switch t {
	case Gain:
		return "gain"
	case Loss:
		return "loss"
	default:
		return "neutral"
	}
}

func (t Tone) MarshalJSON() ([]byte, error) { return json.Marshal(t.String()) }

func (t *Tone) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	switch s {
	case "gain":
		*t = Gain
	case "loss":
		*t = Loss
	case "neutral", "":
		*t = Neutral
	default:
		return fmt.Errorf("unknown tone %q", s)
	}
	return nil
}

// toneOf returns the tone of a gain/loss amount.
func toneOf(m dashboard.Money) Tone {
	if m.IsNegative() {
		return Loss
	}
	return Gain
}

// Figure is a display text with its tone.
type Figure struct {
	Text string `json:"text"`
	Tone Tone   `json:"tone"`
}

// Options controls how figures are turned into text.
type Options struct {
	Currency   dashboard.Currency
	Location   *time.Location // time zone of the "last updated" time, time.Local when nil.
	TimeLayout string         // layout of the "last updated" time, dashboard.TimeFormat when empty.
}

// DefaultOptions displays Indian rupees and local time.
func DefaultOptions() Options {
	return Options{
		Currency:   dashboard.INR,
		Location:   time.Local,
		TimeLayout: dashboard.TimeFormat,
	}
}

// View is the visual tree of the dashboard: every figure already formatted.
// Back ends (Markdown, Terminal, HTML) only lay it out.
type View struct {
	// Loading is true when there is no snapshot: nothing else is set.
	Loading bool         `json:"loading"`
	Title   string       `json:"title,omitempty"`
	Updated string       `json:"updated,omitempty"`
	Sectors []SectorView `json:"sectors,omitempty"`
}

// SectorView is one sector block.
type SectorView struct {
	Name         string `json:"name"`
	Holdings     int    `json:"holdings"`
	Investment   string `json:"investment"`
	PresentValue string `json:"presentValue"`
	GainLoss     Figure `json:"gainLoss"`
	Rows         []Row  `json:"rows"`
}

// Row is one stock in a sector table. Index is its position in the sector,
// the only identity a row has.
type Row struct {
	Index            int    `json:"index"`
	Ticker           string `json:"ticker"`
	Quantity         string `json:"quantity"`
	PurchasePrice    string `json:"purchasePrice"`
	Investment       string `json:"investment"`
	PortfolioPercent string `json:"portfolioPercent"`
	CMP              string `json:"cmp"`
	PresentValue     string `json:"presentValue"`
	GainLoss         Figure `json:"gainLoss"`
	PE               string `json:"pe"`
	Earnings         string `json:"earnings"`
}

// Cells returns the row texts in Columns order.
func (r Row) Cells() []string {
	return []string{
		r.Ticker,
		r.Quantity,
		r.PurchasePrice,
		r.Investment,
		r.PortfolioPercent,
		r.CMP,
		r.PresentValue,
		r.GainLoss.Text,
		r.PE,
		r.Earnings,
	}
}

// NewView renders s, or the loading state when s is nil.
// It is a pure function of its arguments.
func NewView(s *dashboard.Snapshot, opts Options) *View {
	if s == nil {
		return &View{Loading: true}
	}
	cur := opts.Currency
	if cur.Symbol() == "" {
		cur = dashboard.INR
	}

	v := &View{
		Title:   Title,
		Updated: s.TS.Format(opts.TimeLayout, opts.Location),
		Sectors: make([]SectorView, 0, len(s.SectorSummary)),
	}
	for _, sec := range s.SectorSummary {
		sv := SectorView{
			Name:         sec.Sector,
			Holdings:     sec.Holdings(),
			Investment:   cur.Format(sec.TotalInvestment),
			PresentValue: cur.Format(sec.TotalPresentValue),
			GainLoss:     Figure{Text: cur.Format(sec.TotalGainLoss), Tone: toneOf(sec.TotalGainLoss)},
			Rows:         make([]Row, 0, len(sec.Items)),
		}
		for i, st := range sec.Items {
			sv.Rows = append(sv.Rows, newRow(i, st, cur))
		}
		v.Sectors = append(v.Sectors, sv)
	}
	return v
}

func newRow(i int, st dashboard.Stock, cur dashboard.Currency) Row {
	r := Row{
		Index:            i,
		Ticker:           st.Ticker + ":" + st.Exchange,
		Quantity:         st.Quantity.String(),
		PurchasePrice:    cur.Format(st.PurchasePrice),
		Investment:       cur.Format(st.Investment),
		PortfolioPercent: st.PortfolioPercent.String(),
		CMP:              Placeholder,
		PresentValue:     cur.Format(st.PresentValue),
		GainLoss:         Figure{Text: cur.Format(st.GainLoss), Tone: toneOf(st.GainLoss)},
		PE:               Placeholder,
		Earnings:         Placeholder,
	}
	if cmp, ok := st.CMP.Get(); ok {
		r.CMP = cur.Format(cmp)
	}
	if pe, ok := st.PE.Get(); ok {
		r.PE = pe.String()
	}
	if e, ok := st.LatestEarnings.Get(); ok {
		r.Earnings = e.String()
	}
	return r
}
