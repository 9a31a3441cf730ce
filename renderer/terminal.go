package renderer

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Palette holds the semantic colors of the terminal rendering.
type Palette struct {
	Border  lipgloss.Color
	Muted   lipgloss.Color
	Text    lipgloss.Color
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Gain    lipgloss.Color
	Loss    lipgloss.Color
	Warning lipgloss.Color
}

// CharmTone is the default palette.
var CharmTone = Palette{
	Border:  lipgloss.Color("#4D4C57"), // Iron
	Muted:   lipgloss.Color("#858392"), // Squid
	Text:    lipgloss.Color("#DFDBDD"), // Ash
	Primary: lipgloss.Color("#6B50FF"), // Charple
	Accent:  lipgloss.Color("#FF60FF"), // Dolly
	Gain:    lipgloss.Color("#00FFB2"), // Julep
	Loss:    lipgloss.Color("#E94090"),
	Warning: lipgloss.Color("#FFD300"),
}

// Styles are the lipgloss styles used by Terminal.
type Styles struct {
	Title   lipgloss.Style
	Updated lipgloss.Style
	Sector  lipgloss.Style
	Summary lipgloss.Style
	Header  lipgloss.Style
	Cell    lipgloss.Style
	Border  lipgloss.Style
	Gain    lipgloss.Style
	Loss    lipgloss.Style
	Loading lipgloss.Style
}

// NewStyles derives the styles from a palette.
func NewStyles(p Palette) Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(p.Primary),
		Updated: lipgloss.NewStyle().Foreground(p.Muted),
		Sector:  lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		Summary: lipgloss.NewStyle().Foreground(p.Text),
		Header:  lipgloss.NewStyle().Bold(true).Foreground(p.Muted).Padding(0, 1),
		Cell:    lipgloss.NewStyle().Foreground(p.Text).Padding(0, 1),
		Border:  lipgloss.NewStyle().Foreground(p.Border),
		Gain:    lipgloss.NewStyle().Foreground(p.Gain),
		Loss:    lipgloss.NewStyle().Foreground(p.Loss),
		Loading: lipgloss.NewStyle().Foreground(p.Warning),
	}
}

// DefaultStyles uses the CharmTone palette.
func DefaultStyles() Styles { return NewStyles(CharmTone) }

// tone returns s colored for the tone t.
func (st Styles) tone(s lipgloss.Style, t Tone) lipgloss.Style {
	switch t {
	case Gain:
		return s.Foreground(st.Gain.GetForeground())
	case Loss:
		return s.Foreground(st.Loss.GetForeground())
	}
	return s
}

// gainLossColumn is the index of the toned column in Columns.
const gainLossColumn = 7

// Terminal renders the View as styled text for a terminal.
func Terminal(v *View, st Styles) string {
	if v == nil || v.Loading {
		return st.Loading.Render(Loading)
	}

	blocks := []string{
		st.Title.Render(v.Title),
		st.Updated.Render("Last updated: " + v.Updated),
	}
	for _, sec := range v.Sectors {
		blocks = append(blocks, "", terminalSector(sec, st))
	}
	return strings.Join(blocks, "\n")
}

func terminalSector(sec SectorView, st Styles) string {
	summary := st.Summary.Render("Holdings: "+strconv.Itoa(sec.Holdings)+" · Investment: "+sec.Investment+" · Present Value: "+sec.PresentValue+" · Gain/Loss: ") +
		st.tone(st.Summary, sec.GainLoss.Tone).Render(sec.GainLoss.Text)

	rows := make([][]string, 0, len(sec.Rows))
	for _, r := range sec.Rows {
		rows = append(rows, r.Cells())
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(st.Border).
		Headers(Columns...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return st.Header
			}
			// data rows are numbered from the one after the header
			i := row - (table.HeaderRow + 1)
			if col == gainLossColumn && i >= 0 && i < len(sec.Rows) {
				return st.tone(st.Cell, sec.Rows[i].GainLoss.Tone)
			}
			if col >= 2 {
				return st.Cell.Align(lipgloss.Right)
			}
			return st.Cell
		})

	return lipgloss.JoinVertical(lipgloss.Left, st.Sector.Render(sec.Name), summary, t.String())
}
