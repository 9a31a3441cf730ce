package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/etnz/dashboard"
	"github.com/etnz/dashboard/renderer"
)

func (m Model) View() string {
	if m.snapshot == nil {
		return renderer.Loading
	}
	var body string
	if m.ready {
		body = m.viewport.View()
	} else {
		body = renderer.Terminal(renderer.NewView(m.snapshot, m.render), m.styles)
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, m.viewStatus())
}

func (m Model) viewStatus() string {
	if m.lastErr != nil {
		return m.styles.Loss.Render("Last refresh failed at "+m.failedAt.Format(m.timeLayout())+": "+m.lastErr.Error()) +
			"\n" + m.help.View(keys)
	}
	return m.styles.Updated.Render("Refreshing every "+m.interval.String()) + "\n" + m.help.View(keys)
}

func (m Model) timeLayout() string {
	if m.render.TimeLayout != "" {
		return m.render.TimeLayout
	}
	return dashboard.TimeFormat
}
