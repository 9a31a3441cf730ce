package tui

import (
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/etnz/dashboard"
	"github.com/etnz/dashboard/renderer"
)

// statusHeight is the number of lines below the viewport.
const statusHeight = 2

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport = viewport.New(m.width, max(m.height-statusHeight, 1))
		m.help.Width = m.width
		m.ready = true
		m.refreshContent()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.log.Info().Msg("Quitting")
			return m, tea.Quit
		case key.Matches(msg, keys.Refresh):
			cmds = append(cmds, m.issue())
		}

	case refreshMsg:
		cmds = append(cmds, m.issue(), scheduleRefresh(m.interval))

	case snapshotMsg:
		m.receive(msg)
	}

	if m.ready {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// receive applies the outcome of a fetch. Failures keep the current snapshot.
func (m *Model) receive(msg snapshotMsg) {
	if msg.err != nil {
		m.lastErr, m.failedAt = msg.err, time.Now()
		ev := m.log.Error().Err(msg.err).Uint64("seq", msg.seq)
		var fe *dashboard.FetchError
		if errors.As(msg.err, &fe) {
			ev = ev.Str("url", fe.URL).Str("request_id", fe.RequestID).Int("status", fe.Status)
		}
		ev.Msg("Failed to fetch portfolio")
		return
	}
	if !m.policy.Accept(msg.seq, m.applied) {
		m.log.Warn().Uint64("seq", msg.seq).Uint64("applied", m.applied).Msg("Discarding out-of-order result")
		return
	}
	m.snapshot, m.applied = msg.snapshot, msg.seq
	if msg.seq >= m.issued {
		m.lastErr = nil
	}
	m.log.Debug().Uint64("seq", msg.seq).Int("sectors", len(msg.snapshot.SectorSummary)).Msg("Portfolio updated")
	m.refreshContent()
}

// refreshContent re-renders the snapshot into the viewport.
func (m *Model) refreshContent() {
	if !m.ready || m.snapshot == nil {
		return
	}
	m.viewport.SetContent(renderer.Terminal(renderer.NewView(m.snapshot, m.render), m.styles))
}
