// Package tui is the live terminal dashboard: a bubbletea program that
// refreshes the portfolio every 15 seconds and renders it as sector tables.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/etnz/dashboard"
	"github.com/etnz/dashboard/poll"
	"github.com/etnz/dashboard/renderer"
	"github.com/rs/zerolog"
)

// Options configures the Model.
type Options struct {
	// Interval between two refreshes, poll.DefaultInterval when zero.
	Interval time.Duration
	Policy   poll.Policy
	Render   renderer.Options
	Styles   renderer.Styles
	Log      zerolog.Logger
}

// Model holds the single state cell of the dashboard: the last applied Snapshot.
type Model struct {
	ctx      context.Context
	fetcher  dashboard.Fetcher
	interval time.Duration
	policy   poll.Policy
	render   renderer.Options
	styles   renderer.Styles
	log      zerolog.Logger

	// Data
	issued   uint64 // last sequence number handed out
	applied  uint64 // sequence number of snapshot
	snapshot *dashboard.Snapshot
	lastErr  error
	failedAt time.Time

	// UI state
	width  int
	height int
	ready  bool

	// Components
	viewport viewport.Model
	help     help.Model
}

// Messages

// refreshMsg is a tick of the schedule: it issues a fetch and re-arms the schedule.
type refreshMsg struct{}

// snapshotMsg is the outcome of the fetch issued as seq.
type snapshotMsg struct {
	seq      uint64
	snapshot *dashboard.Snapshot
	err      error
}

// NewModel returns a Model fetching from f. Fetches are made with ctx.
func NewModel(ctx context.Context, f dashboard.Fetcher, opts Options) Model {
	interval := opts.Interval
	if interval <= 0 {
		interval = poll.DefaultInterval
	}
	return Model{
		ctx:      ctx,
		fetcher:  f,
		interval: interval,
		policy:   opts.Policy,
		render:   opts.Render,
		styles:   opts.Styles,
		log:      opts.Log.With().Str("component", "tui").Logger(),
		help:     help.New(),
	}
}

// Init fires the first tick right away.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return refreshMsg{} }
}

// Snapshot returns the last applied Snapshot, nil before the first success.
func (m Model) Snapshot() *dashboard.Snapshot { return m.snapshot }

// Err returns the last fetch failure, nil if the last fetch succeeded.
func (m Model) Err() error { return m.lastErr }

// Commands

// issue hands out the next sequence number and returns the fetch command for it.
func (m *Model) issue() tea.Cmd {
	m.issued++
	return fetchSnapshot(m.ctx, m.fetcher, m.issued)
}

func fetchSnapshot(ctx context.Context, f dashboard.Fetcher, seq uint64) tea.Cmd {
	return func() tea.Msg {
		s, err := f.Fetch(ctx)
		return snapshotMsg{seq: seq, snapshot: s, err: err}
	}
}

func scheduleRefresh(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return refreshMsg{}
	})
}
