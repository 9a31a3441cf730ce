// Package poll keeps the latest portfolio Snapshot up to date by fetching it on
// a fixed interval.
//
// Fetches are never suppressed: when the service is slower than the interval,
// requests overlap. Every request is tagged at issue time with a sequence
// number and, under the default LatestIssued policy, a result is applied only if
// it was issued after the one currently shown. A failed fetch leaves the current
// Snapshot untouched, is logged, and is retried at the next tick.
package poll

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/etnz/dashboard"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// DefaultInterval is the refresh cadence of the dashboard.
const DefaultInterval = 15 * time.Second

// Policy decides which successful results replace the current Snapshot.
type Policy int

const (
	// LatestIssued applies a result only if it was issued after the last applied one.
	LatestIssued Policy = iota
	// LastResolved applies every successful result in the order they resolve,
	// so a slow old response may overwrite a newer one.
	LastResolved
)

func (p Policy) String() string {
	switch p {
	case LatestIssued:
		return "latest-issued"
	case LastResolved:
		return "last-resolved"
	default:
		return "unknown"
	}
}

// Accept reports whether a result issued as seq replaces the current one,
// issued as applied (0 when there is none).
func (p Policy) Accept(seq, applied uint64) bool {
	if p == LastResolved {
		return true
	}
	return seq > applied
}

// ErrStarted is returned by Start on a Poller that was already started.
var ErrStarted = errors.New("poller already started")

// Options configures a Poller.
type Options struct {
	// Interval between two ticks, DefaultInterval when zero.
	// The schedule has a one second resolution.
	Interval time.Duration
	// Policy for applying results, LatestIssued by default.
	Policy Policy
	// Log receives fetch diagnostics.
	Log zerolog.Logger
}

// Update is delivered to subscribers each time a Snapshot is applied.
type Update struct {
	Seq      uint64
	Snapshot *dashboard.Snapshot
}

// Poller owns the periodic fetch of the Snapshot and the cell holding the latest one.
type Poller struct {
	fetcher  dashboard.Fetcher
	interval time.Duration
	policy   Policy
	log      zerolog.Logger

	issued atomic.Uint64 // last sequence number handed out

	mu      sync.Mutex
	cron    *cron.Cron
	started bool
	stopped bool
	applied uint64 // sequence number of current
	current *dashboard.Snapshot
	subs    map[int]func(Update)
	nextSub int
}

// New returns a Poller fetching from f. It does nothing until Start.
func New(f dashboard.Fetcher, opts Options) *Poller {
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		fetcher:  f,
		interval: interval,
		policy:   opts.Policy,
		log:      opts.Log.With().Str("component", "poller").Logger(),
		subs:     make(map[int]func(Update)),
	}
}

// Start fetches immediately, then every interval until Stop.
// Requests are made with ctx; Stop does not cancel them.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return ErrStarted
	}
	p.started = true

	p.cron = cron.New()
	p.cron.Schedule(cron.Every(p.interval), cron.FuncJob(func() { p.Tick(ctx) }))
	p.cron.Start()
	go p.Tick(ctx)

	p.log.Info().Dur("interval", p.interval).Str("policy", p.policy.String()).Msg("Poller started")
	return nil
}

// Stop cancels the schedule: no tick fires afterwards. Requests in flight are
// left to complete but their results are discarded. Stop is idempotent.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return
	}
	p.stopped = true
	if p.cron != nil {
		// the returned context waits for running jobs, which we do not.
		p.cron.Stop()
	}
	p.log.Info().Msg("Poller stopped")
}

// Tick issues one fetch and applies its result. It reports whether the current
// Snapshot was replaced.
func (p *Poller) Tick(ctx context.Context) bool {
	seq := p.issued.Add(1)
	start := time.Now()
	s, err := p.fetcher.Fetch(ctx)
	if err != nil {
		ev := p.log.Error().Err(err).Uint64("seq", seq).Dur("elapsed", time.Since(start))
		var fe *dashboard.FetchError
		if errors.As(err, &fe) {
			ev = ev.Str("url", fe.URL).Str("request_id", fe.RequestID).Int("status", fe.Status)
		}
		ev.Msg("Failed to fetch portfolio")
		return false
	}
	return p.apply(seq, s)
}

// apply replaces the current Snapshot according to the policy and notifies subscribers.
func (p *Poller) apply(seq uint64, s *dashboard.Snapshot) bool {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		p.log.Debug().Uint64("seq", seq).Msg("Discarding result received after stop")
		return false
	}
	if !p.policy.Accept(seq, p.applied) {
		applied := p.applied
		p.mu.Unlock()
		p.log.Warn().Uint64("seq", seq).Uint64("applied", applied).Msg("Discarding out-of-order result")
		return false
	}
	p.current, p.applied = s, seq
	subs := make([]func(Update), 0, len(p.subs))
	for _, fn := range p.subs {
		subs = append(subs, fn)
	}
	p.mu.Unlock()

	p.log.Debug().Uint64("seq", seq).Int("sectors", len(s.SectorSummary)).Msg("Portfolio updated")
	u := Update{Seq: seq, Snapshot: s}
	for _, fn := range subs {
		fn(u)
	}
	return true
}

// Current returns the latest applied Snapshot, or nil if no fetch succeeded yet.
func (p *Poller) Current() *dashboard.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Applied returns the sequence number of the current Snapshot, 0 if none.
func (p *Poller) Applied() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.applied
}

// Subscribe registers fn to be called after each applied update, from the
// goroutine that applied it. fn must not block. The returned function unregisters it.
func (p *Poller) Subscribe(fn func(Update)) (cancel func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = fn
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.subs, id)
	}
}
