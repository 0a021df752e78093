package offmeta

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/bep/debounce"
	"github.com/google/uuid"
)

// Snapshot is what a presentation layer renders: the ranked cards, whether a
// search is running, and the last search error. Each snapshot replaces the
// previous one entirely.
//
// Version increases with every state change. Change callbacks run on more than
// one goroutine and may arrive out of order; drop a snapshot whose Version is
// not greater than the last one rendered.
type Snapshot struct {
	Cards   []*Card
	Loading bool
	Err     error
	Filters FilterState
	Rank    RankState
	Version uint64
}

// ErrorMessage is Err's text, or "" when there is no error.
func (s Snapshot) ErrorMessage() string {
	if s.Err == nil {
		return ""
	}
	return s.Err.Error()
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithOnChange registers fn to receive a snapshot after every state change,
// including the final one published by Close.
// fn is called without the session lock held and may call back into the session.
// Calls are not serialized; see Snapshot.Version.
func WithOnChange(fn func(Snapshot)) SessionOption {
	return func(s *Session) {
		s.onChange = fn
	}
}

// WithFilters sets the initial filters without scheduling a search.
func WithFilters(f FilterState) SessionOption {
	return func(s *Session) {
		s.filters = f.Clone()
	}
}

// WithRankState sets the initial rank state.
func WithRankState(r RankState) SessionOption {
	return func(s *Session) {
		s.rank = r
	}
}

// Session is one interactive search. Filter changes that alter the compiled
// query schedule a debounced search; percentile and sort changes re-rank the
// current results immediately. Only the most recently started search may
// update the session.
type Session struct {
	id       string
	explorer *Explorer
	logger   *Logger
	schedule func(func())
	ctx      context.Context
	stop     context.CancelFunc
	onChange func(Snapshot)

	mu         sync.Mutex
	filters    FilterState
	rank       RankState
	raw        []*Card
	ranked     []*Card
	loading    bool
	err        error
	generation uint64
	version    uint64
	cancel     context.CancelFunc
	closed     bool
}

// NewSession starts a session with default filters and rank state.
// Call Close when the session is no longer displayed.
func (e *Explorer) NewSession(opts ...SessionOption) *Session {
	ctx, stop := context.WithCancel(context.Background())
	id := uuid.NewString()
	s := &Session{
		id:       id,
		explorer: e,
		logger:   e.logger.WithSession(id),
		schedule: debounce.New(e.debounce),
		ctx:      ctx,
		stop:     stop,
		rank:     DefaultRankState(),
		ranked:   []*Card{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID identifies the session in logs.
func (s *Session) ID() string {
	return s.id
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		Cards:   slices.Clone(s.ranked),
		Loading: s.loading,
		Err:     s.err,
		Filters: s.filters.Clone(),
		Rank:    s.rank,
		Version: s.version,
	}
}

// publishLocked records a state change and returns the snapshot to notify with.
func (s *Session) publishLocked() Snapshot {
	s.version++
	return s.snapshotLocked()
}

func (s *Session) notify(snap Snapshot) {
	if s.onChange != nil {
		s.onChange(snap)
	}
}

// SetFilters replaces the filters and schedules a search if the compiled query changed.
func (s *Session) SetFilters(f FilterState) {
	s.update(func() { s.filters = f.Clone() })
}

// SetPercentile changes the popularity cut and re-ranks.
func (s *Session) SetPercentile(p int) {
	s.update(func() { s.rank.Percentile = clampPercentile(p) })
}

// SetSortKey changes the sort key, resetting the direction to its default.
func (s *Session) SetSortKey(key SortKey) {
	s.update(func() { s.rank = s.rank.WithSortKey(key) })
}

// SetDirection changes the sort direction.
func (s *Session) SetDirection(d Direction) {
	s.update(func() { s.rank.Direction = d })
}

// update applies change, re-ranks, and schedules a search when the query the
// server would see is different.
func (s *Session) update(change func()) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	before := CompileQuery(s.filters, s.rank)
	change()
	if CompileQuery(s.filters, s.rank) != before {
		s.schedule(s.run)
	}
	s.rerankLocked()
	snap := s.publishLocked()
	s.mu.Unlock()

	s.notify(snap)
}

// Refresh schedules a search with the current state even if nothing changed.
func (s *Session) Refresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.schedule(s.run)
}

func (s *Session) rerankLocked() {
	s.ranked = s.explorer.Rank(s.ctx, s.raw, s.rank)
}

// run is the debounced search. A newer run cancels an older one still in flight,
// and an older run's result is dropped.
func (s *Session) run() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.generation++
	gen := s.generation
	ctx, cancel := context.WithCancel(s.ctx)
	s.cancel = cancel
	filters, rank := s.filters.Clone(), s.rank
	s.loading = true
	s.err = nil
	snap := s.publishLocked()
	s.mu.Unlock()
	s.notify(snap)

	raw, err := s.explorer.Retrieve(ctx, filters, rank)
	cancel()

	s.mu.Lock()
	if s.closed || gen != s.generation {
		s.mu.Unlock()
		s.logger.DebugContext(ctx, "discarding stale search", "generation", gen)
		return
	}
	s.cancel = nil
	s.loading = false
	switch {
	case err == nil:
		s.raw = raw
	case errors.Is(err, context.Canceled):
		// superseded or closed; nothing to report
	default:
		s.err = err
	}
	s.rerankLocked()
	snap = s.publishLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// Close cancels any pending or in-flight search and publishes a final
// snapshot with Loading cleared. The session ignores further changes.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.schedule(func() {})
	s.stop()
	s.loading = false
	snap := s.publishLocked()
	s.mu.Unlock()

	s.notify(snap)
}
