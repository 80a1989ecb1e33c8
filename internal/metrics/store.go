// Package metrics holds the live pipeline snapshot shown on the dashboard and
// the simulated refresh that perturbs it.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/ecomdash/ecomdash/internal/async"
)

// DefaultRefreshDelay is the simulated pipeline latency.
const DefaultRefreshDelay = 1500 * time.Millisecond

// ErrClosed is returned by refreshes that were pending or requested after the
// store was closed.
var ErrClosed = errors.New("metrics: store closed")

// Options configures a Store. Zero values select the defaults.
type Options struct {
	Delay  time.Duration
	Rand   Rand
	Now    func() time.Time
	After  func(time.Duration) <-chan time.Time
	Logger *slog.Logger
}

// Store owns the current Snapshot. At most one refresh is in flight at a time.
type Store struct {
	mu      sync.Mutex
	snap    Snapshot
	pending *async.Op[Snapshot]

	ctx    context.Context
	cancel context.CancelFunc

	delay time.Duration
	rng   Rand
	now   func() time.Time
	after func(time.Duration) <-chan time.Time
	log   *slog.Logger
}

// NewStore returns a store holding InitialSnapshot.
func NewStore(opts Options) *Store {
	if opts.Delay == 0 {
		opts.Delay = DefaultRefreshDelay
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.After == nil {
		opts.After = time.After
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Store{
		snap:   InitialSnapshot(opts.Now()),
		ctx:    ctx,
		cancel: cancel,
		delay:  opts.Delay,
		rng:    opts.Rand,
		now:    opts.Now,
		after:  opts.After,
		log:    opts.Logger,
	}
}

// Snapshot returns the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// IsRefreshing reports whether a refresh is pending.
func (s *Store) IsRefreshing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

// Refresh starts a refresh and returns its handle. If one is already pending
// its handle is returned instead and started is false.
func (s *Store) Refresh() (op *async.Op[Snapshot], started bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending != nil {
		return s.pending, false
	}
	if s.ctx.Err() != nil {
		return async.Failed[Snapshot](ErrClosed), false
	}

	prev := s.snap
	timer := s.after(s.delay)
	s.pending = async.Go(func() (Snapshot, error) {
		select {
		case <-timer:
		case <-s.ctx.Done():
			s.mu.Lock()
			s.pending = nil
			s.mu.Unlock()
			return Snapshot{}, ErrClosed
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		s.pending = nil
		if s.ctx.Err() != nil {
			return Snapshot{}, ErrClosed
		}
		s.snap = next(prev, s.rng, s.now())
		s.log.Debug("pipeline refreshed",
			slog.Int64("events", s.snap.EventCount),
			slog.String("conversion_rate", s.snap.ConversionRatePercent.StringFixed(2)))
		return s.snap, nil
	})
	return s.pending, true
}

// Close suppresses any pending refresh and rejects later ones.
func (s *Store) Close() {
	s.cancel()
}
