// Package experiment simulates the A/B test shown on the dashboard. A run waits
// a fixed delay and then reports a fixed pair of group summaries.
package experiment

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ecomdash/ecomdash/internal/async"
)

// DefaultDelay is the simulated duration of a run.
const DefaultDelay = 3 * time.Second

// ErrClosed is returned by runs that were pending or requested after the
// runner was closed.
var ErrClosed = errors.New("experiment: runner closed")

type State int

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	default:
		return "idle"
	}
}

// Status is a read-only view of the runner.
type Status struct {
	State     State
	RunID     uuid.UUID
	StartedAt time.Time
	Result    *Result
}

// Options configures a Runner. Zero values select the defaults.
type Options struct {
	Delay  time.Duration
	Now    func() time.Time
	After  func(time.Duration) <-chan time.Time
	Logger *slog.Logger
}

// Runner is the Idle/Running/Completed state machine. Only one run is in
// flight at a time.
type Runner struct {
	mu        sync.Mutex
	state     State
	result    *Result
	runID     uuid.UUID
	startedAt time.Time
	pending   *async.Op[Result]

	ctx    context.Context
	cancel context.CancelFunc

	delay time.Duration
	now   func() time.Time
	after func(time.Duration) <-chan time.Time
	log   *slog.Logger
}

func NewRunner(opts Options) *Runner {
	if opts.Delay == 0 {
		opts.Delay = DefaultDelay
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
	return &Runner{
		ctx:    ctx,
		cancel: cancel,
		delay:  opts.Delay,
		now:    opts.Now,
		after:  opts.After,
		log:    opts.Logger,
	}
}

// Start begins a run and returns its handle. The previous result is cleared
// before the running state becomes visible. If a run is already in flight its
// handle is returned and started is false.
func (r *Runner) Start() (op *async.Op[Result], started bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pending != nil {
		return r.pending, false
	}
	if r.ctx.Err() != nil {
		return async.Failed[Result](ErrClosed), false
	}

	r.result = nil
	r.state = StateRunning
	r.runID = uuid.New()
	r.startedAt = r.now()
	runID := r.runID
	r.log.Info("experiment started", slog.String("run_id", runID.String()))

	timer := r.after(r.delay)
	r.pending = async.Go(func() (Result, error) {
		select {
		case <-timer:
		case <-r.ctx.Done():
			r.abandon()
			return Result{}, ErrClosed
		}

		r.mu.Lock()
		defer r.mu.Unlock()
		if r.ctx.Err() != nil {
			r.pending = nil
			r.state = StateIdle
			return Result{}, ErrClosed
		}
		res := Fixture()
		r.result = &res
		r.state = StateCompleted
		r.pending = nil
		r.log.Info("experiment completed",
			slog.String("run_id", runID.String()),
			slog.String("improvement", res.ImprovementPercent.StringFixed(2)),
			slog.Bool("significant", res.IsSignificant))
		return res, nil
	})
	return r.pending, true
}

func (r *Runner) abandon() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = nil
	r.state = StateIdle
}

func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Result returns the last completed result. ok is false unless the runner is
// in the Completed state.
func (r *Runner) Result() (res Result, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.result == nil {
		return Result{}, false
	}
	return *r.result, true
}

func (r *Runner) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := Status{
		State:     r.state,
		RunID:     r.runID,
		StartedAt: r.startedAt,
	}
	if r.result != nil {
		res := *r.result
		st.Result = &res
	}
	return st
}

// Close suppresses a pending run and rejects later ones.
func (r *Runner) Close() {
	r.cancel()
}
