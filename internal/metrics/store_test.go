package metrics

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"
)

type manualTimer struct {
	ch    chan time.Time
	calls int
}

func newManualTimer() *manualTimer {
	return &manualTimer{ch: make(chan time.Time, 1)}
}

func (m *manualTimer) after(time.Duration) <-chan time.Time {
	m.calls++
	return m.ch
}

func (m *manualTimer) fire() {
	m.ch <- time.Now()
}

func fixedNow() time.Time {
	return time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)
}

func newTestStore(t *testing.T, timer *manualTimer, seed uint64) *Store {
	t.Helper()
	s := NewStore(Options{
		Rand:  rand.New(rand.NewPCG(seed, seed)),
		Now:   fixedNow,
		After: timer.after,
	})
	t.Cleanup(s.Close)
	return s
}

func waitSnapshot(t *testing.T, s *Store) Snapshot {
	t.Helper()
	op, _ := s.Refresh()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	snap, err := op.Wait(ctx)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	return snap
}

func TestInitialSnapshot(t *testing.T) {
	s := newTestStore(t, newManualTimer(), 1)
	snap := s.Snapshot()

	if snap.EventCount != 2347845 || snap.UserCount != 1407580 || snap.TransactionCount != 22457 {
		t.Errorf("unexpected initial counts: %+v", snap)
	}
	if snap.ConversionRatePercent.StringFixed(2) != "1.59" {
		t.Errorf("expected conversion 1.59, got %s", snap.ConversionRatePercent)
	}
	if s.IsRefreshing() {
		t.Error("new store should not be refreshing")
	}
}

func TestNextStaysWithinBounds(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	prev := InitialSnapshot(fixedNow())

	for i := 0; i < 5000; i++ {
		got := next(prev, r, fixedNow())

		if d := got.EventCount - prev.EventCount; d < 0 || d >= MaxEventDelta {
			t.Fatalf("event delta %d out of range", d)
		}
		if d := got.UserCount - prev.UserCount; d < 0 || d >= MaxUserDelta {
			t.Fatalf("user delta %d out of range", d)
		}
		if d := got.TransactionCount - prev.TransactionCount; d < 0 || d >= MaxTransactionDelta {
			t.Fatalf("transaction delta %d out of range", d)
		}
		if got.ConversionRatePercent.LessThan(MinConversionRate) || got.ConversionRatePercent.GreaterThan(MaxConversionRate) {
			t.Fatalf("conversion rate %s out of range", got.ConversionRatePercent)
		}
		if got.ConversionRatePercent.Exponent() < -2 {
			t.Fatalf("conversion rate %s has more than 2 decimals", got.ConversionRatePercent)
		}
		prev = got
	}
}

func TestRefreshUpdatesSnapshot(t *testing.T) {
	timer := newManualTimer()
	s := newTestStore(t, timer, 3)
	before := s.Snapshot()

	op, started := s.Refresh()
	if !started {
		t.Fatal("expected first refresh to start")
	}
	if !s.IsRefreshing() {
		t.Error("expected store to be refreshing while pending")
	}
	if !s.Snapshot().Equal(before) {
		t.Error("snapshot changed before the refresh completed")
	}

	timer.fire()
	got, err := op.Wait(context.Background())
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	if s.IsRefreshing() {
		t.Error("expected refreshing to clear after completion")
	}
	if !s.Snapshot().Equal(got) {
		t.Error("store snapshot does not match refresh result")
	}
	if !got.UpdatedAt.Equal(fixedNow()) {
		t.Errorf("expected UpdatedAt from clock, got %v", got.UpdatedAt)
	}
}

func TestRefreshWhilePendingIsCoalesced(t *testing.T) {
	timer := newManualTimer()
	s := newTestStore(t, timer, 5)
	before := s.Snapshot()

	first, started := s.Refresh()
	if !started {
		t.Fatal("expected first refresh to start")
	}
	second, started := s.Refresh()
	if started {
		t.Error("second refresh should not start a new operation")
	}
	if first != second {
		t.Error("expected the in-flight operation to be returned")
	}
	if timer.calls != 1 {
		t.Errorf("expected a single timer, got %d", timer.calls)
	}

	timer.fire()
	a, _ := first.Wait(context.Background())
	b, _ := second.Wait(context.Background())
	if !a.Equal(b) {
		t.Error("callers observed different snapshots")
	}

	// A single step from the initial snapshot.
	if d := a.EventCount - before.EventCount; d >= MaxEventDelta {
		t.Errorf("event delta %d suggests more than one mutation", d)
	}
}

func TestSameSeedSameSnapshots(t *testing.T) {
	t1, t2 := newManualTimer(), newManualTimer()
	s1 := newTestStore(t, t1, 42)
	s2 := newTestStore(t, t2, 42)

	for i := 0; i < 3; i++ {
		t1.fire()
		t2.fire()
		if a, b := waitSnapshot(t, s1), waitSnapshot(t, s2); !a.Equal(b) {
			t.Fatalf("step %d: seeded stores diverged: %+v vs %+v", i, a, b)
		}
	}
}

func TestReadsDoNotMutate(t *testing.T) {
	s := newTestStore(t, newManualTimer(), 9)

	a := s.Snapshot()
	b := s.Snapshot()
	if !a.Equal(b) {
		t.Error("repeated reads returned different snapshots")
	}
}

func TestCloseSuppressesPendingRefresh(t *testing.T) {
	timer := newManualTimer()
	s := newTestStore(t, timer, 13)
	before := s.Snapshot()

	op, _ := s.Refresh()
	s.Close()

	_, err := op.Wait(context.Background())
	if !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}

	timer.fire()
	if !s.Snapshot().Equal(before) {
		t.Error("closed store snapshot was overwritten")
	}
	if s.IsRefreshing() {
		t.Error("closed store still reports refreshing")
	}

	again, started := s.Refresh()
	if started {
		t.Error("refresh started on a closed store")
	}
	if _, err := again.Wait(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed after close, got %v", err)
	}
}
