// Package async provides a small future type for operations that complete in
// the background, such as the simulated pipeline refresh and the A/B test run.
package async

import "context"

// Op is a handle to an operation running in its own goroutine. Every caller
// holding the same Op observes the same value once it completes.
type Op[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Go starts fn in a new goroutine and returns its handle.
func Go[T any](fn func() (T, error)) *Op[T] {
	op := &Op[T]{done: make(chan struct{})}
	go func() {
		defer close(op.done)
		op.val, op.err = fn()
	}()
	return op
}

// Failed returns an Op that has already completed with err.
func Failed[T any](err error) *Op[T] {
	op := &Op[T]{done: make(chan struct{}), err: err}
	close(op.done)
	return op
}

// Done is closed when the operation completes.
func (o *Op[T]) Done() <-chan struct{} {
	return o.done
}

// Finished reports whether the operation has completed.
func (o *Op[T]) Finished() bool {
	select {
	case <-o.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the operation completes or ctx is done. Giving up on the
// wait does not cancel the operation.
func (o *Op[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-o.done:
		return o.val, o.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
