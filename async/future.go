package async

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/atomic"
)

// ErrNilFailure is recorded when a future is failed without a cause.
var ErrNilFailure = errors.New("future failed without a cause")

// Future is a single-assignment handle for a value produced by another goroutine.
// It transitions exactly once from pending to either a value or a failure; every
// later Complete or Fail call is a no-op that reports false.
type Future[T any] struct {
	settled   atomic.Bool
	done      chan struct{}
	lock      sync.Mutex
	callbacks []func(T, error)
	value     T
	err       error
}

// NewFuture returns a pending future.
func NewFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Completed returns a future already holding v.
func Completed[T any](v T) *Future[T] {
	f := NewFuture[T]()
	f.Complete(v)
	return f
}

// Failed returns a future already failed with err.
func Failed[T any](err error) *Future[T] {
	f := NewFuture[T]()
	f.Fail(err)
	return f
}

// Complete records v if the future is still pending. It reports whether this
// call settled the future.
func (f *Future[T]) Complete(v T) bool {
	if !f.settled.CAS(false, true) {
		return false
	}
	f.value = v
	f.settle()
	return true
}

// Fail records err if the future is still pending. It reports whether this
// call settled the future.
func (f *Future[T]) Fail(err error) bool {
	if !f.settled.CAS(false, true) {
		return false
	}
	if err == nil {
		err = ErrNilFailure
	}
	f.err = err
	f.settle()
	return true
}

func (f *Future[T]) settle() {
	f.lock.Lock()
	close(f.done)
	callbacks := f.callbacks
	f.callbacks = nil
	f.lock.Unlock()
	for _, cb := range callbacks {
		cb(f.value, f.err)
	}
}

// Done returns a channel closed once the future is settled.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// IsDone reports whether the future is settled.
func (f *Future[T]) IsDone() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Peek returns the settled value and error without blocking. The final return
// value is false while the future is pending.
func (f *Future[T]) Peek() (T, error, bool) {
	if !f.IsDone() {
		var zero T
		return zero, nil, false
	}
	return f.value, f.err, true
}

// Get blocks until the future settles or ctx is done.
func (f *Future[T]) Get(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// OnComplete registers cb to observe the settled value. If the future is
// already settled cb runs immediately on the caller's goroutine, otherwise it
// runs on the goroutine that settles the future. Callbacks must not block.
func (f *Future[T]) OnComplete(cb func(T, error)) {
	f.lock.Lock()
	select {
	case <-f.done:
		f.lock.Unlock()
		cb(f.value, f.err)
		return
	default:
	}
	f.callbacks = append(f.callbacks, cb)
	f.lock.Unlock()
}
