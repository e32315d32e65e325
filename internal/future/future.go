// Package future provides single-assignment placeholders for values that
// arrive asynchronously, with non-blocking readiness probes and continuation
// registration.
package future

import "sync"

// Future is a single-assignment placeholder for a value of type T. It is
// created empty and set exactly once; readers may probe for readiness, block
// until the value arrives, or subscribe a continuation.
//
// Setting a future is a publish operation: every subscribed continuation is
// invoked exactly once with the value. A continuation registered after the
// value is set runs immediately on the registering goroutine; schedulers that
// need continuations on a worker pool wrap Subscribe accordingly.
type Future[T any] struct {
	mu   sync.Mutex
	done chan struct{}
	val  T
	set  bool
	subs []func(T)
}

// New creates an empty future.
func New[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Of creates a future that is already resolved to v.
func Of[T any](v T) *Future[T] {
	f := New[T]()
	f.Set(v)
	return f
}

// Probe reports whether the value has been set. A false result is a normal
// state, not a failure.
func (f *Future[T]) Probe() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Get blocks until the value is set and returns it.
func (f *Future[T]) Get() T {
	<-f.done
	return f.val
}

// Set resolves the future to v and publishes to all subscribed continuations.
// Setting a future twice is a contract violation and panics.
func (f *Future[T]) Set(v T) {
	f.mu.Lock()
	if f.set {
		f.mu.Unlock()
		panic("future: value set twice")
	}
	f.val = v
	f.set = true
	subs := f.subs
	f.subs = nil
	f.mu.Unlock()

	close(f.done)
	for _, fn := range subs {
		fn(v)
	}
}

// Subscribe registers a continuation to run exactly once when the value is
// set. If the future is already resolved, fn runs immediately.
func (f *Future[T]) Subscribe(fn func(T)) {
	f.mu.Lock()
	if !f.set {
		f.subs = append(f.subs, fn)
		f.mu.Unlock()
		return
	}
	v := f.val
	f.mu.Unlock()
	fn(v)
}
