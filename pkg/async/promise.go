package async

import (
	"fmt"
	"sync"
	"time"
)

// Thenable is anything that eventually produces a value or fails.
// Callbacks must be invoked on a loop, never synchronously from Then.
type Thenable[T any] interface {
	Then(onFulfilled func(T), onRejected func(error))
}

// State is the settlement state of a Promise.
type State uint8

const (
	Pending State = iota
	Fulfilled
	Rejected
)

// String returns the string representation of the State.
func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Fulfilled:
		return "fulfilled"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// UnhandledRejection is reported to the loop when a promise rejects and the
// continuation that observed it registered no rejection callback.
type UnhandledRejection struct {
	Err error
}

func (e *UnhandledRejection) Error() string {
	return fmt.Sprintf("unhandled rejection: %v", e.Err)
}

// Unwrap returns the rejection reason.
func (e *UnhandledRejection) Unwrap() error {
	return e.Err
}

type waiter[T any] struct {
	onFulfilled func(T)
	onRejected  func(error)
}

// Promise is a single-assignment result bound to a Loop. It may be settled
// from any goroutine; continuations are posted to the loop as microtasks in
// settlement order. Only the first settlement counts.
type Promise[T any] struct {
	loop *Loop

	mu      sync.Mutex
	state   State
	value   T
	err     error
	waiters []waiter[T]
}

// NewPromise creates a pending promise and its settle functions.
func NewPromise[T any](l *Loop) (p *Promise[T], resolve func(T), reject func(error)) {
	p = &Promise[T]{loop: l}
	return p, p.resolve, p.reject
}

// Resolve returns a promise already fulfilled with v.
func Resolve[T any](l *Loop, v T) *Promise[T] {
	p := &Promise[T]{loop: l}
	p.resolve(v)
	return p
}

// Reject returns a promise already rejected with err.
func Reject[T any](l *Loop, err error) *Promise[T] {
	p := &Promise[T]{loop: l}
	p.reject(err)
	return p
}

// Go runs fn on a new goroutine and settles the promise with its result.
func Go[T any](l *Loop, fn func() (T, error)) *Promise[T] {
	p, resolve, reject := NewPromise[T](l)
	go func() {
		v, err := fn()
		if err != nil {
			reject(err)
			return
		}
		resolve(v)
	}()
	return p
}

// After returns a promise fulfilled with v once d has elapsed.
func After[T any](l *Loop, d time.Duration, v T) *Promise[T] {
	p, resolve, _ := NewPromise[T](l)
	time.AfterFunc(d, func() { resolve(v) })
	return p
}

// Map returns a promise fulfilled with f applied to src's value. Rejections
// pass through unchanged; f runs on the loop.
func Map[T, U any](l *Loop, src Thenable[T], f func(T) U) *Promise[U] {
	p, resolve, reject := NewPromise[U](l)
	src.Then(func(v T) { resolve(f(v)) }, reject)
	return p
}

// State returns the current settlement state.
func (p *Promise[T]) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Promise[T]) resolve(v T) {
	p.settle(Fulfilled, v, nil)
}

func (p *Promise[T]) reject(err error) {
	var zero T
	p.settle(Rejected, zero, err)
}

func (p *Promise[T]) settle(state State, v T, err error) {
	p.mu.Lock()
	if p.state != Pending {
		p.mu.Unlock()
		return
	}
	p.state, p.value, p.err = state, v, err
	waiters := p.waiters
	p.waiters = nil
	p.mu.Unlock()

	for _, w := range waiters {
		p.schedule(w)
	}
}

// Then registers continuations. They run on the loop after settlement, never
// synchronously. A nil onRejected makes a rejection an unhandled failure.
func (p *Promise[T]) Then(onFulfilled func(T), onRejected func(error)) {
	w := waiter[T]{onFulfilled: onFulfilled, onRejected: onRejected}
	p.mu.Lock()
	if p.state == Pending {
		p.waiters = append(p.waiters, w)
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()
	p.schedule(w)
}

func (p *Promise[T]) schedule(w waiter[T]) {
	p.loop.Post(func() {
		p.mu.Lock()
		state, v, err := p.state, p.value, p.err
		p.mu.Unlock()

		switch state {
		case Fulfilled:
			if w.onFulfilled != nil {
				w.onFulfilled(v)
			}
		case Rejected:
			if w.onRejected != nil {
				w.onRejected(err)
				return
			}
			p.loop.Report(&UnhandledRejection{Err: err})
		}
	})
}
