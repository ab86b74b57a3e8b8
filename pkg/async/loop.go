// Package async provides the single-threaded cooperative scheduler the
// engine runs on, and a Promise type whose continuations always execute on
// that scheduler.
//
// A Loop owns a FIFO microtask queue. Tasks may be posted from any goroutine,
// but they only ever run on the goroutine that drives the loop, either by
// calling Run or by calling Drain. Code that touches a host document must run
// as a loop task so that all mutation happens on one execution context.
//
//	loop := async.NewLoop()
//	p, resolve, _ := async.NewPromise[string](loop)
//	p.Then(func(v string) { fmt.Println(v) }, nil)
//	resolve("done")
//	loop.Drain() // prints "done"
package async

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
)

// Loop is a cooperative task queue.
type Loop struct {
	mu    sync.Mutex
	tasks []func()
	wake  chan struct{}

	onError func(error)
	onIdle  []func()
	logger  *slog.Logger
}

// Option configures a Loop.
type Option func(*Loop)

// WithLogger sets the loop logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithErrorHandler sets the hook called for unhandled failures: rejected
// promises nobody handled, errors returned by continuations and panics
// recovered from tasks.
func WithErrorHandler(fn func(error)) Option {
	return func(l *Loop) {
		l.onError = fn
	}
}

// WithIdleHook adds a hook that runs every time the queue drains after having
// run at least one task.
func WithIdleHook(fn func()) Option {
	return func(l *Loop) {
		if fn != nil {
			l.onIdle = append(l.onIdle, fn)
		}
	}
}

// NewLoop creates a Loop.
func NewLoop(opts ...Option) *Loop {
	l := &Loop{
		wake:   make(chan struct{}, 1),
		logger: slog.Default().With("component", "loop"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

var defaultLoop = sync.OnceValue(func() *Loop { return NewLoop() })

// Default returns the process-wide loop, created on first use.
func Default() *Loop {
	return defaultLoop()
}

// Post enqueues a task. Safe to call from any goroutine.
func (l *Loop) Post(task func()) {
	if task == nil {
		return
	}
	l.mu.Lock()
	l.tasks = append(l.tasks, task)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Pending returns the number of queued tasks.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tasks)
}

func (l *Loop) next() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.tasks) == 0 {
		return nil, false
	}
	task := l.tasks[0]
	l.tasks[0] = nil
	l.tasks = l.tasks[1:]
	return task, true
}

// Drain runs queued tasks on the calling goroutine until the queue is empty,
// including tasks enqueued by the tasks it runs. It returns the number of
// tasks executed. Drain must not be called concurrently with Run.
func (l *Loop) Drain() int {
	ran := 0
	for {
		task, ok := l.next()
		if !ok {
			break
		}
		l.runTask(task)
		ran++
	}
	if ran > 0 {
		for _, fn := range l.onIdle {
			l.runTask(fn)
		}
	}
	return ran
}

// Run drives the loop until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.Drain()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

func (l *Loop) runTask(task func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("task panic", "panic", r, "stack", string(debug.Stack()))
			l.Report(fmt.Errorf("async: task panic: %v", r))
		}
	}()
	task()
}

// Report hands an unhandled failure to the error hook. Without a hook the
// failure is only logged, and whatever was rendered before stays in place.
func (l *Loop) Report(err error) {
	if err == nil {
		return
	}
	l.logger.Error("unhandled async failure", "error", err)
	if l.onError != nil {
		l.onError(err)
	}
}
