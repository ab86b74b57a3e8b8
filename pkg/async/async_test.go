package async

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestDrainRunsNestedTasksInOrder(t *testing.T) {
	l := NewLoop()
	var order []int
	l.Post(func() {
		order = append(order, 1)
		l.Post(func() { order = append(order, 3) })
	})
	l.Post(func() { order = append(order, 2) })

	if ran := l.Drain(); ran != 3 {
		t.Errorf("Drain() = %d, want 3", ran)
	}
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("order = %v, want [1 2 3]", order)
	}
	if l.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", l.Pending())
	}
}

func TestIdleHookRunsAfterWork(t *testing.T) {
	idle := 0
	l := NewLoop(WithIdleHook(func() { idle++ }))
	l.Drain()
	if idle != 0 {
		t.Errorf("idle = %d after empty drain, want 0", idle)
	}
	l.Post(func() {})
	l.Post(func() {})
	l.Drain()
	if idle != 1 {
		t.Errorf("idle = %d, want 1", idle)
	}
}

func TestPanicIsReported(t *testing.T) {
	var reported error
	l := NewLoop(WithErrorHandler(func(err error) { reported = err }))
	l.Post(func() { panic("boom") })
	ran := false
	l.Post(func() { ran = true })
	l.Drain()
	if reported == nil {
		t.Fatal("panic not reported")
	}
	if !ran {
		t.Error("loop stopped after a panicking task")
	}
}

func TestThenNeverRunsSynchronously(t *testing.T) {
	l := NewLoop()
	p := Resolve(l, "v")
	got := ""
	p.Then(func(v string) { got = v }, nil)
	if got != "" {
		t.Fatal("continuation ran synchronously")
	}
	l.Drain()
	if got != "v" {
		t.Errorf("got %q, want v", got)
	}
}

func TestSettlementOrder(t *testing.T) {
	l := NewLoop()
	first, resolveFirst, _ := NewPromise[int](l)
	second, resolveSecond, _ := NewPromise[int](l)

	var order []int
	first.Then(func(v int) { order = append(order, v) }, nil)
	second.Then(func(v int) { order = append(order, v) }, nil)

	resolveSecond(2)
	resolveFirst(1)
	l.Drain()

	if len(order) != 2 || order[0] != 2 || order[1] != 1 {
		t.Errorf("order = %v, want settlement order [2 1]", order)
	}
}

func TestOnlyFirstSettlementCounts(t *testing.T) {
	l := NewLoop()
	p, resolve, reject := NewPromise[int](l)
	resolve(1)
	resolve(2)
	reject(errors.New("late"))
	got := 0
	p.Then(func(v int) { got = v }, func(error) { t.Error("rejection delivered") })
	l.Drain()
	if got != 1 || p.State() != Fulfilled {
		t.Errorf("got %d (%v), want 1 (fulfilled)", got, p.State())
	}
}

func TestUnhandledRejection(t *testing.T) {
	var reported error
	l := NewLoop(WithErrorHandler(func(err error) { reported = err }))
	cause := errors.New("network down")
	Reject[int](l, cause).Then(func(int) { t.Error("fulfilled") }, nil)
	l.Drain()

	var ur *UnhandledRejection
	if !errors.As(reported, &ur) || !errors.Is(reported, cause) {
		t.Errorf("reported = %v, want UnhandledRejection(%v)", reported, cause)
	}
}

func TestMapPropagatesRejectionOnce(t *testing.T) {
	count := 0
	l := NewLoop(WithErrorHandler(func(error) { count++ }))
	m := Map(l, Reject[int](l, errors.New("x")), func(v int) string { return "never" })
	m.Then(func(string) { t.Error("fulfilled") }, nil)
	l.Drain()
	if count != 1 {
		t.Errorf("reported %d times, want 1", count)
	}
}

func TestMap(t *testing.T) {
	l := NewLoop()
	m := Map(l, Resolve(l, 21), func(v int) int { return v * 2 })
	got := 0
	m.Then(func(v int) { got = v }, nil)
	l.Drain()
	if got != 42 {
		t.Errorf("got %d, want 42", got)
	}
}

func TestRunProcessesCrossGoroutinePosts(t *testing.T) {
	l := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	var mu sync.Mutex
	got := ""
	finished := make(chan struct{})
	p := Go(l, func() (string, error) { return "from goroutine", nil })
	p.Then(func(v string) {
		mu.Lock()
		got = v
		mu.Unlock()
		close(finished)
	}, nil)

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("continuation never ran")
	}
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run() = %v, want context.Canceled", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if got != "from goroutine" {
		t.Errorf("got %q", got)
	}
}
