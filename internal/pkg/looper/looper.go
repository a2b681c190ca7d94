// Package looper provides the single serialized execution context that owns
// all interface state. Work items run one at a time in the order they were posted.
package looper

import (
	"context"
	"errors"
	"sync"
)

// ErrQuit is returned when work is posted to a looper that has stopped.
var ErrQuit = errors.New("looper has quit")

// Handler accepts work items for the looper.
type Handler interface {
	// Post enqueues fn. It never blocks and reports false once the looper has quit.
	Post(fn func()) bool
}

// Looper is an unbounded FIFO of work items.
type Looper struct {
	mu    sync.Mutex
	queue []func()
	wake  chan struct{}
	quit  bool
}

var _ Handler = (*Looper)(nil)

// New creates an idle looper.
func New() *Looper {
	return &Looper{wake: make(chan struct{}, 1)}
}

// Post enqueues fn behind every item posted before it.
func (l *Looper) Post(fn func()) bool {
	l.mu.Lock()
	if l.quit {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// Pending returns the number of queued work items.
func (l *Looper) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// Run executes work items on the calling goroutine until ctx is cancelled.
// Items still queued at cancellation are dropped.
func (l *Looper) Run(ctx context.Context) error {
	defer func() {
		l.mu.Lock()
		l.quit = true
		l.queue = nil
		l.mu.Unlock()
	}()

	for {
		l.DispatchAll()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// DispatchAll runs queued items on the calling goroutine until the queue is
// empty, including items posted by the items it runs. It returns the number
// of items executed.
func (l *Looper) DispatchAll() int {
	n := 0
	for {
		fn, ok := l.next()
		if !ok {
			return n
		}
		fn()
		n++
	}
}

// DispatchNext runs a single queued item and reports whether there was one.
func (l *Looper) DispatchNext() bool {
	fn, ok := l.next()
	if ok {
		fn()
	}
	return ok
}

func (l *Looper) next() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return nil, false
	}
	fn := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return fn, true
}

// RunAndWait posts fn and blocks until it has run or ctx is done.
func RunAndWait(ctx context.Context, h Handler, fn func()) error {
	done := make(chan struct{})
	if !h.Post(func() {
		defer close(done)
		fn()
	}) {
		return ErrQuit
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
