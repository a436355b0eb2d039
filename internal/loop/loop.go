// Package loop provides the single logical thread the quiz runs on.
//
// Game and playback state are only ever touched by closures executed by a
// Scheduler. Timers fire by posting their callback back onto the same
// thread, so no locking is needed around that state.
package loop

import (
	"context"
	"time"
)

// Timer is a cancellable scheduled callback
type Timer interface {
	Stop() bool
}

// Scheduler executes callbacks on one logical thread
type Scheduler interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

// Ensure Loop implements Scheduler at compile time
var _ Scheduler = (*Loop)(nil)

// Loop runs posted closures in order on a single goroutine
type Loop struct {
	tasks chan func()
	done  chan struct{}
}

// New creates a loop with the given queue capacity
func New(buffer int) *Loop {
	if buffer <= 0 {
		buffer = 256
	}
	return &Loop{
		tasks: make(chan func(), buffer),
		done:  make(chan struct{}),
	}
}

// Run executes posted closures until the context is cancelled
func (l *Loop) Run(ctx context.Context) {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-l.tasks:
			fn()
		}
	}
}

// Post queues fn for execution. It returns false once the loop has stopped.
// Post must not be called from inside a loop callback when the queue may be full.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case <-l.done:
		return false
	case l.tasks <- fn:
		return true
	}
}

// Do runs fn on the loop and waits for it to finish
func (l *Loop) Do(fn func()) bool {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return false
	}
	select {
	case <-finished:
		return true
	case <-l.done:
		return false
	}
}

// Done is closed when Run returns
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Now returns the wall clock time
func (l *Loop) Now() time.Time {
	return time.Now()
}

// AfterFunc posts fn onto the loop after d. A stopped timer may still have
// its callback queued; callers guard against that with TaskGroup.
func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, func() {
		l.Post(fn)
	})
}
