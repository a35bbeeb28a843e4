// Package debounce provides a cancellable delayed-callback scheduler.
// It backs the storefront's debounced search filtering and coalesces
// rapid store writes into a single flush.
package debounce

import (
	"sync"
	"time"
)

// Debouncer schedules a callback to run after a quiet period. Each Call
// cancels the previously scheduled callback, so only the last one in a
// burst fires.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending func()
	stopped bool
}

// New creates a Debouncer with the given quiet period.
func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Call schedules fn to run after the quiet period, replacing any
// pending callback. fn runs on a timer goroutine.
func (d *Debouncer) Call(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = fn
	d.timer = time.AfterFunc(d.delay, d.fire)
}

// Flush runs the pending callback immediately, on the calling
// goroutine, instead of waiting out the quiet period.
func (d *Debouncer) Flush() {
	d.fire()
}

// Stop cancels any pending callback. The debouncer accepts no further
// calls afterwards.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	d.pending = nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// fire runs the pending callback at most once.
func (d *Debouncer) fire() {
	d.mu.Lock()
	fn := d.pending
	d.pending = nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()

	if fn != nil {
		fn()
	}
}
