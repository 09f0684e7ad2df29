package session

import (
	"sync"
	"time"
)

// DefaultSearchDelay is how long typing must pause before an automatic
// search fires.
const DefaultSearchDelay = 400 * time.Millisecond

// MinAutoSearchLen gates automatic search. Shorter queries only run on an
// explicit submit.
const MinAutoSearchLen = 3

// Debouncer coalesces a burst of triggers into a single call: each Trigger
// replaces any call still pending, so only the last one in a quiet window
// runs.
type Debouncer struct {
	delay time.Duration

	mu     sync.Mutex
	timer  *time.Timer
	closed bool
}

// NewDebouncer constructs a Debouncer with the given quiet window.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules fn to run after the quiet window, cancelling any
// previously scheduled call.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Flush cancels any pending call and runs fn immediately. This is the
// explicit-submit path that bypasses the quiet window.
func (d *Debouncer) Flush(fn func()) {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	closed := d.closed
	d.mu.Unlock()
	if !closed {
		fn()
	}
}

// Close cancels any pending call and rejects further triggers.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
