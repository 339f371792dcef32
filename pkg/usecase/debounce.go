package usecase

import (
	"sync"
	"time"
)

const (
	DefaultDebounce = 250 * time.Millisecond
	MinDebounce     = 200 * time.Millisecond
	MaxDebounce     = 300 * time.Millisecond
)

// Debouncer coalesces bursts of triggers into one call of the last function,
// fired once the delay passes without a new trigger.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// NewDebouncer creates a Debouncer. The delay is clamped to the 200-300ms range.
func NewDebouncer(delay time.Duration) *Debouncer {
	switch {
	case delay <= 0:
		delay = DefaultDebounce
	case delay < MinDebounce:
		delay = MinDebounce
	case delay > MaxDebounce:
		delay = MaxDebounce
	}
	return &Debouncer{delay: delay}
}

// Delay returns the effective delay
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Trigger schedules fn, replacing any pending call
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop drops any pending call; later triggers are ignored
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
