package worker

import (
	"context"
	"sync"
	"time"

	"github.com/crmdesk/agenda/pkg/utils/logging"
)

// DefaultTickInterval is how often relative-time labels are recomputed
const DefaultTickInterval = 30 * time.Second

// RenderFunc redraws labels for now. It must not perform network I/O.
type RenderFunc func(now time.Time)

// RelativeTimeTicker calls a render function on a fixed period so countdown
// labels stay current between fetches. It never touches fetch state.
type RelativeTimeTicker struct {
	render   RenderFunc
	interval time.Duration
	now      func() time.Time
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
}

// TickerOption configures a RelativeTimeTicker
type TickerOption func(*RelativeTimeTicker)

// WithTickerClock overrides the clock passed to render
func WithTickerClock(now func() time.Time) TickerOption {
	return func(t *RelativeTimeTicker) {
		t.now = now
	}
}

// NewRelativeTimeTicker creates a ticker. A non-positive interval uses DefaultTickInterval.
func NewRelativeTimeTicker(render RenderFunc, interval time.Duration, opts ...TickerOption) *RelativeTimeTicker {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	t := &RelativeTimeTicker{
		render:   render,
		interval: interval,
		now:      time.Now,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start renders once and then on every tick in a background goroutine
func (t *RelativeTimeTicker) Start(ctx context.Context) error {
	logging.From(ctx).Debug("relative time ticker starting", "interval", t.interval.String())

	go t.run(ctx)

	return nil
}

// Stop signals the ticker to stop and waits for completion. It is safe to
// call more than once.
func (t *RelativeTimeTicker) Stop() {
	t.stopOnce.Do(func() {
		close(t.stopCh)
	})
	<-t.doneCh
}

func (t *RelativeTimeTicker) run(ctx context.Context) {
	defer close(t.doneCh)

	t.render(t.now())

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.render(t.now())

		case <-t.stopCh:
			return

		case <-ctx.Done():
			return
		}
	}
}
