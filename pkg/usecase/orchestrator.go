package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/crmdesk/agenda/pkg/domain/model"
	"github.com/crmdesk/agenda/pkg/domain/types"
	"github.com/crmdesk/agenda/pkg/service/activity"
	"github.com/crmdesk/agenda/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"
)

// Request is one fetch of a batch: a kind over a window
type Request struct {
	Kind   types.ActivityKind
	Window model.Interval
}

func (r Request) key() string {
	return r.Kind.String() + "@" + r.Window.String()
}

// Outcome reports what Run did with a batch
type Outcome int

const (
	// OutcomeCommitted means the batch was merged into the channel
	OutcomeCommitted Outcome = iota
	// OutcomeSkipped means the filter asked for no fetch
	OutcomeSkipped
	// OutcomeDuplicate means an identical batch was already in flight
	OutcomeDuplicate
	// OutcomeSuperseded means a newer batch took over the channel
	OutcomeSuperseded
	// OutcomeCancelled means the batch was cancelled while still current
	OutcomeCancelled
	// OutcomeFailed means the current batch failed; prior data is kept
	OutcomeFailed
	// OutcomeUnchanged means the caller found nothing to refetch
	OutcomeUnchanged
	// OutcomeClosed means the orchestrator was torn down; nothing ran
	OutcomeClosed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCommitted:
		return "committed"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeSuperseded:
		return "superseded"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeFailed:
		return "failed"
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// CommitHook is called after a channel's state changed on settle
type CommitHook func(snapshot model.ChannelSnapshot)

type channelState struct {
	generation  uint64
	cancel      context.CancelFunc
	loading     bool
	inflightKey string
	items       *model.ActivitySet
	err         string
	committedAt time.Time
}

// Orchestrator runs fetch batches per channel. Only the latest batch issued
// on a channel may change that channel's committed state; earlier batches
// are cancelled and their results dropped whenever they settle.
type Orchestrator struct {
	client activity.Service
	now    func() time.Time
	hooks  []CommitHook

	mu       sync.Mutex
	closed   bool
	channels map[types.Channel]*channelState
}

// OrchestratorOption configures an Orchestrator
type OrchestratorOption func(*Orchestrator)

// WithCommitHook registers a hook called after every settle of a current batch
func WithCommitHook(hook CommitHook) OrchestratorOption {
	return func(o *Orchestrator) {
		o.hooks = append(o.hooks, hook)
	}
}

// WithOrchestratorClock overrides the clock used for commit times
func WithOrchestratorClock(now func() time.Time) OrchestratorOption {
	return func(o *Orchestrator) {
		o.now = now
	}
}

// NewOrchestrator creates an Orchestrator fetching through client
func NewOrchestrator(client activity.Service, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		client:   client,
		now:      time.Now,
		channels: make(map[types.Channel]*channelState),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run issues reqs on ch. A batch identical to the one in flight is a no-op.
func (o *Orchestrator) Run(ctx context.Context, ch types.Channel, filter model.Filter, reqs []Request) (Outcome, error) {
	return o.run(ctx, ch, filter, reqs, false)
}

// Reload is Run without the in-flight duplicate check, for refreshes after a
// mutation.
func (o *Orchestrator) Reload(ctx context.Context, ch types.Channel, filter model.Filter, reqs []Request) (Outcome, error) {
	return o.run(ctx, ch, filter, reqs, true)
}

func (o *Orchestrator) run(ctx context.Context, ch types.Channel, filter model.Filter, reqs []Request, force bool) (Outcome, error) {
	logger := logging.From(ctx).With(slog.String("channel", ch.String()))

	if !filter.ShouldFetch() {
		// a batch for the previous selection must not land after it was cleared
		o.Cancel(ch)
		logger.Debug("skip fetch", slog.String("reason", filter.SkipReason()))
		return OutcomeSkipped, nil
	}

	key := batchKey(filter, reqs)
	gen, batchCtx, refused := o.begin(ctx, ch, key, force)
	switch refused {
	case OutcomeDuplicate:
		logger.Debug("identical batch in flight")
		return refused, nil
	case OutcomeClosed:
		logger.Debug("orchestrator closed")
		return refused, nil
	}

	results := make([][]*model.Activity, len(reqs))
	eg, egCtx := errgroup.WithContext(batchCtx)
	for i, req := range reqs {
		eg.Go(func() error {
			items, err := o.client.FetchActivities(egCtx, req.Kind, req.Window, filter)
			if err != nil {
				return err
			}
			results[i] = items
			return nil
		})
	}
	fetchErr := eg.Wait()

	outcome, snapshot, current := o.settle(ch, gen, results, fetchErr)
	if !current {
		logger.Debug("discard superseded batch", slog.Uint64("generation", gen))
		return OutcomeSuperseded, nil
	}

	for _, hook := range o.hooks {
		hook(snapshot)
	}

	switch outcome {
	case OutcomeCancelled:
		return outcome, nil
	case OutcomeFailed:
		logger.Warn("batch failed", slog.Any("error", fetchErr))
		return outcome, goerr.Wrap(fetchErr, "failed to load channel", goerr.V(ChannelKey, ch))
	default:
		logger.Debug("batch committed", slog.Int("count", len(snapshot.Items)))
		return outcome, nil
	}
}

// begin makes a new generation current on ch, cancelling the previous one.
// A refusal is reported as OutcomeClosed after Close, or OutcomeDuplicate when
// force is off and key is already in flight; otherwise it is OutcomeCommitted.
func (o *Orchestrator) begin(ctx context.Context, ch types.Channel, key string, force bool) (uint64, context.Context, Outcome) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return 0, nil, OutcomeClosed
	}

	st := o.state(ch)
	if !force && st.loading && st.inflightKey == key {
		return 0, nil, OutcomeDuplicate
	}

	if st.cancel != nil {
		st.cancel()
	}
	batchCtx, cancel := context.WithCancel(ctx)

	st.generation++
	st.cancel = cancel
	st.loading = true
	st.inflightKey = key

	return st.generation, batchCtx, OutcomeCommitted
}

// settle applies a finished batch if gen is still current
func (o *Orchestrator) settle(ch types.Channel, gen uint64, results [][]*model.Activity, fetchErr error) (Outcome, model.ChannelSnapshot, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	st := o.state(ch)
	if st.generation != gen {
		return OutcomeSuperseded, model.ChannelSnapshot{}, false
	}

	if st.cancel != nil {
		st.cancel()
		st.cancel = nil
	}
	st.loading = false
	st.inflightKey = ""

	var outcome Outcome
	switch {
	case fetchErr == nil:
		st.items = model.MergeActivities(results...)
		st.err = ""
		st.committedAt = o.now()
		outcome = OutcomeCommitted
	case isCancellation(fetchErr):
		outcome = OutcomeCancelled
	default:
		st.err = ErrorMessage(fetchErr)
		outcome = OutcomeFailed
	}

	return outcome, o.snapshot(ch, st), true
}

// Snapshot returns the committed state of ch
func (o *Orchestrator) Snapshot(ch types.Channel) model.ChannelSnapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshot(ch, o.state(ch))
}

// Cancel abandons the batch in flight on ch. Committed data is kept and
// loading is cleared immediately.
func (o *Orchestrator) Cancel(ch types.Channel) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.cancel(o.state(ch))
}

// Close cancels every channel. Later runs do nothing and return OutcomeClosed.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
	for _, st := range o.channels {
		o.cancel(st)
	}
}

func (o *Orchestrator) cancel(st *channelState) {
	if !st.loading {
		return
	}
	st.generation++
	if st.cancel != nil {
		st.cancel()
		st.cancel = nil
	}
	st.loading = false
	st.inflightKey = ""
}

func (o *Orchestrator) state(ch types.Channel) *channelState {
	st, ok := o.channels[ch]
	if !ok {
		st = &channelState{}
		o.channels[ch] = st
	}
	return st
}

func (o *Orchestrator) snapshot(ch types.Channel, st *channelState) model.ChannelSnapshot {
	return model.ChannelSnapshot{
		Channel:     ch,
		Items:       st.items.Sorted(),
		Loading:     st.loading,
		Error:       st.err,
		Generation:  st.generation,
		CommittedAt: st.committedAt,
	}
}

func batchKey(filter model.Filter, reqs []Request) string {
	keys := make([]string, 0, len(reqs))
	for _, r := range reqs {
		keys = append(keys, r.key())
	}
	sort.Strings(keys)
	return filter.Key() + "|" + strings.Join(keys, ",")
}

func isCancellation(err error) bool {
	return errors.Is(err, activity.ErrCancelled) || errors.Is(err, context.Canceled)
}

// ErrorMessage renders err as the single inline message shown for a channel
func ErrorMessage(err error) string {
	var httpErr *activity.HTTPError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &httpErr):
		return httpErr.Message
	case errors.Is(err, activity.ErrNetworkFailure):
		return "could not reach the activity service"
	default:
		return err.Error()
	}
}
