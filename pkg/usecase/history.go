package usecase

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/crmdesk/agenda/pkg/domain/model"
	"github.com/crmdesk/agenda/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// HistoryUseCase serves the history panel. It refetches only when the window
// size or the scope owner changes; filtering and paging run on the last
// committed batch.
type HistoryUseCase struct {
	orch     *Orchestrator
	viewer   model.Viewer
	now      func() time.Time
	pageSize int

	mu         sync.Mutex
	currentKey string
}

// HistoryOption configures a HistoryUseCase
type HistoryOption func(*HistoryUseCase)

// WithHistoryClock overrides the clock the rolling window ends at
func WithHistoryClock(now func() time.Time) HistoryOption {
	return func(uc *HistoryUseCase) {
		uc.now = now
	}
}

// WithHistoryPageSize sets the default page size
func WithHistoryPageSize(size int) HistoryOption {
	return func(uc *HistoryUseCase) {
		if size > 0 {
			uc.pageSize = size
		}
	}
}

// NewHistoryUseCase creates a HistoryUseCase for viewer
func NewHistoryUseCase(orch *Orchestrator, viewer model.Viewer, opts ...HistoryOption) *HistoryUseCase {
	uc := &HistoryUseCase{
		orch:     orch,
		viewer:   viewer,
		now:      time.Now,
		pageSize: model.DefaultHistoryPageSize,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Load fetches CALL and EMAIL reminders over the last days days unless the
// same window and owner are already loaded or loading.
func (uc *HistoryUseCase) Load(ctx context.Context, days int, mode types.ViewMode, selected types.UserID) (Outcome, error) {
	return uc.load(ctx, days, mode, selected, false)
}

// Refresh refetches the window even if it is already loaded
func (uc *HistoryUseCase) Refresh(ctx context.Context, days int, mode types.ViewMode, selected types.UserID) (Outcome, error) {
	return uc.load(ctx, days, mode, selected, true)
}

func (uc *HistoryUseCase) load(ctx context.Context, days int, mode types.ViewMode, selected types.UserID, force bool) (Outcome, error) {
	if !types.IsValidHistoryDays(days) {
		return OutcomeSkipped, goerr.Wrap(ErrInvalidHistoryDays, "rejected history window", goerr.V(DaysKey, days))
	}

	filter := BuildFilter(uc.viewer, mode, selected)
	if !filter.ShouldFetch() {
		uc.forget("")
		return uc.orch.Run(ctx, types.ChannelHistory, filter, nil)
	}

	key := strconv.Itoa(days) + "|" + filter.Key()
	uc.mu.Lock()
	if !force && uc.currentKey == key {
		uc.mu.Unlock()
		return OutcomeUnchanged, nil
	}
	uc.currentKey = key
	uc.mu.Unlock()

	window, err := model.RollingWindow(days, uc.now())
	if err != nil {
		uc.forget(key)
		return OutcomeSkipped, err
	}
	reqs := make([]Request, 0, len(types.ReminderKinds()))
	for _, kind := range types.ReminderKinds() {
		reqs = append(reqs, Request{Kind: kind, Window: window})
	}

	run := uc.orch.Run
	if force {
		run = uc.orch.Reload
	}
	outcome, err := run(ctx, types.ChannelHistory, filter, reqs)

	// allow a retry of a window that never committed
	switch outcome {
	case OutcomeFailed, OutcomeCancelled, OutcomeSuperseded, OutcomeClosed:
		uc.forget(key)
	}
	return outcome, err
}

// forget clears the loaded key if it still equals key; "" clears it always
func (uc *HistoryUseCase) forget(key string) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if key == "" || uc.currentKey == key {
		uc.currentKey = ""
	}
}

// Page filters, sorts and paginates the committed history. It never fetches.
func (uc *HistoryUseCase) Page(view model.HistoryView) model.HistoryPage {
	if view.PageSize <= 0 {
		view.PageSize = uc.pageSize
	}
	return model.PaginateHistory(uc.orch.Snapshot(types.ChannelHistory).Items, view)
}

// Snapshot returns the history channel state
func (uc *HistoryUseCase) Snapshot() model.ChannelSnapshot {
	return uc.orch.Snapshot(types.ChannelHistory)
}
