package usecase

import (
	"context"
	"time"

	"github.com/crmdesk/agenda/pkg/domain/model"
	"github.com/crmdesk/agenda/pkg/domain/types"
	"github.com/crmdesk/agenda/pkg/service/activity"
	"github.com/crmdesk/agenda/pkg/utils/async"
	"github.com/m-mizutani/goerr/v2"
)

// ViewState is what a live panel currently shows
type ViewState struct {
	Mode           types.ViewMode
	SelectedUserID types.UserID
	Scopes         []types.ScopeName
	Kinds          []types.ActivityKind
}

// Channel returns the channel serving the view
func (v ViewState) Channel() types.Channel {
	return v.Mode.Channel()
}

// PanelUseCase drives the live reminder/meeting panels
type PanelUseCase struct {
	orch     *Orchestrator
	client   activity.Service
	viewer   model.Viewer
	now      func() time.Time
	debounce *Debouncer
}

// PanelOption configures a PanelUseCase
type PanelOption func(*PanelUseCase)

// WithPanelClock overrides the clock scopes are resolved against
func WithPanelClock(now func() time.Time) PanelOption {
	return func(uc *PanelUseCase) {
		uc.now = now
	}
}

// WithDebounce sets the delay used by ScheduleLoad
func WithDebounce(d time.Duration) PanelOption {
	return func(uc *PanelUseCase) {
		uc.debounce = NewDebouncer(d)
	}
}

// NewPanelUseCase creates a PanelUseCase for viewer
func NewPanelUseCase(orch *Orchestrator, client activity.Service, viewer model.Viewer, opts ...PanelOption) *PanelUseCase {
	uc := &PanelUseCase{
		orch:     orch,
		client:   client,
		viewer:   viewer,
		now:      time.Now,
		debounce: NewDebouncer(DefaultDebounce),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Viewer returns the user the panel is built for
func (uc *PanelUseCase) Viewer() model.Viewer {
	return uc.viewer
}

// Requests expands the view into one request per scope and kind, resolved
// against the current time.
func (uc *PanelUseCase) Requests(view ViewState) ([]Request, error) {
	if len(view.Scopes) == 0 || len(view.Kinds) == 0 {
		return nil, goerr.Wrap(ErrEmptyView, "nothing to fetch", goerr.V("mode", view.Mode))
	}

	now := uc.now()
	reqs := make([]Request, 0, len(view.Scopes)*len(view.Kinds))
	for _, scope := range view.Scopes {
		window, err := model.ResolveScope(scope, now)
		if err != nil {
			return nil, err
		}
		for _, kind := range view.Kinds {
			if !kind.IsValid() {
				return nil, goerr.New("invalid activity kind", goerr.V("kind", kind))
			}
			reqs = append(reqs, Request{Kind: kind, Window: window})
		}
	}
	return reqs, nil
}

// Load runs the view's batch on its channel and returns the channel state
// after it settles.
func (uc *PanelUseCase) Load(ctx context.Context, view ViewState) (model.ChannelSnapshot, Outcome, error) {
	return uc.load(ctx, view, false)
}

// Refresh reloads the view even when an identical batch is in flight
func (uc *PanelUseCase) Refresh(ctx context.Context, view ViewState) (model.ChannelSnapshot, Outcome, error) {
	return uc.load(ctx, view, true)
}

func (uc *PanelUseCase) load(ctx context.Context, view ViewState, force bool) (model.ChannelSnapshot, Outcome, error) {
	filter := BuildFilter(uc.viewer, view.Mode, view.SelectedUserID)

	var reqs []Request
	if filter.ShouldFetch() {
		var err error
		if reqs, err = uc.Requests(view); err != nil {
			return uc.orch.Snapshot(view.Channel()), OutcomeSkipped, err
		}
	}

	run := uc.orch.Run
	if force {
		run = uc.orch.Reload
	}
	outcome, err := run(ctx, view.Channel(), filter, reqs)
	return uc.orch.Snapshot(view.Channel()), outcome, err
}

// ScheduleLoad coalesces fast view edits and loads the last one in the
// background once input settles.
func (uc *PanelUseCase) ScheduleLoad(ctx context.Context, view ViewState) {
	uc.debounce.Trigger(func() {
		async.Dispatch(ctx, "panel_load", func(ctx context.Context) error {
			_, _, err := uc.Load(ctx, view)
			return err
		})
	})
}

// UpdateStatus moves act to next and reloads the view on success
func (uc *PanelUseCase) UpdateStatus(ctx context.Context, view ViewState, act *model.Activity, next types.ActivityStatus) (model.ChannelSnapshot, error) {
	if !act.Status.CanTransition(act.Kind, next) {
		return model.ChannelSnapshot{}, goerr.Wrap(ErrInvalidTransition, "rejected status change",
			goerr.V(ActivityIDKey, act.ID), goerr.V("kind", act.Kind), goerr.V("from", act.Status), goerr.V(StatusKey, next))
	}

	if err := uc.client.UpdateStatus(ctx, act.ID, next); err != nil {
		return model.ChannelSnapshot{}, goerr.Wrap(err, "failed to update status", goerr.V(ActivityIDKey, act.ID))
	}

	snap, _, err := uc.Refresh(ctx, view)
	return snap, err
}

// Close stops pending scheduled loads
func (uc *PanelUseCase) Close() {
	uc.debounce.Stop()
}
