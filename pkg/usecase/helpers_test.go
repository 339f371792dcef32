package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/crmdesk/agenda/pkg/domain/model"
	"github.com/crmdesk/agenda/pkg/domain/types"
	"github.com/crmdesk/agenda/pkg/service/activity"
)

type fetchCall struct {
	Kind   types.ActivityKind
	Window model.Interval
	Filter model.Filter
}

type updateCall struct {
	ID     types.ActivityID
	Status types.ActivityStatus
}

// fakeActivityService records calls and delegates to optional funcs
type fakeActivityService struct {
	mu      sync.Mutex
	fetches []fetchCall
	updates []updateCall

	fetchFn  func(ctx context.Context, kind types.ActivityKind, window model.Interval, filter model.Filter) ([]*model.Activity, error)
	updateFn func(ctx context.Context, id types.ActivityID, status types.ActivityStatus) error
}

var _ activity.Service = (*fakeActivityService)(nil)

func (f *fakeActivityService) FetchActivities(ctx context.Context, kind types.ActivityKind, window model.Interval, filter model.Filter) ([]*model.Activity, error) {
	f.mu.Lock()
	f.fetches = append(f.fetches, fetchCall{Kind: kind, Window: window, Filter: filter})
	fn := f.fetchFn
	f.mu.Unlock()

	if fn == nil {
		return nil, nil
	}
	return fn(ctx, kind, window, filter)
}

func (f *fakeActivityService) UpdateStatus(ctx context.Context, id types.ActivityID, status types.ActivityStatus) error {
	f.mu.Lock()
	f.updates = append(f.updates, updateCall{ID: id, Status: status})
	fn := f.updateFn
	f.mu.Unlock()

	if fn == nil {
		return nil
	}
	return fn(ctx, id, status)
}

func (f *fakeActivityService) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.fetches)
}

func (f *fakeActivityService) fetchCalls() []fetchCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]fetchCall(nil), f.fetches...)
}

func (f *fakeActivityService) updateCalls() []updateCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]updateCall(nil), f.updates...)
}

// fixedNow is a Wednesday afternoon
var fixedNow = time.Date(2024, 5, 15, 13, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func item(id string, kind types.ActivityKind, when time.Time, title string) *model.Activity {
	status := types.ActivityStatusPending
	if kind == types.ActivityKindMeeting {
		status = types.ActivityStatusScheduled
	}
	return &model.Activity{
		ID:               types.ActivityID(id),
		Kind:             kind,
		When:             model.Local(when),
		Status:           status,
		Title:            title,
		AssignedToUserID: "self",
		CreatedByUserID:  "self",
	}
}

func titles(items []*model.Activity) []string {
	out := make([]string, 0, len(items))
	for _, a := range items {
		out = append(out, a.Title)
	}
	return out
}

// waitFor polls cond until it holds or a second passes
func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(2 * time.Millisecond)
	}
	return cond()
}
