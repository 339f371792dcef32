package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/crmdesk/agenda/pkg/domain/model"
	"github.com/crmdesk/agenda/pkg/domain/types"
	"github.com/crmdesk/agenda/pkg/service/activity"
	"github.com/crmdesk/agenda/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

func historyService() *fakeActivityService {
	return &fakeActivityService{
		fetchFn: func(ctx context.Context, kind types.ActivityKind, window model.Interval, filter model.Filter) ([]*model.Activity, error) {
			var items []*model.Activity
			for d := 0; d < 3; d++ {
				a := item(fmt.Sprintf("%s-%d", kind, d), kind, fixedNow.AddDate(0, 0, -d), fmt.Sprintf("%s-%d", kind, d))
				if d == 0 {
					a.Status = types.ActivityStatusDone
				}
				items = append(items, a)
			}
			return items, nil
		},
	}
}

func TestHistoryUseCase_RefetchOnlyOnWindowOrOwnerChange(t *testing.T) {
	svc := historyService()
	uc := newUseCases(svc, model.Viewer{UserID: "self", Role: types.RoleAdmin})
	ctx := context.Background()

	outcome, err := uc.History.Load(ctx, 7, types.ViewModeOverview, "")
	gt.NoError(t, err).Required()
	gt.Value(t, outcome).Equal(usecase.OutcomeCommitted)
	gt.Value(t, svc.fetchCount()).Equal(2)

	// same window and owner
	outcome, err = uc.History.Load(ctx, 7, types.ViewModeOverview, "")
	gt.NoError(t, err).Required()
	gt.Value(t, outcome).Equal(usecase.OutcomeUnchanged)
	gt.Value(t, svc.fetchCount()).Equal(2)

	// 7 -> 30 is exactly one new batch of CALL and EMAIL
	outcome, err = uc.History.Load(ctx, 30, types.ViewModeOverview, "")
	gt.NoError(t, err).Required()
	gt.Value(t, outcome).Equal(usecase.OutcomeCommitted)
	gt.Value(t, svc.fetchCount()).Equal(4)

	// the two fetches of a batch run concurrently, so their order is not fixed
	calls := svc.fetchCalls()[2:]
	kinds := map[types.ActivityKind]bool{}
	for _, c := range calls {
		kinds[c.Kind] = true
		gt.Value(t, c.Window.FromString()).Equal("2024-04-15 00:00:00")
		gt.Value(t, c.Window.ToString()).Equal("2024-05-15 23:59:59")
	}
	gt.Value(t, kinds).Equal(map[types.ActivityKind]bool{
		types.ActivityKindCall:  true,
		types.ActivityKindEmail: true,
	})

	// filter and page toggles are local
	page := uc.History.Page(model.HistoryView{Statuses: []types.ActivityStatus{types.ActivityStatusDone}})
	gt.Value(t, page.Total).Equal(2)
	page = uc.History.Page(model.HistoryView{Kinds: []types.ActivityKind{types.ActivityKindEmail}, PageSize: 2, Page: 2})
	gt.Value(t, page.Total).Equal(3)
	gt.Array(t, page.Items).Length(1)
	gt.Value(t, page.Items[0].Title).Equal("EMAIL-2")
	gt.Value(t, svc.fetchCount()).Equal(4)

	// owner change refetches
	outcome, err = uc.History.Load(ctx, 30, types.ViewModeEmployee, "u2")
	gt.NoError(t, err).Required()
	gt.Value(t, outcome).Equal(usecase.OutcomeCommitted)
	gt.Value(t, svc.fetchCount()).Equal(6)
	gt.Value(t, svc.fetchCalls()[5].Filter.ScopeOwnerID).Equal(types.UserID("u2"))
}

func TestHistoryUseCase_PageIsNewestFirst(t *testing.T) {
	uc := newUseCases(historyService(), model.Viewer{UserID: "self", Role: types.RoleEmployee})
	_, err := uc.History.Load(context.Background(), 14, types.ViewModeOverview, "")
	gt.NoError(t, err).Required()

	page := uc.History.Page(model.HistoryView{})
	gt.Value(t, page.Total).Equal(6)
	for i := 1; i < len(page.Items); i++ {
		prev, cur := page.Items[i-1].When.Time(), page.Items[i].When.Time()
		gt.Bool(t, !prev.Before(cur)).True()
	}
}

func TestHistoryUseCase_InvalidDays(t *testing.T) {
	svc := historyService()
	uc := newUseCases(svc, model.Viewer{UserID: "self", Role: types.RoleAdmin})

	_, err := uc.History.Load(context.Background(), 10, types.ViewModeOverview, "")
	gt.Bool(t, errors.Is(err, usecase.ErrInvalidHistoryDays)).True()
	gt.Value(t, svc.fetchCount()).Equal(0)
}

func TestHistoryUseCase_RetryAfterFailure(t *testing.T) {
	fail := true
	svc := &fakeActivityService{
		fetchFn: func(ctx context.Context, kind types.ActivityKind, window model.Interval, filter model.Filter) ([]*model.Activity, error) {
			if fail {
				return nil, goerr.Wrap(activity.ErrNetworkFailure, "down")
			}
			return nil, nil
		},
	}
	uc := newUseCases(svc, model.Viewer{UserID: "self", Role: types.RoleAdmin})
	ctx := context.Background()

	outcome, err := uc.History.Load(ctx, 7, types.ViewModeOverview, "")
	gt.Value(t, outcome).Equal(usecase.OutcomeFailed)
	gt.Bool(t, errors.Is(err, activity.ErrNetworkFailure)).True()
	gt.Value(t, uc.History.Snapshot().Error).Equal("could not reach the activity service")

	fail = false
	outcome, err = uc.History.Load(ctx, 7, types.ViewModeOverview, "")
	gt.NoError(t, err).Required()
	gt.Value(t, outcome).Equal(usecase.OutcomeCommitted)
}

func TestHistoryUseCase_Refresh(t *testing.T) {
	svc := historyService()
	uc := newUseCases(svc, model.Viewer{UserID: "self", Role: types.RoleAdmin})
	ctx := context.Background()

	_, err := uc.History.Load(ctx, 7, types.ViewModeOverview, "")
	gt.NoError(t, err).Required()
	outcome, err := uc.History.Refresh(ctx, 7, types.ViewModeOverview, "")
	gt.NoError(t, err).Required()
	gt.Value(t, outcome).Equal(usecase.OutcomeCommitted)
	gt.Value(t, svc.fetchCount()).Equal(4)
}

func TestHistoryUseCase_SkipWithoutSelection(t *testing.T) {
	svc := historyService()
	uc := newUseCases(svc, model.Viewer{UserID: "self", Role: types.RoleAdmin})

	outcome, err := uc.History.Load(context.Background(), 7, types.ViewModeEmployee, "")
	gt.NoError(t, err)
	gt.Value(t, outcome).Equal(usecase.OutcomeSkipped)
	gt.Value(t, svc.fetchCount()).Equal(0)
}

func TestHistoryUseCase_RetryAfterInterruption(t *testing.T) {
	release := make(chan struct{})
	svc := &fakeActivityService{
		fetchFn: func(ctx context.Context, kind types.ActivityKind, window model.Interval, filter model.Filter) ([]*model.Activity, error) {
			select {
			case <-release:
				return []*model.Activity{item(kind.String()+"-1", kind, fixedNow.Add(-time.Hour), "retried")}, nil
			case <-ctx.Done():
				return nil, goerr.Wrap(activity.ErrCancelled, "request cancelled")
			}
		},
	}
	uc := newUseCases(svc, model.Viewer{UserID: "self", Role: types.RoleAdmin})
	ctx := context.Background()

	first := make(chan usecase.Outcome, 1)
	go func() {
		outcome, _ := uc.History.Load(ctx, 7, types.ViewModeOverview, "")
		first <- outcome
	}()
	gt.Bool(t, waitFor(func() bool { return svc.fetchCount() == 2 })).True()

	uc.Orchestrator.Cancel(types.ChannelHistory)
	gt.Value(t, <-first).Equal(usecase.OutcomeSuperseded)

	close(release)
	outcome, err := uc.History.Load(ctx, 7, types.ViewModeOverview, "")
	gt.NoError(t, err).Required()
	gt.Value(t, outcome).Equal(usecase.OutcomeCommitted)
	gt.Value(t, svc.fetchCount()).Equal(4)
	gt.Array(t, uc.History.Snapshot().Items).Length(2)
}
