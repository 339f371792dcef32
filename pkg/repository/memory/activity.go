package memory

import (
	"context"
	"sync"

	"github.com/crmdesk/agenda/pkg/domain/interfaces"
	"github.com/crmdesk/agenda/pkg/domain/model"
	"github.com/crmdesk/agenda/pkg/domain/types"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

type activityRepository struct {
	mu         sync.RWMutex
	activities map[types.ActivityID]*model.Activity
}

func newActivityRepository() *activityRepository {
	return &activityRepository{
		activities: make(map[types.ActivityID]*model.Activity),
	}
}

func (r *activityRepository) Put(ctx context.Context, activity *model.Activity) (*model.Activity, error) {
	created := activity.Copy()
	if created.ID == "" {
		created.ID = types.ActivityID(uuid.NewString())
	}
	if err := created.Validate(); err != nil {
		return nil, goerr.Wrap(err, "failed to put activity")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.activities[created.ID] = created
	return created.Copy(), nil
}

func (r *activityRepository) Get(ctx context.Context, id types.ActivityID) (*model.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, exists := r.activities[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "activity not found", goerr.V("id", id))
	}

	return a.Copy(), nil
}

func (r *activityRepository) List(ctx context.Context, q interfaces.ActivityQuery) ([]*model.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	activities := make([]*model.Activity, 0)
	for _, a := range r.activities {
		if q.Match(a) {
			activities = append(activities, a.Copy())
		}
	}

	model.SortByWhen(activities, false)
	return activities, nil
}

func (r *activityRepository) UpdateStatus(ctx context.Context, id types.ActivityID, status types.ActivityStatus) (*model.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, exists := r.activities[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "activity not found", goerr.V("id", id))
	}
	if !status.ValidFor(a.Kind) {
		return nil, goerr.Wrap(model.ErrInvalidActivity, "status does not belong to kind",
			goerr.V("id", id), goerr.V("kind", a.Kind), goerr.V("status", status))
	}

	updated := a.Copy()
	updated.Status = status
	r.activities[id] = updated
	return updated.Copy(), nil
}
