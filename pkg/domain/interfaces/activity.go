package interfaces

import (
	"context"

	"github.com/crmdesk/agenda/pkg/domain/model"
	"github.com/crmdesk/agenda/pkg/domain/types"
)

// ActivityQuery selects activities of one kind whose time falls inside
// Window (bounds included) and that match Filter. A zero Window or Kind
// matches everything.
type ActivityQuery struct {
	Kind   types.ActivityKind
	Window model.Interval
	Filter model.Filter
}

// Match reports whether a satisfies the query
func (q ActivityQuery) Match(a *model.Activity) bool {
	if q.Kind != "" && a.Kind != q.Kind {
		return false
	}
	if !q.Window.From.IsZero() && !q.Window.Contains(a.When.Time()) {
		return false
	}
	return q.Filter.Match(a)
}

// ActivityRepository stores activities. IDs are unique across kinds.
type ActivityRepository interface {
	// Put creates or replaces an activity. An empty ID is assigned a new UUID.
	Put(ctx context.Context, activity *model.Activity) (*model.Activity, error)

	// Get returns the activity with id or an error wrapping ErrNotFound
	Get(ctx context.Context, id types.ActivityID) (*model.Activity, error)

	// List returns activities matching q ordered by time
	List(ctx context.Context, q ActivityQuery) ([]*model.Activity, error)

	// UpdateStatus sets the status of the activity with id
	UpdateStatus(ctx context.Context, id types.ActivityID, status types.ActivityStatus) (*model.Activity, error)
}
