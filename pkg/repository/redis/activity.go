package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/crmdesk/agenda/pkg/domain/interfaces"
	"github.com/crmdesk/agenda/pkg/domain/model"
	"github.com/crmdesk/agenda/pkg/domain/types"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/redis/go-redis/v9"
)

// Activities are stored as JSON strings under <prefix>activity:<id>. A
// sorted set per kind, scored by unix nanoseconds, indexes them by time.
type activityRepository struct {
	client *redis.Client
	prefix string
}

func newActivityRepository(client *redis.Client) *activityRepository {
	return &activityRepository{
		client: client,
		prefix: defaultKeyPrefix,
	}
}

func (r *activityRepository) activityKey(id types.ActivityID) string {
	return r.prefix + "activity:" + id.String()
}

func (r *activityRepository) indexKey(kind types.ActivityKind) string {
	return r.prefix + "when:" + kind.String()
}

// record keeps the instant of When with full precision; the JSON form of
// model.Timestamp drops the zone of local values
type record struct {
	ID               types.ActivityID     `json:"id"`
	Kind             types.ActivityKind   `json:"kind"`
	When             time.Time            `json:"when"`
	Absolute         bool                 `json:"absolute,omitempty"`
	Status           types.ActivityStatus `json:"status"`
	AssignedToUserID types.UserID         `json:"assignedToUserId,omitempty"`
	Assignee         string               `json:"assignee,omitempty"`
	CreatedByUserID  types.UserID         `json:"createdByUserId,omitempty"`
	CreatedBy        string               `json:"createdBy,omitempty"`
	OpportunityID    string               `json:"opportunityId,omitempty"`
	ClientName       string               `json:"clientName,omitempty"`
	Title            string               `json:"title,omitempty"`
	Notes            string               `json:"notes,omitempty"`
}

func toRecord(a *model.Activity) *record {
	return &record{
		ID:               a.ID,
		Kind:             a.Kind,
		When:             a.When.Time(),
		Absolute:         a.When.IsAbsolute(),
		Status:           a.Status,
		AssignedToUserID: a.AssignedToUserID,
		Assignee:         a.Assignee,
		CreatedByUserID:  a.CreatedByUserID,
		CreatedBy:        a.CreatedBy,
		OpportunityID:    a.OpportunityID,
		ClientName:       a.ClientName,
		Title:            a.Title,
		Notes:            a.Notes,
	}
}

func (rec *record) toActivity() *model.Activity {
	when := model.Local(rec.When.In(time.Local))
	if rec.Absolute {
		when = model.Absolute(rec.When)
	}
	return &model.Activity{
		ID:               rec.ID,
		Kind:             rec.Kind,
		When:             when,
		Status:           rec.Status,
		AssignedToUserID: rec.AssignedToUserID,
		Assignee:         rec.Assignee,
		CreatedByUserID:  rec.CreatedByUserID,
		CreatedBy:        rec.CreatedBy,
		OpportunityID:    rec.OpportunityID,
		ClientName:       rec.ClientName,
		Title:            rec.Title,
		Notes:            rec.Notes,
	}
}

func decode(raw []byte) (*model.Activity, error) {
	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	return rec.toActivity(), nil
}

func score(a *model.Activity) float64 {
	return float64(a.When.Time().UnixNano())
}

func (r *activityRepository) Put(ctx context.Context, activity *model.Activity) (*model.Activity, error) {
	created := activity.Copy()
	if created.ID == "" {
		created.ID = types.ActivityID(uuid.NewString())
	}
	if err := created.Validate(); err != nil {
		return nil, goerr.Wrap(err, "failed to put activity")
	}

	// drop the index entry of a previous version stored under another kind
	if prev, err := r.Get(ctx, created.ID); err == nil && prev.Kind != created.Kind {
		if err := r.client.ZRem(ctx, r.indexKey(prev.Kind), created.ID.String()).Err(); err != nil {
			return nil, goerr.Wrap(err, "failed to unindex activity", goerr.V("id", created.ID))
		}
	}

	if err := r.save(ctx, created); err != nil {
		return nil, err
	}
	return created, nil
}

func (r *activityRepository) save(ctx context.Context, a *model.Activity) error {
	raw, err := json.Marshal(toRecord(a))
	if err != nil {
		return goerr.Wrap(err, "failed to marshal activity", goerr.V("id", a.ID))
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.activityKey(a.ID), raw, 0)
		pipe.ZAdd(ctx, r.indexKey(a.Kind), redis.Z{Score: score(a), Member: a.ID.String()})
		return nil
	})
	if err != nil {
		return goerr.Wrap(err, "failed to save activity", goerr.V("id", a.ID))
	}
	return nil
}

func (r *activityRepository) Get(ctx context.Context, id types.ActivityID) (*model.Activity, error) {
	raw, err := r.client.Get(ctx, r.activityKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, goerr.Wrap(ErrNotFound, "activity not found", goerr.V("id", id))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get activity", goerr.V("id", id))
	}

	a, err := decode(raw)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to decode activity", goerr.V("id", id))
	}
	return a, nil
}

func (r *activityRepository) List(ctx context.Context, q interfaces.ActivityQuery) ([]*model.Activity, error) {
	kinds := []types.ActivityKind{q.Kind}
	if q.Kind == "" {
		kinds = types.AllActivityKinds()
	}

	rng := &redis.ZRangeBy{Min: "-inf", Max: "+inf"}
	if !q.Window.From.IsZero() {
		rng.Min = strconv.FormatInt(q.Window.From.UnixNano(), 10)
		rng.Max = strconv.FormatInt(q.Window.To.UnixNano(), 10)
	}

	activities := make([]*model.Activity, 0)
	for _, kind := range kinds {
		ids, err := r.client.ZRangeByScore(ctx, r.indexKey(kind), rng).Result()
		if err != nil {
			return nil, goerr.Wrap(err, "failed to query activity index", goerr.V("kind", kind))
		}
		if len(ids) == 0 {
			continue
		}

		keys := make([]string, len(ids))
		for i, id := range ids {
			keys[i] = r.activityKey(types.ActivityID(id))
		}
		values, err := r.client.MGet(ctx, keys...).Result()
		if err != nil {
			return nil, goerr.Wrap(err, "failed to load activities", goerr.V("kind", kind))
		}

		for i, v := range values {
			s, ok := v.(string)
			if !ok {
				// index entry without a record
				continue
			}
			a, err := decode([]byte(s))
			if err != nil {
				return nil, goerr.Wrap(err, "failed to decode activity", goerr.V("id", ids[i]))
			}
			if q.Match(a) {
				activities = append(activities, a)
			}
		}
	}

	model.SortByWhen(activities, false)
	return activities, nil
}

func (r *activityRepository) UpdateStatus(ctx context.Context, id types.ActivityID, status types.ActivityStatus) (*model.Activity, error) {
	a, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !status.ValidFor(a.Kind) {
		return nil, goerr.Wrap(model.ErrInvalidActivity, "status does not belong to kind",
			goerr.V("id", id), goerr.V("kind", a.Kind), goerr.V("status", status))
	}

	a.Status = status
	if err := r.save(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

