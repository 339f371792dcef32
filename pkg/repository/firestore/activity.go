package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/crmdesk/agenda/pkg/domain/interfaces"
	"github.com/crmdesk/agenda/pkg/domain/model"
	"github.com/crmdesk/agenda/pkg/domain/types"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type activityRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newActivityRepository(client *firestore.Client) *activityRepository {
	return &activityRepository{
		client:           client,
		collectionPrefix: "",
	}
}

// ActivityCollection returns the collection name activities are stored in
func ActivityCollection(prefix string) string {
	if prefix != "" {
		return prefix + "_activities"
	}
	return "activities"
}

func (r *activityRepository) activitiesCollection() string {
	return ActivityCollection(r.collectionPrefix)
}

// activityDoc is the stored form of model.Activity
type activityDoc struct {
	ID               string    `firestore:"id"`
	Kind             string    `firestore:"kind"`
	When             time.Time `firestore:"when"`
	Absolute         bool      `firestore:"absolute"`
	Status           string    `firestore:"status"`
	AssignedToUserID string    `firestore:"assigned_to_user_id"`
	Assignee         string    `firestore:"assignee"`
	CreatedByUserID  string    `firestore:"created_by_user_id"`
	CreatedBy        string    `firestore:"created_by"`
	OpportunityID    string    `firestore:"opportunity_id"`
	ClientName       string    `firestore:"client_name"`
	Title            string    `firestore:"title"`
	Notes            string    `firestore:"notes"`
}

func toDoc(a *model.Activity) *activityDoc {
	return &activityDoc{
		ID:               a.ID.String(),
		Kind:             a.Kind.String(),
		When:             a.When.Time(),
		Absolute:         a.When.IsAbsolute(),
		Status:           a.Status.String(),
		AssignedToUserID: a.AssignedToUserID.String(),
		Assignee:         a.Assignee,
		CreatedByUserID:  a.CreatedByUserID.String(),
		CreatedBy:        a.CreatedBy,
		OpportunityID:    a.OpportunityID,
		ClientName:       a.ClientName,
		Title:            a.Title,
		Notes:            a.Notes,
	}
}

func (d *activityDoc) toModel() *model.Activity {
	when := model.Local(d.When.In(time.Local))
	if d.Absolute {
		when = model.Absolute(d.When)
	}
	return &model.Activity{
		ID:               types.ActivityID(d.ID),
		Kind:             types.ActivityKind(d.Kind),
		When:             when,
		Status:           types.ActivityStatus(d.Status),
		AssignedToUserID: types.UserID(d.AssignedToUserID),
		Assignee:         d.Assignee,
		CreatedByUserID:  types.UserID(d.CreatedByUserID),
		CreatedBy:        d.CreatedBy,
		OpportunityID:    d.OpportunityID,
		ClientName:       d.ClientName,
		Title:            d.Title,
		Notes:            d.Notes,
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

	_, err := r.client.Collection(r.activitiesCollection()).Doc(created.ID.String()).Set(ctx, toDoc(created))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to put activity", goerr.V("id", created.ID))
	}

	return created, nil
}

func (r *activityRepository) Get(ctx context.Context, id types.ActivityID) (*model.Activity, error) {
	docSnap, err := r.client.Collection(r.activitiesCollection()).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "activity not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get activity", goerr.V("id", id))
	}

	var d activityDoc
	if err := docSnap.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to decode activity", goerr.V("id", id))
	}

	return d.toModel(), nil
}

// List queries by kind and time range; the role filter is applied in memory.
// The query needs the (kind, when) composite index created by migrate.
func (r *activityRepository) List(ctx context.Context, q interfaces.ActivityQuery) ([]*model.Activity, error) {
	query := r.client.Collection(r.activitiesCollection()).Query
	if q.Kind != "" {
		query = query.Where("kind", "==", q.Kind.String())
	}
	if !q.Window.From.IsZero() {
		query = query.Where("when", ">=", q.Window.From).Where("when", "<=", q.Window.To)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	activities := make([]*model.Activity, 0)
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate activities")
		}

		var d activityDoc
		if err := docSnap.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to decode activity", goerr.V("doc_id", docSnap.Ref.ID))
		}

		a := d.toModel()
		if q.Match(a) {
			activities = append(activities, a)
		}
	}

	model.SortByWhen(activities, false)
	return activities, nil
}

func (r *activityRepository) UpdateStatus(ctx context.Context, id types.ActivityID, newStatus types.ActivityStatus) (*model.Activity, error) {
	ref := r.client.Collection(r.activitiesCollection()).Doc(id.String())

	var updated *model.Activity
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docSnap, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(ErrNotFound, "activity not found", goerr.V("id", id))
			}
			return goerr.Wrap(err, "failed to get activity", goerr.V("id", id))
		}

		var d activityDoc
		if err := docSnap.DataTo(&d); err != nil {
			return goerr.Wrap(err, "failed to decode activity", goerr.V("id", id))
		}

		a := d.toModel()
		if !newStatus.ValidFor(a.Kind) {
			return goerr.Wrap(model.ErrInvalidActivity, "status does not belong to kind",
				goerr.V("id", id), goerr.V("kind", a.Kind), goerr.V("status", newStatus))
		}
		a.Status = newStatus
		updated = a

		return tx.Update(ref, []firestore.Update{
			{Path: "status", Value: newStatus.String()},
		})
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}
