package model

import (
	"time"

	"github.com/crmdesk/agenda/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

var ErrInvalidActivity = goerr.New("invalid activity")

// Activity is the shape shared by reminders (CALL, EMAIL) and meetings.
// Activities are only ever built from fetch results.
type Activity struct {
	ID               types.ActivityID     `json:"id"`
	Kind             types.ActivityKind   `json:"kind"`
	When             Timestamp            `json:"when"`
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

// ActivityKey identifies an activity across kinds
type ActivityKey struct {
	Kind types.ActivityKind
	ID   types.ActivityID
}

// Key returns the merge identity of the activity
func (a *Activity) Key() ActivityKey {
	return ActivityKey{Kind: a.Kind, ID: a.ID}
}

// Validate checks required fields and the kind/status pairing
func (a *Activity) Validate() error {
	if err := a.ID.Validate(); err != nil {
		return goerr.Wrap(ErrInvalidActivity, "bad id", goerr.V("cause", err.Error()))
	}
	if !a.Kind.IsValid() {
		return goerr.Wrap(ErrInvalidActivity, "unknown kind", goerr.V("id", a.ID), goerr.V("kind", a.Kind))
	}
	if !a.Status.ValidFor(a.Kind) {
		return goerr.Wrap(ErrInvalidActivity, "status does not belong to kind",
			goerr.V("id", a.ID), goerr.V("kind", a.Kind), goerr.V("status", a.Status))
	}
	if a.When.IsZero() {
		return goerr.Wrap(ErrInvalidActivity, "missing time", goerr.V("id", a.ID))
	}
	return nil
}

// Relative describes the activity time against now
func (a *Activity) Relative(now time.Time) Relative {
	return Describe(a.When.Time(), now)
}

// Copy returns a shallow copy; Activity holds no reference fields
func (a *Activity) Copy() *Activity {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}
