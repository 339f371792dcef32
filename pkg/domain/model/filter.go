package model

import (
	"strings"

	"github.com/crmdesk/agenda/pkg/domain/types"
)

// Viewer is the authenticated user a query is built for
type Viewer struct {
	UserID types.UserID
	Role   types.Role
}

// Filter carries the role-scoped predicates attached to every fetch. A
// filter built with NoFetch tells the orchestrator to issue no request.
type Filter struct {
	AssignedToUserID types.UserID
	CreatedByUserID  types.UserID
	ScopeOwnerID     types.UserID

	skip   bool
	reason string
}

// NoFetch returns the "do not fetch" filter
func NoFetch(reason string) Filter {
	return Filter{skip: true, reason: reason}
}

// ShouldFetch is false for NoFetch filters
func (f Filter) ShouldFetch() bool {
	return !f.skip
}

// SkipReason explains why a NoFetch filter was produced
func (f Filter) SkipReason() string {
	return f.reason
}

// Owner returns the user whose data the filter targets
func (f Filter) Owner() types.UserID {
	switch {
	case f.ScopeOwnerID != "":
		return f.ScopeOwnerID
	case f.AssignedToUserID != "":
		return f.AssignedToUserID
	default:
		return f.CreatedByUserID
	}
}

// Key is a stable string identity of the predicates
func (f Filter) Key() string {
	if f.skip {
		return "skip"
	}
	return strings.Join([]string{
		"assigned=" + f.AssignedToUserID.String(),
		"created=" + f.CreatedByUserID.String(),
		"owner=" + f.ScopeOwnerID.String(),
	}, "&")
}

// Match applies the filter to an activity as the collaborator would. The
// scope owner matches either side of the assignment.
func (f Filter) Match(a *Activity) bool {
	if f.skip {
		return false
	}
	if f.AssignedToUserID != "" && a.AssignedToUserID != f.AssignedToUserID {
		return false
	}
	if f.CreatedByUserID != "" && a.CreatedByUserID != f.CreatedByUserID {
		return false
	}
	if f.ScopeOwnerID != "" && a.AssignedToUserID != f.ScopeOwnerID && a.CreatedByUserID != f.ScopeOwnerID {
		return false
	}
	return true
}
