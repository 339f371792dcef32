package usecase

import (
	"github.com/crmdesk/agenda/pkg/domain/model"
	"github.com/crmdesk/agenda/pkg/domain/types"
)

// Reasons attached to NoFetch filters
const (
	ReasonNoSelectedUser = "no user selected"
	ReasonNotPrivileged  = "employee view requires owner or admin role"
	ReasonNoViewer       = "viewer is not signed in"
	ReasonUnknownMode    = "unknown view mode"
)

// BuildFilter derives the predicates a panel attaches to its fetches.
//
//   - overview: privileged roles scope by owner (userId=self), others by
//     assignment (assignedToUserId=self)
//   - employee: privileged only, scope owner is the selected user
//   - assigned-to: createdBy=self AND assignedToUserId=selected
//
// Views that cannot be served return model.NoFetch.
func BuildFilter(viewer model.Viewer, mode types.ViewMode, selected types.UserID) model.Filter {
	if viewer.UserID.IsEmpty() {
		return model.NoFetch(ReasonNoViewer)
	}

	switch mode {
	case types.ViewModeOverview:
		if viewer.Role.IsPrivileged() {
			return model.Filter{ScopeOwnerID: viewer.UserID}
		}
		return model.Filter{AssignedToUserID: viewer.UserID}

	case types.ViewModeEmployee:
		if !viewer.Role.IsPrivileged() {
			return model.NoFetch(ReasonNotPrivileged)
		}
		if selected.IsEmpty() {
			return model.NoFetch(ReasonNoSelectedUser)
		}
		return model.Filter{ScopeOwnerID: selected}

	case types.ViewModeAssignedTo:
		if selected.IsEmpty() {
			return model.NoFetch(ReasonNoSelectedUser)
		}
		return model.Filter{
			CreatedByUserID:  viewer.UserID,
			AssignedToUserID: selected,
		}

	default:
		return model.NoFetch(ReasonUnknownMode)
	}
}
