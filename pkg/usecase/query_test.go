package usecase_test

import (
	"testing"

	"github.com/crmdesk/agenda/pkg/domain/model"
	"github.com/crmdesk/agenda/pkg/domain/types"
	"github.com/crmdesk/agenda/pkg/usecase"
	"github.com/m-mizutani/gt"
)

func TestBuildFilter(t *testing.T) {
	admin := model.Viewer{UserID: "self", Role: types.RoleAdmin}
	owner := model.Viewer{UserID: "self", Role: types.RoleOwner}
	employee := model.Viewer{UserID: "self", Role: types.RoleEmployee}
	manager := model.Viewer{UserID: "self", Role: types.RoleManager}

	tests := []struct {
		name       string
		viewer     model.Viewer
		mode       types.ViewMode
		selected   types.UserID
		want       model.Filter
		wantReason string
	}{
		{
			name:   "overview for employee is assignment scoped",
			viewer: employee,
			mode:   types.ViewModeOverview,
			want:   model.Filter{AssignedToUserID: "self"},
		},
		{
			name:   "overview for manager is assignment scoped",
			viewer: manager,
			mode:   types.ViewModeOverview,
			want:   model.Filter{AssignedToUserID: "self"},
		},
		{
			name:   "overview for admin is owner scoped",
			viewer: admin,
			mode:   types.ViewModeOverview,
			want:   model.Filter{ScopeOwnerID: "self"},
		},
		{
			name:     "overview ignores selected user",
			viewer:   owner,
			mode:     types.ViewModeOverview,
			selected: "u2",
			want:     model.Filter{ScopeOwnerID: "self"},
		},
		{
			name:     "employee view targets selected user",
			viewer:   owner,
			mode:     types.ViewModeEmployee,
			selected: "u2",
			want:     model.Filter{ScopeOwnerID: "u2"},
		},
		{
			name:       "employee view without selection",
			viewer:     admin,
			mode:       types.ViewModeEmployee,
			wantReason: usecase.ReasonNoSelectedUser,
		},
		{
			name:       "employee view for non privileged role",
			viewer:     employee,
			mode:       types.ViewModeEmployee,
			selected:   "u2",
			wantReason: usecase.ReasonNotPrivileged,
		},
		{
			name:     "assigned-to intersects author and assignee",
			viewer:   employee,
			mode:     types.ViewModeAssignedTo,
			selected: "u2",
			want:     model.Filter{CreatedByUserID: "self", AssignedToUserID: "u2"},
		},
		{
			name:       "assigned-to without selection",
			viewer:     admin,
			mode:       types.ViewModeAssignedTo,
			selected:   "",
			wantReason: usecase.ReasonNoSelectedUser,
		},
		{
			name:       "no viewer",
			viewer:     model.Viewer{Role: types.RoleAdmin},
			mode:       types.ViewModeOverview,
			wantReason: usecase.ReasonNoViewer,
		},
		{
			name:       "unknown mode",
			viewer:     admin,
			mode:       types.ViewMode("team"),
			wantReason: usecase.ReasonUnknownMode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := usecase.BuildFilter(tt.viewer, tt.mode, tt.selected)
			if tt.wantReason != "" {
				gt.Bool(t, got.ShouldFetch()).False()
				gt.Value(t, got.SkipReason()).Equal(tt.wantReason)
				return
			}
			gt.Bool(t, got.ShouldFetch()).True()
			gt.Value(t, got).Equal(tt.want)
		})
	}
}
