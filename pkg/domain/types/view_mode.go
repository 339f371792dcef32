package types

import "fmt"

// ViewMode selects whose activities a panel shows
type ViewMode string

const (
	ViewModeOverview   ViewMode = "overview"
	ViewModeEmployee   ViewMode = "employee"
	ViewModeAssignedTo ViewMode = "assigned-to"
)

// AllViewModes returns all valid view modes
func AllViewModes() []ViewMode {
	return []ViewMode{
		ViewModeOverview,
		ViewModeEmployee,
		ViewModeAssignedTo,
	}
}

// IsValid checks if the view mode is valid
func (m ViewMode) IsValid() bool {
	switch m {
	case ViewModeOverview,
		ViewModeEmployee,
		ViewModeAssignedTo:
		return true
	default:
		return false
	}
}

// RequiresSelectedUser reports whether the mode needs a target user to fetch
func (m ViewMode) RequiresSelectedUser() bool {
	return m == ViewModeEmployee || m == ViewModeAssignedTo
}

// Channel returns the fetch channel that serves the mode's live panel
func (m ViewMode) Channel() Channel {
	switch m {
	case ViewModeEmployee:
		return ChannelEmployee
	case ViewModeAssignedTo:
		return ChannelAssignedTo
	default:
		return ChannelOverview
	}
}

// String returns the string representation of the view mode
func (m ViewMode) String() string {
	return string(m)
}

// ParseViewMode parses a string into a ViewMode
func ParseViewMode(s string) (ViewMode, error) {
	mode := ViewMode(s)
	if !mode.IsValid() {
		return "", fmt.Errorf("invalid view mode: %s", s)
	}
	return mode, nil
}
