package types

import "fmt"

// ScopeName is a named time window relative to now
type ScopeName string

const (
	ScopeToday    ScopeName = "today"
	ScopeTomorrow ScopeName = "tomorrow"
	ScopeWeek     ScopeName = "week"
	ScopeMonth    ScopeName = "month"
)

// AllScopeNames returns all valid scope names
func AllScopeNames() []ScopeName {
	return []ScopeName{
		ScopeToday,
		ScopeTomorrow,
		ScopeWeek,
		ScopeMonth,
	}
}

// IsValid checks if the scope name is valid
func (s ScopeName) IsValid() bool {
	switch s {
	case ScopeToday,
		ScopeTomorrow,
		ScopeWeek,
		ScopeMonth:
		return true
	default:
		return false
	}
}

// String returns the string representation of the scope name
func (s ScopeName) String() string {
	return string(s)
}

// ParseScopeName parses a string into a ScopeName
func ParseScopeName(s string) (ScopeName, error) {
	name := ScopeName(s)
	if !name.IsValid() {
		return "", fmt.Errorf("invalid scope name: %s", s)
	}
	return name, nil
}

// HistoryDays are the rolling window sizes offered by the history view
var HistoryDays = []int{7, 14, 30, 90}

// IsValidHistoryDays checks if days is one of HistoryDays
func IsValidHistoryDays(days int) bool {
	for _, d := range HistoryDays {
		if d == days {
			return true
		}
	}
	return false
}
