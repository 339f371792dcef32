package types

import "fmt"

// ActivityKind discriminates reminders (CALL, EMAIL) from meetings.
type ActivityKind string

const (
	ActivityKindCall    ActivityKind = "CALL"
	ActivityKindEmail   ActivityKind = "EMAIL"
	ActivityKindMeeting ActivityKind = "MEETING"
)

// AllActivityKinds returns all valid activity kinds
func AllActivityKinds() []ActivityKind {
	return []ActivityKind{
		ActivityKindCall,
		ActivityKindEmail,
		ActivityKindMeeting,
	}
}

// ReminderKinds returns the kinds backed by the reminder entity
func ReminderKinds() []ActivityKind {
	return []ActivityKind{
		ActivityKindCall,
		ActivityKindEmail,
	}
}

// IsValid checks if the activity kind is valid
func (k ActivityKind) IsValid() bool {
	switch k {
	case ActivityKindCall,
		ActivityKindEmail,
		ActivityKindMeeting:
		return true
	default:
		return false
	}
}

// IsReminder reports whether the kind is a CALL or EMAIL reminder
func (k ActivityKind) IsReminder() bool {
	return k == ActivityKindCall || k == ActivityKindEmail
}

// String returns the string representation of the activity kind
func (k ActivityKind) String() string {
	return string(k)
}

// ParseActivityKind parses a string into an ActivityKind
func ParseActivityKind(s string) (ActivityKind, error) {
	kind := ActivityKind(s)
	if !kind.IsValid() {
		return "", fmt.Errorf("invalid activity kind: %s", s)
	}
	return kind, nil
}
