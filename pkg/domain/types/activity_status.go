package types

import "fmt"

// ActivityStatus is the lifecycle state of a reminder or a meeting. The
// valid set depends on the activity kind.
type ActivityStatus string

const (
	// Reminder statuses
	ActivityStatusPending ActivityStatus = "PENDING"
	ActivityStatusSent    ActivityStatus = "SENT"
	ActivityStatusDone    ActivityStatus = "DONE"
	ActivityStatusFailed  ActivityStatus = "FAILED"

	// Meeting statuses
	ActivityStatusScheduled   ActivityStatus = "SCHEDULED"
	ActivityStatusCompleted   ActivityStatus = "COMPLETED"
	ActivityStatusCancelled   ActivityStatus = "CANCELLED"
	ActivityStatusNoShow      ActivityStatus = "NO_SHOW"
	ActivityStatusRescheduled ActivityStatus = "RESCHEDULED"
)

// ReminderStatuses returns the statuses a CALL or EMAIL reminder can take
func ReminderStatuses() []ActivityStatus {
	return []ActivityStatus{
		ActivityStatusPending,
		ActivityStatusSent,
		ActivityStatusDone,
		ActivityStatusFailed,
	}
}

// MeetingStatuses returns the statuses a meeting can take
func MeetingStatuses() []ActivityStatus {
	return []ActivityStatus{
		ActivityStatusScheduled,
		ActivityStatusCompleted,
		ActivityStatusCancelled,
		ActivityStatusNoShow,
		ActivityStatusRescheduled,
	}
}

// StatusesFor returns the statuses valid for the given kind
func StatusesFor(kind ActivityKind) []ActivityStatus {
	switch {
	case kind == ActivityKindMeeting:
		return MeetingStatuses()
	case kind.IsReminder():
		return ReminderStatuses()
	default:
		return nil
	}
}

// IsValid checks if the status belongs to any kind
func (s ActivityStatus) IsValid() bool {
	switch s {
	case ActivityStatusPending,
		ActivityStatusSent,
		ActivityStatusDone,
		ActivityStatusFailed,
		ActivityStatusScheduled,
		ActivityStatusCompleted,
		ActivityStatusCancelled,
		ActivityStatusNoShow,
		ActivityStatusRescheduled:
		return true
	default:
		return false
	}
}

// ValidFor checks if the status may be carried by an activity of the given kind
func (s ActivityStatus) ValidFor(kind ActivityKind) bool {
	for _, v := range StatusesFor(kind) {
		if v == s {
			return true
		}
	}
	return false
}

// IsOpen reports whether the activity still awaits action
func (s ActivityStatus) IsOpen() bool {
	switch s {
	case ActivityStatusPending,
		ActivityStatusScheduled,
		ActivityStatusRescheduled:
		return true
	default:
		return false
	}
}

// CanTransition reports whether an activity of kind in status s can move to
// next. A rescheduled meeting may be rescheduled again.
func (s ActivityStatus) CanTransition(kind ActivityKind, next ActivityStatus) bool {
	if !s.ValidFor(kind) || !next.ValidFor(kind) {
		return false
	}

	switch s {
	case ActivityStatusPending:
		return next == ActivityStatusSent || next == ActivityStatusDone || next == ActivityStatusFailed
	case ActivityStatusSent:
		return next == ActivityStatusDone || next == ActivityStatusFailed
	case ActivityStatusFailed:
		return next == ActivityStatusPending
	case ActivityStatusScheduled, ActivityStatusRescheduled:
		return next != ActivityStatusScheduled
	default:
		return false
	}
}

// String returns the string representation of the activity status
func (s ActivityStatus) String() string {
	return string(s)
}

// ParseActivityStatus parses a string into an ActivityStatus
func ParseActivityStatus(s string) (ActivityStatus, error) {
	status := ActivityStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid activity status: %s", s)
	}
	return status, nil
}
