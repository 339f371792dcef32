package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// Input errors
	ErrInvalidHistoryDays = errors.New("history window must be 7, 14, 30 or 90 days")
	ErrInvalidTransition  = errors.New("status transition not allowed for this activity")
	ErrEmptyView          = errors.New("view requests no scope or kind")

	// Notification errors
	ErrNotifierNotConfigured = errors.New("notifier is not configured")
)

// Context keys for error values
const (
	ChannelKey    = "channel"
	ActivityIDKey = "activity_id"
	StatusKey     = "status"
	DaysKey       = "days"
)
