package types

import (
	"github.com/m-mizutani/goerr/v2"
)

// ActivityID identifies an activity. It is unique only within its kind.
type ActivityID string

// Validate checks if the ActivityID is usable in a request path
func (id ActivityID) Validate() error {
	if id == "" {
		return goerr.New("activity ID cannot be empty")
	}
	for _, r := range id {
		if r == '/' || r == '?' || r == '#' {
			return goerr.New("activity ID contains a reserved character", goerr.V("id", id))
		}
	}
	return nil
}

// String returns the string representation of ActivityID
func (id ActivityID) String() string {
	return string(id)
}

// UserID identifies a CRM user
type UserID string

// String returns the string representation of UserID
func (id UserID) String() string {
	return string(id)
}

// IsEmpty reports whether no user is set
func (id UserID) IsEmpty() bool {
	return id == ""
}
