package activity

import (
	"context"
	"fmt"

	"github.com/crmdesk/agenda/pkg/domain/model"
	"github.com/crmdesk/agenda/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Service talks to the collaborator's activity API
type Service interface {
	// FetchActivities lists activities of one kind inside window that match filter.
	// A canceled ctx yields ErrCancelled.
	FetchActivities(ctx context.Context, kind types.ActivityKind, window model.Interval, filter model.Filter) ([]*model.Activity, error)

	// UpdateStatus transitions one activity
	UpdateStatus(ctx context.Context, id types.ActivityID, status types.ActivityStatus) error
}

var (
	// ErrCancelled means the request was abandoned by its caller. It is
	// expected and must not be reported.
	ErrCancelled = goerr.New("activity request cancelled")

	// ErrNetworkFailure covers transport and decode failures
	ErrNetworkFailure = goerr.New("activity request network failure")

	// ErrHTTPFailure covers non-2xx responses; see HTTPError for details
	ErrHTTPFailure = goerr.New("activity request http failure")
)

// HTTPError carries a non-2xx response. It unwraps to ErrHTTPFailure.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Message)
}

func (e *HTTPError) Unwrap() error {
	return ErrHTTPFailure
}

// listResponse is the body of GET /activities
type listResponse struct {
	Items []*model.Activity `json:"items"`
}

// updateRequest is the body of PATCH /activities/{id}
type updateRequest struct {
	Status types.ActivityStatus `json:"status"`
}

// errorResponse is the error body shape returned by the collaborator
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
