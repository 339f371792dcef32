package activity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/crmdesk/agenda/pkg/domain/model"
	"github.com/crmdesk/agenda/pkg/domain/types"
	"github.com/crmdesk/agenda/pkg/utils/logging"
	"github.com/crmdesk/agenda/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
)

const (
	// DefaultTimeout bounds a single request
	DefaultTimeout = 15 * time.Second

	maxErrorBody = 64 * 1024
)

// client implements Service interface
type client struct {
	baseURL    *url.URL
	token      string
	httpClient *http.Client
	location   *time.Location
}

// Option is a functional option for client configuration
type Option func(*client)

// WithToken attaches a bearer token to every request. An empty token sends
// unauthenticated requests.
func WithToken(token string) Option {
	return func(c *client) {
		c.token = token
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client
func WithTimeout(d time.Duration) Option {
	return func(c *client) {
		c.httpClient = &http.Client{Timeout: d}
	}
}

// WithLocation sets the location zone-less dates are formatted in. Defaults
// to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(c *client) {
		c.location = loc
	}
}

// New creates an activity service for the collaborator at baseURL
func New(baseURL string, opts ...Option) (Service, error) {
	if baseURL == "" {
		return nil, goerr.New("activity API base URL is required")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid activity API base URL", goerr.V("url", baseURL))
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, goerr.New("activity API base URL must be http or https", goerr.V("url", baseURL))
	}
	u.Path = strings.TrimSuffix(u.Path, "/")

	c := &client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		location:   time.Local,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// FetchActivities implements Service
func (c *client) FetchActivities(ctx context.Context, kind types.ActivityKind, window model.Interval, filter model.Filter) ([]*model.Activity, error) {
	q := url.Values{}
	q.Set("kind", kind.String())
	q.Set("dateFrom", window.From.In(c.location).Format(model.LocalTimeLayout))
	q.Set("dateTo", window.To.In(c.location).Format(model.LocalTimeLayout))
	if filter.AssignedToUserID != "" {
		q.Set("assignedToUserId", filter.AssignedToUserID.String())
	}
	if filter.CreatedByUserID != "" {
		q.Set("createdBy", filter.CreatedByUserID.String())
	}
	if filter.ScopeOwnerID != "" {
		q.Set("userId", filter.ScopeOwnerID.String())
	}

	endpoint := c.endpoint("activities")
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, goerr.Wrap(ErrNetworkFailure, "failed to build request", goerr.V("cause", err.Error()))
	}

	var resp listResponse
	if err := c.do(ctx, req, &resp); err != nil {
		return nil, goerr.Wrap(err, "failed to fetch activities",
			goerr.V("kind", kind), goerr.V("from", window.FromString()), goerr.V("to", window.ToString()))
	}

	items := make([]*model.Activity, 0, len(resp.Items))
	for _, a := range resp.Items {
		if a == nil {
			continue
		}
		if a.Kind == "" {
			a.Kind = kind
		}
		a.When = a.When.AssumeLocation(c.location)
		items = append(items, a)
	}

	logging.From(ctx).Debug("fetched activities",
		slog.String("kind", kind.String()),
		slog.String("window", window.String()),
		slog.Int("count", len(items)),
	)
	return items, nil
}

// UpdateStatus implements Service
func (c *client) UpdateStatus(ctx context.Context, id types.ActivityID, status types.ActivityStatus) error {
	if err := id.Validate(); err != nil {
		return err
	}

	body, err := json.Marshal(updateRequest{Status: status})
	if err != nil {
		return goerr.Wrap(err, "failed to encode status update")
	}

	endpoint := c.endpoint("activities", id.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return goerr.Wrap(ErrNetworkFailure, "failed to build request", goerr.V("cause", err.Error()))
	}
	req.Header.Set("Content-Type", "application/json")

	if err := c.do(ctx, req, nil); err != nil {
		return goerr.Wrap(err, "failed to update activity status", goerr.V("id", id), goerr.V("status", status))
	}
	return nil
}

func (c *client) endpoint(segments ...string) *url.URL {
	u := *c.baseURL
	for _, s := range segments {
		u = *u.JoinPath(s)
	}
	return &u
}

// do sends req and decodes a 2xx body into out when out is not nil
func (c *client) do(ctx context.Context, req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isCancelled(ctx, err) {
			return goerr.Wrap(ErrCancelled, "request cancelled")
		}
		return goerr.Wrap(ErrNetworkFailure, "request failed", goerr.V("cause", err.Error()))
	}
	defer safe.CloseBody(ctx, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPError{
			StatusCode: resp.StatusCode,
			Message:    readErrorMessage(resp),
		}
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if isCancelled(ctx, err) {
			return goerr.Wrap(ErrCancelled, "request cancelled while reading body")
		}
		return goerr.Wrap(ErrNetworkFailure, "failed to decode response", goerr.V("cause", err.Error()))
	}
	return nil
}

func isCancelled(ctx context.Context, err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled)
}

func readErrorMessage(resp *http.Response) string {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err == nil && len(raw) > 0 {
		var body errorResponse
		if json.Unmarshal(raw, &body) == nil {
			if body.Error != "" {
				return body.Error
			}
			if body.Message != "" {
				return body.Message
			}
		}
	}
	return http.StatusText(resp.StatusCode)
}
