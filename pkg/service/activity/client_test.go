package activity_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/crmdesk/agenda/pkg/domain/model"
	"github.com/crmdesk/agenda/pkg/domain/types"
	"github.com/crmdesk/agenda/pkg/service/activity"
	"github.com/m-mizutani/gt"
)

func tokyo(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Tokyo")
	gt.NoError(t, err).Required()
	return loc
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "http", url: "http://localhost:8080"},
		{name: "https with path", url: "https://crm.example.com/api/"},
		{name: "empty", url: "", wantErr: true},
		{name: "no scheme", url: "crm.example.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := activity.New(tt.url)
			if tt.wantErr {
				gt.Error(t, err)
				return
			}
			gt.NoError(t, err).Required()
			gt.Value(t, svc == nil).Equal(false)
		})
	}
}

func TestFetchActivities(t *testing.T) {
	loc := tokyo(t)
	now := time.Date(2024, 5, 15, 13, 0, 0, 0, loc)
	window, err := model.ResolveScope(types.ScopeToday, now)
	gt.NoError(t, err).Required()

	t.Run("sends local dates and filter params", func(t *testing.T) {
		var got url.Values
		var auth string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gt.Value(t, r.URL.Path).Equal("/api/activities")
			got = r.URL.Query()
			auth = r.Header.Get("Authorization")
			_, _ = w.Write([]byte(`{"items":[
				{"id":"1","kind":"CALL","when":"2024-05-15 10:00:00","status":"PENDING","assignedToUserId":"u2"},
				{"id":"2","when":"2024-05-15T01:00:00Z","status":"SENT"}
			]}`))
		}))
		defer srv.Close()

		svc, err := activity.New(srv.URL+"/api", activity.WithToken("secret"), activity.WithLocation(loc))
		gt.NoError(t, err).Required()

		items, err := svc.FetchActivities(context.Background(), types.ActivityKindCall, window, model.Filter{
			AssignedToUserID: "u2",
			CreatedByUserID:  "u1",
		})
		gt.NoError(t, err).Required()

		gt.Value(t, got.Get("kind")).Equal("CALL")
		gt.Value(t, got.Get("dateFrom")).Equal("2024-05-15 00:00:00")
		gt.Value(t, got.Get("dateTo")).Equal("2024-05-15 23:59:59")
		gt.Value(t, got.Get("assignedToUserId")).Equal("u2")
		gt.Value(t, got.Get("createdBy")).Equal("u1")
		gt.Bool(t, got.Has("userId")).False()
		gt.Value(t, auth).Equal("Bearer secret")

		gt.Array(t, items).Length(2)
		gt.Value(t, items[0].When.Time()).Equal(time.Date(2024, 5, 15, 10, 0, 0, 0, loc))
		gt.Bool(t, items[0].When.IsAbsolute()).False()
		gt.Value(t, items[1].Kind).Equal(types.ActivityKindCall)
		gt.Bool(t, items[1].When.IsAbsolute()).True()
	})

	t.Run("dates are not converted to UTC", func(t *testing.T) {
		var got url.Values
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.URL.Query()
			_, _ = w.Write([]byte(`{"items":[]}`))
		}))
		defer srv.Close()

		svc, err := activity.New(srv.URL, activity.WithLocation(loc))
		gt.NoError(t, err).Required()

		utcWindow := model.Interval{From: window.From.UTC(), To: window.To.UTC()}
		_, err = svc.FetchActivities(context.Background(), types.ActivityKindEmail, utcWindow, model.Filter{ScopeOwnerID: "u9"})
		gt.NoError(t, err).Required()
		gt.Value(t, got.Get("dateFrom")).Equal("2024-05-15 00:00:00")
		gt.Value(t, got.Get("userId")).Equal("u9")
	})

	t.Run("no token sends no authorization header", func(t *testing.T) {
		var hasAuth bool
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, hasAuth = r.Header["Authorization"]
			_, _ = w.Write([]byte(`{"items":[]}`))
		}))
		defer srv.Close()

		svc, err := activity.New(srv.URL)
		gt.NoError(t, err).Required()
		_, err = svc.FetchActivities(context.Background(), types.ActivityKindMeeting, window, model.Filter{})
		gt.NoError(t, err).Required()
		gt.Bool(t, hasAuth).False()
	})

	t.Run("http failure carries server message", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":"not allowed to view this user"}`))
		}))
		defer srv.Close()

		svc, err := activity.New(srv.URL)
		gt.NoError(t, err).Required()
		_, err = svc.FetchActivities(context.Background(), types.ActivityKindCall, window, model.Filter{})
		gt.Bool(t, errors.Is(err, activity.ErrHTTPFailure)).True()

		var httpErr *activity.HTTPError
		gt.Bool(t, errors.As(err, &httpErr)).True()
		gt.Value(t, httpErr.StatusCode).Equal(http.StatusForbidden)
		gt.Value(t, httpErr.Message).Equal("not allowed to view this user")
	})

	t.Run("http failure without body uses status text", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		svc, err := activity.New(srv.URL)
		gt.NoError(t, err).Required()
		_, err = svc.FetchActivities(context.Background(), types.ActivityKindCall, window, model.Filter{})

		var httpErr *activity.HTTPError
		gt.Bool(t, errors.As(err, &httpErr)).True()
		gt.Value(t, httpErr.Message).Equal("Bad Gateway")
	})

	t.Run("malformed body is a network failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"items":[{"id":"1","when":"soon"}]}`))
		}))
		defer srv.Close()

		svc, err := activity.New(srv.URL)
		gt.NoError(t, err).Required()
		_, err = svc.FetchActivities(context.Background(), types.ActivityKindCall, window, model.Filter{})
		gt.Bool(t, errors.Is(err, activity.ErrNetworkFailure)).True()
		gt.Bool(t, errors.Is(err, activity.ErrCancelled)).False()
	})

	t.Run("unreachable server is a network failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		addr := srv.URL
		srv.Close()

		svc, err := activity.New(addr)
		gt.NoError(t, err).Required()
		_, err = svc.FetchActivities(context.Background(), types.ActivityKindCall, window, model.Filter{})
		gt.Bool(t, errors.Is(err, activity.ErrNetworkFailure)).True()
	})

	t.Run("cancellation is distinct", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()
		defer close(release)

		svc, err := activity.New(srv.URL)
		gt.NoError(t, err).Required()

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(20 * time.Millisecond)
			cancel()
		}()

		_, err = svc.FetchActivities(ctx, types.ActivityKindCall, window, model.Filter{})
		gt.Bool(t, errors.Is(err, activity.ErrCancelled)).True()
		gt.Bool(t, errors.Is(err, activity.ErrNetworkFailure)).False()
	})
}

func TestUpdateStatus(t *testing.T) {
	t.Run("patches status", func(t *testing.T) {
		var method, path string
		var body map[string]string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			method = r.Method
			path = r.URL.Path
			gt.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		svc, err := activity.New(srv.URL)
		gt.NoError(t, err).Required()
		gt.NoError(t, svc.UpdateStatus(context.Background(), "42", types.ActivityStatusDone)).Required()

		gt.Value(t, method).Equal(http.MethodPatch)
		gt.Value(t, path).Equal("/activities/42")
		gt.Value(t, body["status"]).Equal("DONE")
	})

	t.Run("not found", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"activity not found"}`))
		}))
		defer srv.Close()

		svc, err := activity.New(srv.URL)
		gt.NoError(t, err).Required()
		err = svc.UpdateStatus(context.Background(), "42", types.ActivityStatusDone)

		var httpErr *activity.HTTPError
		gt.Bool(t, errors.As(err, &httpErr)).True()
		gt.Value(t, httpErr.Message).Equal("activity not found")
	})

	t.Run("rejects empty id", func(t *testing.T) {
		svc, err := activity.New("http://localhost")
		gt.NoError(t, err).Required()
		gt.Error(t, svc.UpdateStatus(context.Background(), "", types.ActivityStatusDone))
	})
}
