package cli_test

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/crmdesk/agenda/pkg/cli"
	httpctrl "github.com/crmdesk/agenda/pkg/controller/http"
	"github.com/crmdesk/agenda/pkg/domain/model"
	"github.com/crmdesk/agenda/pkg/domain/types"
	"github.com/crmdesk/agenda/pkg/repository/memory"
	"github.com/m-mizutani/gt"
)

func newAPI(t *testing.T) string {
	t.Helper()
	repo := memory.New()
	now := time.Now().UTC()
	for _, a := range []*model.Activity{
		{Kind: types.ActivityKindCall, When: model.Local(now.Add(time.Hour)), Status: types.ActivityStatusPending, AssignedToUserID: "u1", CreatedByUserID: "u1", Title: "call"},
		{Kind: types.ActivityKindEmail, When: model.Local(now.Add(-2 * time.Hour)), Status: types.ActivityStatusSent, AssignedToUserID: "u1", CreatedByUserID: "u2", Title: "mail"},
	} {
		_, err := repo.Activity().Put(context.Background(), a)
		gt.NoError(t, err).Required()
	}

	srv := httptest.NewServer(httpctrl.New(repo, httpctrl.WithLocation(time.UTC)))
	t.Cleanup(srv.Close)
	return srv.URL
}

func run(t *testing.T, args ...string) error {
	t.Helper()
	logPath := filepath.Join(t.TempDir(), "agenda.log")
	base := []string{"agenda", "--log-format", "json", "--log-output", logPath}
	return cli.Run(context.Background(), append(base, args...), "test")
}

func TestRun_Overview(t *testing.T) {
	url := newAPI(t)

	t.Run("employee overview", func(t *testing.T) {
		gt.NoError(t, run(t, "overview", "--api-url", url, "--user-id", "u1", "--tz", "UTC"))
	})

	t.Run("employee mode is skipped for non-privileged viewers", func(t *testing.T) {
		gt.NoError(t, run(t, "overview", "--api-url", url, "--user-id", "u1", "--mode", "employee", "--selected-user", "u2"))
	})

	t.Run("unknown mode", func(t *testing.T) {
		gt.Error(t, run(t, "overview", "--api-url", url, "--user-id", "u1", "--mode", "everyone"))
	})

	t.Run("missing viewer", func(t *testing.T) {
		gt.Error(t, run(t, "overview", "--api-url", url))
	})

	t.Run("unreachable api", func(t *testing.T) {
		gt.Error(t, run(t, "overview", "--api-url", "http://127.0.0.1:1", "--user-id", "u1", "--api-timeout", "1s"))
	})
}

func TestRun_History(t *testing.T) {
	url := newAPI(t)

	gt.NoError(t, run(t, "history", "--api-url", url, "--user-id", "u1", "--role", "ADMIN", "--days", "14", "--tz", "UTC"))
	gt.Error(t, run(t, "history", "--api-url", url, "--user-id", "u1", "--days", "10"))
	gt.Error(t, run(t, "history", "--api-url", url, "--user-id", "u1", "--status", "LOST"))
}

func TestRun_NotifyDryRun(t *testing.T) {
	url := newAPI(t)

	gt.NoError(t, run(t, "notify", "--dry-run", "--api-url", url, "--user-id", "u1", "--tz", "UTC"))
	gt.Error(t, run(t, "notify", "--api-url", url, "--user-id", "u1"))
}
