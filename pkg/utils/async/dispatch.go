package async

import (
	"context"
	"log/slog"

	"github.com/crmdesk/agenda/pkg/utils/errutil"
	"github.com/crmdesk/agenda/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// Dispatch runs handler in its own goroutine on a context detached from the
// caller's cancellation but carrying its logger. name labels log entries.
// Errors go through errutil.Handle; a panic is logged and swallowed.
func Dispatch(ctx context.Context, name string, handler func(ctx context.Context) error) {
	bgCtx := context.WithoutCancel(ctx)
	logger := logging.From(ctx).With(slog.String("task", name))
	bgCtx = logging.With(bgCtx, logger)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic in background task", "panic", r)
			}
		}()

		if err := handler(bgCtx); err != nil {
			_ = errutil.Handle(bgCtx, goerr.Wrap(err, "background task failed", goerr.V("task", name)), "background task failed")
		}
	}()
}
