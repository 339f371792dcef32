package safe

import (
	"context"
	"io"
	"log/slog"

	"github.com/crmdesk/agenda/pkg/utils/logging"
)

// maxDrain bounds how much of an unread response body is discarded before close
const maxDrain = 64 << 10

// Close closes closer and logs a failure. A nil closer is ignored.
func Close(ctx context.Context, closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.From(ctx).Warn("close failed", slog.Any("error", err))
	}
}

// CloseBody discards what is left of an HTTP body, up to a bound, then closes
// it so the connection can be reused.
func CloseBody(ctx context.Context, body io.ReadCloser) {
	if body == nil {
		return
	}
	if _, err := io.Copy(io.Discard, io.LimitReader(body, maxDrain)); err != nil {
		logging.From(ctx).Debug("drain body failed", slog.Any("error", err))
	}
	Close(ctx, body)
}

// Write writes data to w and logs a failure or short write
func Write(ctx context.Context, w io.Writer, data []byte) {
	if w == nil {
		return
	}
	n, err := w.Write(data)
	if err != nil {
		logging.From(ctx).Warn("write failed", slog.Any("error", err), slog.Int("written", n), slog.Int("size", len(data)))
	}
}
