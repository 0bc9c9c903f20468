package obs

import (
	"context"
	"log/slog"
	"time"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

// WithRequestID attaches a request id to the context for timing logs.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// RequestID returns the request id attached to ctx, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// Time logs the duration of an operation. Use as:
//
//	defer obs.Time(ctx, log, "optimize.Run")(&err)
//
// The returned closure reads *errp at defer time, so named error returns are
// reported accurately.
func Time(ctx context.Context, log *slog.Logger, name string) func(errp *error) {
	start := time.Now()

	if log == nil {
		log = slog.Default()
	}
	reqID := RequestID(ctx)

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			log.Warn("op failed",
				"req_id", reqID, "op", name, "dur_ms", dur.Milliseconds(), "err", *errp)
			return
		}
		log.Debug("op done",
			"req_id", reqID, "op", name, "dur_ms", dur.Milliseconds())
	}
}
