package kit

import (
	"context"
	"log/slog"
	"time"
)

// Logging returns a middleware that records each invocation of the
// named endpoint with its transport, duration and outcome.
func Logging(logger *slog.Logger, name string) Middleware {
	return func(next Endpoint) Endpoint {
		return func(ctx context.Context, request any) (any, error) {
			start := time.Now()
			resp, err := next(ctx, request)
			attrs := []any{
				"endpoint", name,
				"transport", GetTransport(ctx),
				"duration", time.Since(start),
			}
			if err != nil {
				logger.Debug("endpoint miss", append(attrs, "reason", err.Error())...)
			} else {
				logger.Debug("endpoint ok", attrs...)
			}
			return resp, err
		}
	}
}
