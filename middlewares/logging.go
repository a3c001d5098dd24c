package middlewares

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/cookbook/internal"
)

// Logging returns middleware that writes one log entry per request with the
// method, path, status and duration. 5xx responses are logged at error level.
func Logging() internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			start := time.Now()
			err := next(c)

			status := c.ResponseWriter().Status()
			attrs := []any{
				slog.String("method", c.Method()),
				slog.String("path", c.Request().URL.Path),
				slog.Int("status", status),
				slog.Duration("duration", time.Since(start)),
			}
			if err != nil {
				// Only route-level use sees handler errors; global middleware
				// runs outside the error handler.
				attrs = append(attrs, slog.String("error", err.Error()))
			}

			switch {
			case err != nil || status >= 500:
				c.LogError("request failed", attrs...)
			default:
				c.LogInfo("request", attrs...)
			}
			return err
		}
	}
}
