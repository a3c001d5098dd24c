// Package logger builds the application's slog.Logger.
//
// Records go to stdout as JSON (or text for local development) and pass
// through a decorator that copies request-scoped values out of the context:
//
//	log := logger.New(logger.Config{Level: "debug"},
//		middlewares.RequestIDExtractor(),
//		auth.UserIDExtractor(),
//	)
//	log.InfoContext(ctx, "cuisine created", slog.Int64("cuisine_id", id))
//	// {"level":"INFO","msg":"cuisine created","cuisine_id":7,"request_id":"...","user_id":"3"}
//
// When Config.SentryDSN is set, records are also fanned out to Sentry:
// errors become issues, warnings and errors are attached as logs. A failed
// Sentry initialization falls back to stdout only.
package logger
