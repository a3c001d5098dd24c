// Package middlewares provides the HTTP middleware the cookbook app runs
// with.
//
// # Request ID
//
// RequestID assigns an ID to each request, reusing an upstream X-Request-ID
// or X-Correlation-ID header or generating a UUID. Combine it with
// RequestIDExtractor so every log entry carries request_id:
//
//	app := cookbook.New(
//	    cookbook.WithLogger(cfg.Log, "cookbook", middlewares.RequestIDExtractor()),
//	    cookbook.WithMiddleware(middlewares.RequestID()),
//	)
//
// # Recover
//
// Recover converts panics to *PanicError for the global ErrorHandler.
//
// # Timeout
//
// Timeout bounds the request context. Store calls made with the Context
// abort once the deadline passes.
//
// # Logging
//
// Logging writes one entry per request with method, path, status and
// duration.
//
// # Recommended Order
//
//	cookbook.WithMiddleware(
//	    middlewares.RequestID(),
//	    middlewares.Logging(),
//	    middlewares.Recover(),
//	    middlewares.Timeout(10*time.Second),
//	)
package middlewares
