// Package internal provides the core types and implementation of the cookbook
// web kernel.
//
// Import "github.com/dmitrymomot/cookbook" instead, which re-exports the
// public API.
//
// # Core Types
//
//   - App: routing, middleware, sessions, health endpoints and graceful shutdown
//   - Context: request/response access, session, flash messages and replay
//   - Router: interface handlers use to declare routes
//   - Handler: implemented by types that declare routes on a router
//   - HandlerFunc: signature for route handlers that return errors
//   - Middleware: wraps handlers to add cross-cutting concerns
//   - ErrorHandler: renders errors returned by handlers
//
// # Context as context.Context
//
// Context embeds context.Context, so it can be passed directly to the store:
//
//	func (h *Cuisines) list(c cookbook.Context) error {
//	    cuisines, err := h.store.ListCuisines(c, userID)
//	    ...
//	}
//
// # Sessions
//
// Sessions are loaded lazily on first use and written back to the store right
// before the response headers go out. Every Context created while serving one
// request (one per middleware layer, plus forwarded requests) shares the same
// session, so a value set by a middleware is visible to the handler and the
// other way round.
//
// Anonymous callers have no session until something is stored for them.
// AuthenticateSession rotates the session token and keeps every other value;
// Logout only unbinds the user.
//
// # Flash messages
//
// SetFlash stores a one-shot message in the session. Flash pops it, so the
// message is shown on the next rendered page only.
//
// # Forward
//
// Forward dispatches a synthetic request through the app's router inside the
// current response. The login handler uses it to replay a form submission
// that was interrupted by the sign-in gate.
package internal
