// Package cookbook is a multi-user recipe catalog served over HTTP.
//
// Every user keeps a private list of cuisines, and every cuisine holds that
// user's recipes. The root package re-exports the web kernel the application
// is built on: an App assembled from functional options, handlers declaring
// routes on a Router, and a Context giving access to the request, the
// session, flash messages and in-process request replay.
//
// # Quick Start
//
//	app := cookbook.New(
//	    cookbook.WithLogger(cfg.Log, "cookbook", middlewares.RequestIDExtractor()),
//	    cookbook.WithMiddleware(
//	        middlewares.RequestID(),
//	        middlewares.Recover(),
//	        middlewares.Timeout(cfg.Server.RequestTimeout),
//	    ),
//	    cookbook.WithSession(session.NewMemoryStore()),
//	    cookbook.WithHandlers(
//	        handlers.NewPages(),
//	        handlers.NewAuth(store, views),
//	    ),
//	)
//
//	if err := app.Run(cfg.Server.Address); err != nil {
//	    log.Fatal(err)
//	}
//
// # Handlers
//
// Handlers implement the [Handler] interface to declare routes:
//
//	func (h *Cuisines) Routes(r cookbook.Router) {
//	    r.Route("/cuisines", func(r cookbook.Router) {
//	        r.Use(auth.RequireUser)
//	        r.GET("/", h.list)
//	        r.POST("/", h.create)
//	    })
//	}
//
// # Sign-in gate
//
// The auth package stashes the path and form of an anonymous request in the
// session and replays it after a successful login. See [Context.Forward].
//
// # Commands
//
// The cookbook binary (cmd/cookbook) serves the application, applies the
// database migrations and wipes all data.
package cookbook
