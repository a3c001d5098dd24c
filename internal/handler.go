package internal

// Handler declares routes on a router.
//
// Example:
//
//	type CuisinesHandler struct {
//	    store handlers.Store
//	}
//
//	func (h *CuisinesHandler) Routes(r cookbook.Router) {
//	    r.GET("/cuisines", h.list)
//	    r.POST("/cuisines", h.create)
//	}
type Handler interface {
	Routes(r Router)
}

// HandlerFunc is the signature for route handlers.
// Returning a non-nil error hands it to the app's ErrorHandler.
type HandlerFunc func(c Context) error

// Middleware wraps a HandlerFunc to add cross-cutting concerns.
//
// Example:
//
//	func RequireUser(next cookbook.HandlerFunc) cookbook.HandlerFunc {
//	    return func(c cookbook.Context) error {
//	        if !c.IsAuthenticated() {
//	            return c.Redirect(http.StatusFound, "/login")
//	        }
//	        return next(c)
//	    }
//	}
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler handles errors returned from handlers.
type ErrorHandler func(Context, error) error
