package handlers

import (
	"net/http"

	"github.com/dmitrymomot/cookbook/internal"
	"github.com/dmitrymomot/cookbook/views"
)

// Pages serves the landing page.
type Pages struct {
	views *views.Views
}

// NewPages creates the landing page handler.
func NewPages(v *views.Views) *Pages {
	return &Pages{views: v}
}

// Routes implements internal.Handler.
func (h *Pages) Routes(r internal.Router) {
	r.GET("/", h.home)
}

func (h *Pages) home(c internal.Context) error {
	if c.IsAuthenticated() {
		return c.Redirect(http.StatusFound, "/cuisines")
	}
	return c.Render(http.StatusOK, h.views.Render(views.PageHome, page(c, "Welcome", "", nil)))
}
