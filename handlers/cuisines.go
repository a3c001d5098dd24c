package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrymomot/cookbook/auth"
	"github.com/dmitrymomot/cookbook/internal"
	"github.com/dmitrymomot/cookbook/pkg/pagination"
	"github.com/dmitrymomot/cookbook/repository"
	"github.com/dmitrymomot/cookbook/requests"
	"github.com/dmitrymomot/cookbook/views"
)

const cuisinesPath = "/cuisines"

// Cuisines serves the signed-in user's cuisine list and its forms.
type Cuisines struct {
	store   Store
	views   *views.Views
	catalog Catalog
}

// NewCuisines creates the cuisine handler.
func NewCuisines(store Store, v *views.Views, catalog Catalog) *Cuisines {
	return &Cuisines{store: store, views: v, catalog: catalog.withDefaults()}
}

// Routes implements internal.Handler.
func (h *Cuisines) Routes(r internal.Router) {
	r.Group(func(r internal.Router) {
		r.Use(auth.RequireUser)

		r.GET("/cuisines", h.list)
		r.GET("/cuisines/new", h.newForm)
		r.POST("/cuisines", h.create)
		r.GET("/cuisines/{id}/edit", h.editForm)
		r.POST("/cuisines/{id}", h.update)
		r.POST("/cuisines/{id}/delete", h.delete)
	})
}

func (h *Cuisines) list(c internal.Context) error {
	userID, _ := auth.UserID(c)

	items, err := h.store.ListCuisines(c, userID)
	if err != nil {
		return err
	}

	raw, present := pageParam(c)
	current, msg := requests.ValidatePage(raw, present, pagination.PageCount(len(items), h.catalog.CuisinesPerPage))
	if msg != "" {
		return flashRedirect(c, http.StatusFound, msg, cuisinesPath)
	}

	p := pagination.New(items, h.catalog.CuisinesPerPage, current, h.catalog.PageLinks)
	return c.Render(http.StatusOK, h.views.Render(views.PageCuisines, page(c, "Cuisines", "", views.Cuisines{
		Items: p.Items,
		Pager: views.NewPager(cuisinesPath, p),
	})))
}

func (h *Cuisines) newForm(c internal.Context) error {
	return c.Render(http.StatusOK, h.views.Render(views.PageNewCuisine, page(c, "New cuisine", "", views.CuisineForm{})))
}

func (h *Cuisines) create(c internal.Context) error {
	userID, _ := auth.UserID(c)
	req := requests.ParseCuisine(c.PostForm())

	msg, err := req.ValidateNew(c, h.store, userID)
	if err != nil {
		return err
	}
	if msg == "" {
		_, err = h.store.CreateCuisine(c, req.Name, userID)
		switch {
		case errors.Is(err, repository.ErrConflict):
			msg = requests.MsgCuisineUnique
		case err != nil:
			return err
		}
	}
	if msg != "" {
		return c.Render(http.StatusUnprocessableEntity,
			h.views.Render(views.PageNewCuisine, page(c, "New cuisine", msg, views.CuisineForm{Name: req.Name})))
	}

	return flashRedirect(c, http.StatusSeeOther, msgCuisineAdded, cuisinesPath)
}

func (h *Cuisines) editForm(c internal.Context) error {
	cuisine, ok, err := loadCuisine(c, h.store)
	if !ok {
		return err
	}
	return c.Render(http.StatusOK, h.views.Render(views.PageEditCuisine, page(c, "Edit cuisine", "",
		views.CuisineForm{ID: cuisine.ID, Name: cuisine.Name})))
}

func (h *Cuisines) update(c internal.Context) error {
	cuisine, ok, err := loadCuisine(c, h.store)
	if !ok {
		return err
	}
	req := requests.ParseCuisine(c.PostForm())

	msg, err := req.ValidateRename(c, h.store, cuisine.UserID, cuisine.Name)
	if err != nil {
		return err
	}
	if msg == "" {
		err = h.store.UpdateCuisine(c, req.Name, cuisine.ID, cuisine.UserID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return cuisineNotFound(c)
		case errors.Is(err, repository.ErrConflict):
			msg = requests.MsgCuisineUnique
		case err != nil:
			return err
		}
	}
	if msg != "" {
		return c.Render(http.StatusUnprocessableEntity, h.views.Render(views.PageEditCuisine, page(c, "Edit cuisine", msg,
			views.CuisineForm{ID: cuisine.ID, Name: req.Name})))
	}

	return flashRedirect(c, http.StatusSeeOther, msgCuisineUpdated, cuisinesPath)
}

func (h *Cuisines) delete(c internal.Context) error {
	userID, _ := auth.UserID(c)
	id, ok := pathID(c, "id")
	if !ok {
		return cuisineNotFound(c)
	}

	err := h.store.DeleteCuisine(c, id, userID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return cuisineNotFound(c)
	case err != nil:
		return err
	}
	return flashRedirect(c, http.StatusSeeOther, msgCuisineDeleted, cuisinesPath)
}

// loadCuisine fetches the cuisine named by the "id" path parameter for the
// signed-in user. When it reports false the response is already decided:
// either err is non-nil or the caller was redirected with the not-found
// flash (err holds the redirect's result).
func loadCuisine(c internal.Context, store Store) (repository.Cuisine, bool, error) {
	userID, _ := auth.UserID(c)
	id, ok := pathID(c, "id")
	if !ok {
		return repository.Cuisine{}, false, cuisineNotFound(c)
	}

	cuisine, err := store.FindCuisineByID(c, id, userID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return repository.Cuisine{}, false, cuisineNotFound(c)
	case err != nil:
		return repository.Cuisine{}, false, err
	}
	return cuisine, true, nil
}

func cuisineNotFound(c internal.Context) error {
	return flashRedirect(c, http.StatusFound, msgCuisineNotFound, cuisinesPath)
}

func recipesPath(cuisineID int64) string {
	return fmt.Sprintf("/cuisines/%d/recipes", cuisineID)
}

func recipePath(cuisineID, recipeID int64) string {
	return fmt.Sprintf("/cuisines/%d/recipes/%d", cuisineID, recipeID)
}
