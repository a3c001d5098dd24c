package handlers

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/cookbook/auth"
	"github.com/dmitrymomot/cookbook/internal"
	"github.com/dmitrymomot/cookbook/pkg/pagination"
	"github.com/dmitrymomot/cookbook/repository"
	"github.com/dmitrymomot/cookbook/requests"
	"github.com/dmitrymomot/cookbook/views"
)

// Recipes serves the recipes of one of the signed-in user's cuisines.
type Recipes struct {
	store   Store
	views   *views.Views
	catalog Catalog
}

// NewRecipes creates the recipe handler.
func NewRecipes(store Store, v *views.Views, catalog Catalog) *Recipes {
	return &Recipes{store: store, views: v, catalog: catalog.withDefaults()}
}

// Routes implements internal.Handler.
func (h *Recipes) Routes(r internal.Router) {
	r.Group(func(r internal.Router) {
		r.Use(auth.RequireUser)

		r.GET("/cuisines/{id}/recipes", h.list)
		r.GET("/cuisines/{id}/recipes/new", h.newForm)
		r.POST("/cuisines/{id}/recipes", h.create)
		r.GET("/cuisines/{id}/recipes/{rid}", h.show)
		r.GET("/cuisines/{id}/recipes/{rid}/edit", h.editForm)
		r.POST("/cuisines/{id}/recipes/{rid}", h.update)
		r.POST("/cuisines/{id}/recipes/{rid}/delete", h.delete)
	})
}

func (h *Recipes) list(c internal.Context) error {
	cuisine, ok, err := loadCuisine(c, h.store)
	if !ok {
		return err
	}

	items, err := h.store.ListRecipes(c, cuisine.ID, cuisine.UserID)
	if err != nil {
		return err
	}

	base := recipesPath(cuisine.ID)
	raw, present := pageParam(c)
	current, msg := requests.ValidatePage(raw, present, pagination.PageCount(len(items), h.catalog.RecipesPerPage))
	if msg != "" {
		return flashRedirect(c, http.StatusFound, msg, base)
	}

	p := pagination.New(items, h.catalog.RecipesPerPage, current, h.catalog.PageLinks)
	return c.Render(http.StatusOK, h.views.Render(views.PageRecipes, page(c, cuisine.Name, "", views.Recipes{
		Cuisine: cuisine,
		Items:   p.Items,
		Pager:   views.NewPager(base, p),
	})))
}

func (h *Recipes) newForm(c internal.Context) error {
	cuisine, ok, err := loadCuisine(c, h.store)
	if !ok {
		return err
	}
	return c.Render(http.StatusOK, h.views.Render(views.PageNewRecipe, page(c, "New recipe", "",
		views.RecipeForm{CuisineID: cuisine.ID})))
}

// create adds the recipe and redirects to it. The new id is looked up by
// name, so with duplicate names the newest recipe wins.
func (h *Recipes) create(c internal.Context) error {
	cuisine, ok, err := loadCuisine(c, h.store)
	if !ok {
		return err
	}
	req := requests.ParseRecipe(c.PostForm())

	if msg := req.Validate(); msg != "" {
		return c.Render(http.StatusUnprocessableEntity, h.views.Render(views.PageNewRecipe, page(c, "New recipe", msg,
			recipeForm(cuisine.ID, 0, req))))
	}

	err = h.store.CreateRecipe(c, req.Fields(), cuisine.ID, cuisine.UserID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return cuisineNotFound(c)
	case err != nil:
		return err
	}

	id, err := h.store.FindRecipeIDByName(c, req.Name, cuisine.UserID)
	if err != nil {
		return err
	}
	return flashRedirect(c, http.StatusSeeOther, msgRecipeAdded, recipePath(cuisine.ID, id))
}

func (h *Recipes) show(c internal.Context) error {
	cuisine, recipe, ok, err := h.load(c)
	if !ok {
		return err
	}
	return c.Render(http.StatusOK, h.views.Render(views.PageRecipe, page(c, recipe.Name, "",
		views.Recipe{Cuisine: cuisine, Recipe: recipe})))
}

func (h *Recipes) editForm(c internal.Context) error {
	cuisine, recipe, ok, err := h.load(c)
	if !ok {
		return err
	}
	return c.Render(http.StatusOK, h.views.Render(views.PageEditRecipe, page(c, "Edit recipe", "", views.RecipeForm{
		CuisineID:    cuisine.ID,
		ID:           recipe.ID,
		Name:         recipe.Name,
		Ingredients:  recipe.Ingredients,
		Instructions: recipe.Instructions,
	})))
}

func (h *Recipes) update(c internal.Context) error {
	cuisine, recipe, ok, err := h.load(c)
	if !ok {
		return err
	}
	req := requests.ParseRecipe(c.PostForm())

	if msg := req.Validate(); msg != "" {
		return c.Render(http.StatusUnprocessableEntity, h.views.Render(views.PageEditRecipe, page(c, "Edit recipe", msg,
			recipeForm(cuisine.ID, recipe.ID, req))))
	}

	err = h.store.UpdateRecipe(c, req.Fields(), recipe.ID, cuisine.ID, cuisine.UserID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return recipeNotFound(c, cuisine.ID)
	case err != nil:
		return err
	}
	return flashRedirect(c, http.StatusSeeOther, msgRecipeUpdated, recipePath(cuisine.ID, recipe.ID))
}

// delete removes the recipe. A recipe that is already gone is not reported.
func (h *Recipes) delete(c internal.Context) error {
	userID, _ := auth.UserID(c)
	cuisineID, ok := pathID(c, "id")
	if !ok {
		return cuisineNotFound(c)
	}
	id, ok := pathID(c, "rid")
	if !ok {
		return recipeNotFound(c, cuisineID)
	}

	err := h.store.DeleteRecipe(c, id, cuisineID, userID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
	case err != nil:
		return err
	default:
		if err := c.SetFlash(msgRecipeDeleted); err != nil {
			return err
		}
	}
	return c.Redirect(http.StatusSeeOther, recipesPath(cuisineID))
}

// load fetches the cuisine and the recipe named by the path. See loadCuisine
// for the meaning of the results.
func (h *Recipes) load(c internal.Context) (repository.Cuisine, repository.Recipe, bool, error) {
	cuisine, ok, err := loadCuisine(c, h.store)
	if !ok {
		return repository.Cuisine{}, repository.Recipe{}, false, err
	}

	id, ok := pathID(c, "rid")
	if !ok {
		return cuisine, repository.Recipe{}, false, recipeNotFound(c, cuisine.ID)
	}

	recipe, err := h.store.FindRecipeByID(c, id, cuisine.ID, cuisine.UserID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return cuisine, repository.Recipe{}, false, recipeNotFound(c, cuisine.ID)
	case err != nil:
		return cuisine, repository.Recipe{}, false, err
	}
	return cuisine, recipe, true, nil
}

func recipeNotFound(c internal.Context, cuisineID int64) error {
	return flashRedirect(c, http.StatusFound, msgRecipeNotFound, recipesPath(cuisineID))
}

func recipeForm(cuisineID, id int64, req requests.Recipe) views.RecipeForm {
	return views.RecipeForm{
		CuisineID:    cuisineID,
		ID:           id,
		Name:         req.Name,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
	}
}
