// Package handlers serves the cookbook pages.
//
// Handlers receive their dependencies through constructors: the Store (the
// repository in production, an in-memory fake in tests), the parsed Views
// and the Catalog paging settings.
package handlers

import (
	"context"
	"regexp"
	"strconv"

	"github.com/dmitrymomot/cookbook/internal"
	"github.com/dmitrymomot/cookbook/pkg/pagination"
	"github.com/dmitrymomot/cookbook/repository"
	"github.com/dmitrymomot/cookbook/views"
)

// Store is the data access the handlers need. *repository.Queries implements it.
type Store interface {
	FindUserByUsername(ctx context.Context, username string) (repository.User, error)
	CreateUser(ctx context.Context, username, password string) (repository.User, error)

	ListCuisines(ctx context.Context, userID int64) ([]repository.Cuisine, error)
	FindCuisineByName(ctx context.Context, name string, userID int64) (repository.Cuisine, error)
	FindCuisineByID(ctx context.Context, id, userID int64) (repository.Cuisine, error)
	CreateCuisine(ctx context.Context, name string, userID int64) (repository.Cuisine, error)
	UpdateCuisine(ctx context.Context, name string, id, userID int64) error
	DeleteCuisine(ctx context.Context, id, userID int64) error

	ListRecipes(ctx context.Context, cuisineID, userID int64) ([]repository.Recipe, error)
	FindRecipeIDByName(ctx context.Context, name string, userID int64) (int64, error)
	FindRecipeByID(ctx context.Context, id, cuisineID, userID int64) (repository.Recipe, error)
	CreateRecipe(ctx context.Context, f repository.RecipeFields, cuisineID, userID int64) error
	UpdateRecipe(ctx context.Context, f repository.RecipeFields, id, cuisineID, userID int64) error
	DeleteRecipe(ctx context.Context, id, cuisineID, userID int64) error
}

var _ Store = (*repository.Queries)(nil)

// Catalog holds the paging settings of the lists.
type Catalog struct {
	CuisinesPerPage int `env:"CUISINES_PER_PAGE" envDefault:"5"  yaml:"cuisines_per_page"`
	RecipesPerPage  int `env:"RECIPES_PER_PAGE"  envDefault:"10" yaml:"recipes_per_page"`
	PageLinks       int `env:"PAGE_LINKS"        envDefault:"5"  yaml:"page_links"`
}

func (c Catalog) withDefaults() Catalog {
	if c.CuisinesPerPage <= 0 {
		c.CuisinesPerPage = 5
	}
	if c.RecipesPerPage <= 0 {
		c.RecipesPerPage = 10
	}
	if c.PageLinks <= 0 || c.PageLinks%2 == 0 {
		c.PageLinks = pagination.DefaultWindow
	}
	return c
}

// Flash messages.
const (
	msgWelcome         = "Welcome!"
	msgAccountCreated  = "You account has been created. You may now login."
	msgInvalidLogin    = "Invalid username or password."
	msgCuisineAdded    = "Cuisine has been added."
	msgCuisineUpdated  = "Cuisine has been updated."
	msgCuisineDeleted  = "Cuisine has been deleted."
	msgCuisineNotFound = "The specified cuisine was not found."
	msgRecipeAdded     = "Recipe has been added."
	msgRecipeUpdated   = "Recipe has been updated."
	msgRecipeDeleted   = "Recipe has been deleted."
	msgRecipeNotFound  = "The specified recipe was not found."
)

// page builds the template data. A non-empty message replaces the stored
// flash, which is consumed either way.
func page(c internal.Context, title, message string, data any) views.Page {
	if flash := c.Flash(); message == "" {
		message = flash
	}
	return views.Page{
		Title:    title,
		Flash:    message,
		SignedIn: c.IsAuthenticated(),
		Data:     data,
	}
}

var digits = regexp.MustCompile(`^[0-9]+$`)

// pathID parses a numeric path parameter. Anything but digits is rejected.
func pathID(c internal.Context, name string) (int64, bool) {
	raw := c.Param(name)
	if !digits.MatchString(raw) {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	return id, err == nil
}

// pageParam returns the "page" query parameter and whether it was given.
func pageParam(c internal.Context) (string, bool) {
	q := c.Request().URL.Query()
	return q.Get("page"), q.Has("page")
}

// flashRedirect stores message and redirects to location.
func flashRedirect(c internal.Context, code int, message, location string) error {
	if err := c.SetFlash(message); err != nil {
		return err
	}
	return c.Redirect(code, location)
}
