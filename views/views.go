// Package views renders the cookbook pages from embedded html/template files.
//
// Every page is parsed together with the shared layout once at startup.
// Handlers build a Page and hand the Component returned by Views.Render to
// Context.Render.
package views

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"strconv"

	"github.com/dmitrymomot/cookbook/internal"
	"github.com/dmitrymomot/cookbook/pkg/pagination"
	"github.com/dmitrymomot/cookbook/pkg/richtext"
	"github.com/dmitrymomot/cookbook/repository"
)

//go:embed templates/*.html
var templates embed.FS

//go:embed static
var assets embed.FS

// Assets returns the static files served under /static/.
func Assets() fs.FS {
	return assets
}

// Page names.
const (
	PageHome        = "home"
	PageSignup      = "signup"
	PageLogin       = "login"
	PageCuisines    = "cuisines"
	PageNewCuisine  = "new_cuisine"
	PageEditCuisine = "edit_cuisine"
	PageRecipes     = "recipes"
	PageNewRecipe   = "new_recipe"
	PageEditRecipe  = "edit_recipe"
	PageRecipe      = "recipe"
	PageError       = "error"
)

var pageNames = []string{
	PageHome, PageSignup, PageLogin,
	PageCuisines, PageNewCuisine, PageEditCuisine,
	PageRecipes, PageNewRecipe, PageEditRecipe, PageRecipe,
	PageError,
}

var funcs = template.FuncMap{
	"markdown": richtext.Markdown,
	"lines":    richtext.Lines,
	"text": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
}

// Views holds the parsed page templates.
type Views struct {
	pages map[string]*template.Template
}

// New parses the layout with every page.
func New() (*Views, error) {
	v := &Views{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := template.New("layout").Funcs(funcs).ParseFS(templates,
			"templates/layout.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("views: parse %s: %w", name, err)
		}
		v.pages[name] = t
	}
	return v, nil
}

// Page is the data every template receives.
type Page struct {
	Title    string
	Flash    string
	SignedIn bool
	Data     any
}

// Render returns the component rendering the named page.
func (v *Views) Render(name string, p Page) internal.Component {
	return &component{tmpl: v.pages[name], name: name, page: p}
}

type component struct {
	tmpl *template.Template
	name string
	page Page
}

func (c *component) Render(_ context.Context, w io.Writer) error {
	if c.tmpl == nil {
		return fmt.Errorf("views: unknown page %q", c.name)
	}
	return c.tmpl.ExecuteTemplate(w, "layout", c.page)
}

// Pager is the navigation strip below a paged list.
type Pager struct {
	Base    string
	Current int
	Numbers []int
	Prev    int // 0 when on the first page
	Next    int // 0 when on the last page
}

// Href links to page n of the list.
func (p Pager) Href(n int) string {
	return p.Base + "?page=" + strconv.Itoa(n)
}

// NewPager builds the pager of p for the list served at base.
func NewPager[T any](base string, p pagination.Page[T]) Pager {
	pg := Pager{Base: base, Current: p.Current, Numbers: p.Numbers()}
	if p.HasPrev() {
		pg.Prev = p.Prev()
	}
	if p.HasNext() {
		pg.Next = p.Next()
	}
	return pg
}

// Signup is the data of the signup page.
type Signup struct {
	Username string
}

// Login is the data of the login page.
type Login struct {
	Username string
}

// Cuisines is the data of the cuisine list.
type Cuisines struct {
	Items []repository.Cuisine
	Pager Pager
}

// CuisineForm is the data of the cuisine create and edit pages.
// ID is zero on the create page.
type CuisineForm struct {
	ID   int64
	Name string
}

// Recipes is the data of a cuisine's recipe list.
type Recipes struct {
	Cuisine repository.Cuisine
	Items   []repository.Recipe
	Pager   Pager
}

// RecipeForm is the data of the recipe create and edit pages.
// ID is zero on the create page.
type RecipeForm struct {
	CuisineID    int64
	ID           int64
	Name         string
	Ingredients  *string
	Instructions *string
}

// Recipe is the data of the recipe page.
type Recipe struct {
	Cuisine repository.Cuisine
	Recipe  repository.Recipe
}

// Error is the data of the error page.
type Error struct {
	Code      int
	Title     string
	Message   string
	RequestID string
}

// StatusText is the default title for Code.
func (e Error) StatusText() string {
	if e.Title != "" {
		return e.Title
	}
	return http.StatusText(e.Code)
}
