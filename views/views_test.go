package views_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cookbook/pkg/pagination"
	"github.com/dmitrymomot/cookbook/repository"
	"github.com/dmitrymomot/cookbook/views"
)

func render(t *testing.T, v *views.Views, name string, p views.Page) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, v.Render(name, p).Render(context.Background(), &buf))
	return buf.String()
}

func ptr(s string) *string { return &s }

func TestViews_RenderEveryPage(t *testing.T) {
	t.Parallel()

	v, err := views.New()
	require.NoError(t, err)

	cuisine := repository.Cuisine{ID: 3, Name: "Thai", UserID: 1, RecipesCount: 2}
	recipe := repository.Recipe{ID: 7, Name: "Larb", CuisineID: 3, UserID: 1}

	pages := map[string]any{
		views.PageHome:        nil,
		views.PageSignup:      views.Signup{Username: "bob"},
		views.PageLogin:       views.Login{},
		views.PageCuisines:    views.Cuisines{Items: []repository.Cuisine{cuisine}},
		views.PageNewCuisine:  views.CuisineForm{},
		views.PageEditCuisine: views.CuisineForm{ID: 3, Name: "Thai"},
		views.PageRecipes:     views.Recipes{Cuisine: cuisine, Items: []repository.Recipe{recipe}},
		views.PageNewRecipe:   views.RecipeForm{CuisineID: 3},
		views.PageEditRecipe:  views.RecipeForm{CuisineID: 3, ID: 7, Name: "Larb"},
		views.PageRecipe:      views.Recipe{Cuisine: cuisine, Recipe: recipe},
		views.PageError:       views.Error{Code: 500, RequestID: "req-1"},
	}
	for name, data := range pages {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			out := render(t, v, name, views.Page{Title: "T", Flash: "Welcome!", SignedIn: true, Data: data})
			assert.Contains(t, out, "Welcome!")
			assert.Contains(t, out, "Log out")
		})
	}
}

func TestViews_RecipeFormatting(t *testing.T) {
	t.Parallel()

	v, err := views.New()
	require.NoError(t, err)

	out := render(t, v, views.PageRecipe, views.Page{Data: views.Recipe{
		Cuisine: repository.Cuisine{ID: 1, Name: "Thai"},
		Recipe: repository.Recipe{
			ID: 2, CuisineID: 1, Name: "Larb <b>",
			Ingredients:  ptr("mint\r\n\r\nlime\r\n"),
			Instructions: ptr("**Mix** well<script>alert(1)</script>"),
		},
	}})

	assert.Contains(t, out, "<li>mint</li>")
	assert.Contains(t, out, "<li>lime</li>")
	assert.Contains(t, out, "<strong>Mix</strong>")
	assert.Contains(t, out, "Larb &lt;b&gt;")
	assert.NotContains(t, out, "<script>")
}

func TestViews_Pager(t *testing.T) {
	t.Parallel()

	items := make([]int, 95)
	p := pagination.New(items, 10, 5, pagination.DefaultWindow)
	pager := views.NewPager("/cuisines", p)

	assert.Equal(t, []int{3, 4, 5, 6, 7}, pager.Numbers)
	assert.Equal(t, 4, pager.Prev)
	assert.Equal(t, 6, pager.Next)
	assert.Equal(t, "/cuisines?page=6", pager.Href(6))

	last := views.NewPager("/cuisines", pagination.New(items, 10, 10, pagination.DefaultWindow))
	assert.Equal(t, 0, last.Next)
	assert.Equal(t, []int{6, 7, 8, 9, 10}, last.Numbers)
}
