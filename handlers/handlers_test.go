package handlers_test

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cookbook/handlers"
	"github.com/dmitrymomot/cookbook/internal"
	"github.com/dmitrymomot/cookbook/middlewares"
	"github.com/dmitrymomot/cookbook/pkg/session"
	"github.com/dmitrymomot/cookbook/requests"
	"github.com/dmitrymomot/cookbook/views"
)

type testServer struct {
	t     *testing.T
	url   string
	store *memStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	v, err := views.New()
	require.NoError(t, err)

	store := newMemStore()
	catalog := handlers.Catalog{CuisinesPerPage: 5, RecipesPerPage: 10, PageLinks: 5}

	app := internal.New(
		internal.WithSession(session.NewMemoryStore()),
		internal.WithMiddleware(middlewares.RequestID()),
		internal.WithErrorHandler(handlers.ErrorHandler(v)),
		internal.WithNotFoundHandler(handlers.NotFound(v)),
		internal.WithMethodNotAllowedHandler(handlers.MethodNotAllowed(v)),
		internal.WithHandlers(
			handlers.NewPages(v),
			handlers.NewAuth(store, v),
			handlers.NewCuisines(store, v, catalog),
			handlers.NewRecipes(store, v, catalog),
		),
	)

	srv := httptest.NewServer(app)
	t.Cleanup(srv.Close)
	return &testServer{t: t, url: srv.URL, store: store}
}

// client is a browser: it keeps cookies and does not follow redirects.
func (s *testServer) client() *http.Client {
	s.t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(s.t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (s *testServer) get(c *http.Client, path string) (int, string, string) {
	s.t.Helper()
	resp, err := c.Get(s.url + path)
	require.NoError(s.t, err)
	return result(s.t, resp)
}

func (s *testServer) post(c *http.Client, path string, form url.Values) (int, string, string) {
	s.t.Helper()
	resp, err := c.PostForm(s.url+path, form)
	require.NoError(s.t, err)
	return result(s.t, resp)
}

// signup registers username and logs in with a fresh client.
func (s *testServer) signup(username string) *http.Client {
	s.t.Helper()
	c := s.client()
	code, loc, _ := s.post(c, "/signup", url.Values{
		"username": {username}, "password": {"secret123"}, "confirm_password": {"secret123"},
	})
	require.Equal(s.t, http.StatusSeeOther, code)
	require.Equal(s.t, "/login", loc)

	code, _, _ = s.post(c, "/login", url.Values{"username": {username}, "password": {"secret123"}})
	require.Equal(s.t, http.StatusFound, code)
	return c
}

func result(t *testing.T, resp *http.Response) (int, string, string) {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, resp.Header.Get("Location"), string(b)
}

func TestHome(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	code, _, body := s.get(s.client(), "/")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "Sign up")

	code, loc, _ := s.get(s.signup("alice"), "/")
	assert.Equal(t, http.StatusFound, code)
	assert.Equal(t, "/cuisines", loc)
}

func TestSignup(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	s.signup("taken")

	tests := []struct {
		name string
		form url.Values
		want string
	}{
		{"short username", url.Values{"username": {"a"}, "password": {"secret123"}, "confirm_password": {"secret123"}}, requests.MsgUsernameLength},
		{"symbols", url.Values{"username": {"a_b"}, "password": {"secret123"}, "confirm_password": {"secret123"}}, requests.MsgUsernameAlnum},
		{"taken ignoring case", url.Values{"username": {"TAKEN"}, "password": {"secret123"}, "confirm_password": {"secret123"}}, requests.MsgUsernameTaken},
		{"weak password", url.Values{"username": {"bob"}, "password": {"secretsecret"}, "confirm_password": {"secretsecret"}}, requests.MsgPasswordPattern},
		{"mismatch", url.Values{"username": {"bob"}, "password": {"secret123"}, "confirm_password": {"secret124"}}, requests.MsgPasswordMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, body := s.post(s.client(), "/signup", tt.form)
			assert.Equal(t, http.StatusUnprocessableEntity, code)
			assert.Contains(t, body, tt.want)
		})
	}

	t.Run("success", func(t *testing.T) {
		c := s.client()
		code, loc, _ := s.post(c, "/signup", url.Values{
			"username": {"bob"}, "password": {"secret123"}, "confirm_password": {"secret123"},
		})
		assert.Equal(t, http.StatusSeeOther, code)
		assert.Equal(t, "/login", loc)

		_, _, body := s.get(c, "/login")
		assert.Contains(t, body, "You account has been created. You may now login.")
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	s.signup("alice")

	t.Run("wrong password", func(t *testing.T) {
		code, _, body := s.post(s.client(), "/login", url.Values{"username": {"alice"}, "password": {"nope12345"}})
		assert.Equal(t, http.StatusUnprocessableEntity, code)
		assert.Contains(t, body, "Invalid username or password.")
		assert.Contains(t, body, `value="alice"`)
	})

	t.Run("unknown user", func(t *testing.T) {
		code, _, body := s.post(s.client(), "/login", url.Values{"username": {"nobody"}, "password": {"secret123"}})
		assert.Equal(t, http.StatusUnprocessableEntity, code)
		assert.Contains(t, body, "Invalid username or password.")
	})

	t.Run("success lands on cuisines", func(t *testing.T) {
		c := s.client()
		code, loc, _ := s.post(c, "/login", url.Values{"username": {"ALICE"}, "password": {"secret123"}})
		assert.Equal(t, http.StatusFound, code)
		assert.Equal(t, "/cuisines", loc)

		_, _, body := s.get(c, "/cuisines")
		assert.Contains(t, body, "Welcome!")
	})

	t.Run("logout", func(t *testing.T) {
		c := s.signup("carol")
		code, loc, _ := s.post(c, "/logout", nil)
		assert.Equal(t, http.StatusSeeOther, code)
		assert.Equal(t, "/", loc)

		code, loc, _ = s.get(c, "/cuisines")
		assert.Equal(t, http.StatusFound, code)
		assert.Equal(t, "/login", loc)
	})
}

func TestResume_ReplaysCuisineCreate(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	s.signup("alice")
	c := s.client()

	code, loc, _ := s.post(c, "/cuisines", url.Values{"cuisine_name": {"Greek"}})
	require.Equal(t, http.StatusFound, code)
	require.Equal(t, "/login", loc)

	_, _, body := s.get(c, "/login")
	assert.Contains(t, body, "You must be signed in to do that.")

	// A failed attempt keeps the pending submission.
	code, _, _ = s.post(c, "/login", url.Values{"username": {"alice"}, "password": {"wrong1234"}})
	require.Equal(t, http.StatusUnprocessableEntity, code)

	code, loc, _ = s.post(c, "/login", url.Values{"username": {"alice"}, "password": {"secret123"}})
	require.Equal(t, http.StatusSeeOther, code)
	assert.Equal(t, "/cuisines", loc)

	_, _, body = s.get(c, "/cuisines")
	assert.Contains(t, body, ">Greek</a>")
	assert.Contains(t, body, "Cuisine has been added.")
}

func TestResume_RedirectsToRequestedPage(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	s.signup("alice")
	c := s.client()

	code, loc, _ := s.get(c, "/cuisines/new")
	require.Equal(t, http.StatusFound, code)
	require.Equal(t, "/login", loc)

	code, loc, _ = s.post(c, "/login", url.Values{"username": {"alice"}, "password": {"secret123"}})
	assert.Equal(t, http.StatusFound, code)
	assert.Equal(t, "/cuisines/new", loc)
}

func TestCuisines(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	c := s.signup("alice")

	code, loc, _ := s.post(c, "/cuisines", url.Values{"cuisine_name": {"  Thai  "}})
	require.Equal(t, http.StatusSeeOther, code)
	require.Equal(t, "/cuisines", loc)
	thai, err := s.store.FindCuisineByName(t.Context(), "thai", 1)
	require.NoError(t, err)
	assert.Equal(t, "Thai", thai.Name)

	t.Run("duplicate ignoring case", func(t *testing.T) {
		code, _, body := s.post(c, "/cuisines", url.Values{"cuisine_name": {"THAI"}})
		assert.Equal(t, http.StatusUnprocessableEntity, code)
		assert.Contains(t, body, requests.MsgCuisineUnique)
	})

	t.Run("empty name", func(t *testing.T) {
		code, _, body := s.post(c, "/cuisines", url.Values{"cuisine_name": {"   "}})
		assert.Equal(t, http.StatusUnprocessableEntity, code)
		assert.Contains(t, body, requests.MsgCuisineName)
	})

	t.Run("rename to a case variant", func(t *testing.T) {
		path := fmt.Sprintf("/cuisines/%d", thai.ID)
		code, loc, _ := s.post(c, path, url.Values{"cuisine_name": {"THAI"}})
		assert.Equal(t, http.StatusSeeOther, code)
		assert.Equal(t, "/cuisines", loc)

		_, _, body := s.get(c, "/cuisines")
		assert.Contains(t, body, "Cuisine has been updated.")
		assert.Contains(t, body, ">THAI</a>")
	})

	t.Run("other users see nothing", func(t *testing.T) {
		other := s.signup("bob")
		code, loc, _ := s.get(other, fmt.Sprintf("/cuisines/%d/edit", thai.ID))
		assert.Equal(t, http.StatusFound, code)
		assert.Equal(t, "/cuisines", loc)

		code, _, _ = s.post(other, fmt.Sprintf("/cuisines/%d/delete", thai.ID), nil)
		assert.Equal(t, http.StatusFound, code)
		_, _, body := s.get(other, "/cuisines")
		assert.Contains(t, body, "The specified cuisine was not found.")
		assert.NotContains(t, body, "THAI")
	})

	t.Run("non numeric id", func(t *testing.T) {
		code, loc, _ := s.get(c, "/cuisines/abc/edit")
		assert.Equal(t, http.StatusFound, code)
		assert.Equal(t, "/cuisines", loc)
	})

	t.Run("delete", func(t *testing.T) {
		code, loc, _ := s.post(c, fmt.Sprintf("/cuisines/%d/delete", thai.ID), nil)
		assert.Equal(t, http.StatusSeeOther, code)
		assert.Equal(t, "/cuisines", loc)

		_, _, body := s.get(c, "/cuisines")
		assert.Contains(t, body, "Cuisine has been deleted.")
		assert.Contains(t, body, "You have no cuisines yet.")
	})
}

func TestCuisines_Pagination(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	c := s.signup("alice")

	for i := 1; i <= 6; i++ {
		code, _, _ := s.post(c, "/cuisines", url.Values{"cuisine_name": {fmt.Sprintf("c%d", i)}})
		require.Equal(t, http.StatusSeeOther, code)
	}

	code, _, body := s.get(c, "/cuisines?page=2")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, ">c6</a>")
	assert.NotContains(t, body, ">c1</a>")
	assert.Contains(t, body, `<span class="current_page">2</span>`)

	for _, raw := range []string{"3", "0", "abc", "-1", "1.5"} {
		code, loc, _ := s.get(c, "/cuisines?page="+url.QueryEscape(raw))
		assert.Equal(t, http.StatusFound, code, raw)
		assert.Equal(t, "/cuisines", loc, raw)
	}
	_, _, body = s.get(c, "/cuisines")
	assert.Contains(t, body, requests.MsgPageNumber)
}

func TestCuisines_PageParamWithoutCuisines(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	c := s.signup("alice")

	for _, query := range []string{"", "?page=1"} {
		code, _, _ := s.get(c, "/cuisines"+query)
		assert.Equal(t, http.StatusOK, code, query)
	}

	for _, query := range []string{"?page=", "?page=01", "?page=001", "?page=2"} {
		code, loc, _ := s.get(c, "/cuisines"+query)
		assert.Equal(t, http.StatusFound, code, query)
		assert.Equal(t, "/cuisines", loc, query)
	}
	_, _, body := s.get(c, "/cuisines")
	assert.Contains(t, body, requests.MsgPageNumber)
}

func TestRecipes(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	c := s.signup("alice")

	code, _, _ := s.post(c, "/cuisines", url.Values{"cuisine_name": {"Italian"}})
	require.Equal(t, http.StatusSeeOther, code)
	italian, err := s.store.FindCuisineByName(t.Context(), "Italian", 1)
	require.NoError(t, err)
	base := fmt.Sprintf("/cuisines/%d/recipes", italian.ID)

	t.Run("short name", func(t *testing.T) {
		code, _, body := s.post(c, base, url.Values{"recipe_name": {"ab"}, "ingredients": {"flour"}})
		assert.Equal(t, http.StatusUnprocessableEntity, code)
		assert.Contains(t, body, requests.MsgRecipeName)
		assert.Contains(t, body, "flour")
	})

	code, loc, _ := s.post(c, base, url.Values{
		"recipe_name":  {"Carbonara"},
		"ingredients":  {"spaghetti\neggs\nguanciale"},
		"instructions": {"Cook the **pasta**."},
	})
	require.Equal(t, http.StatusSeeOther, code)
	id, err := s.store.FindRecipeIDByName(t.Context(), "carbonara", 1)
	require.NoError(t, err)
	recipe := fmt.Sprintf("%s/%d", base, id)
	assert.Equal(t, recipe, loc)

	t.Run("show", func(t *testing.T) {
		code, _, body := s.get(c, recipe)
		assert.Equal(t, http.StatusOK, code)
		assert.Contains(t, body, "Recipe has been added.")
		assert.Contains(t, body, "<li>eggs</li>")
		assert.Contains(t, body, "<strong>pasta</strong>")
	})

	t.Run("list counts", func(t *testing.T) {
		_, _, body := s.get(c, "/cuisines")
		assert.Contains(t, body, "1 recipes")

		_, _, body = s.get(c, base)
		assert.Contains(t, body, "Carbonara")
	})

	t.Run("update clears optional fields", func(t *testing.T) {
		code, loc, _ := s.post(c, recipe, url.Values{"recipe_name": {"Carbonara"}, "ingredients": {" "}})
		assert.Equal(t, http.StatusSeeOther, code)
		assert.Equal(t, recipe, loc)

		r, err := s.store.FindRecipeByID(t.Context(), id, italian.ID, 1)
		require.NoError(t, err)
		assert.Nil(t, r.Ingredients)
		assert.Nil(t, r.Instructions)
	})

	t.Run("wrong cuisine", func(t *testing.T) {
		code, loc, _ := s.get(c, fmt.Sprintf("/cuisines/%d/recipes/%d", italian.ID+100, id))
		assert.Equal(t, http.StatusFound, code)
		assert.Equal(t, "/cuisines", loc)
	})

	t.Run("missing recipe", func(t *testing.T) {
		code, loc, _ := s.get(c, base+"/999")
		assert.Equal(t, http.StatusFound, code)
		assert.Equal(t, base, loc)

		_, _, body := s.get(c, base)
		assert.Contains(t, body, "The specified recipe was not found.")
	})

	t.Run("delete", func(t *testing.T) {
		code, loc, _ := s.post(c, recipe+"/delete", nil)
		assert.Equal(t, http.StatusSeeOther, code)
		assert.Equal(t, base, loc)

		_, _, body := s.get(c, base)
		assert.Contains(t, body, "Recipe has been deleted.")

		// Deleting again redirects without a message.
		code, _, _ = s.post(c, recipe+"/delete", nil)
		assert.Equal(t, http.StatusSeeOther, code)
		_, _, body = s.get(c, base)
		assert.NotContains(t, body, "Recipe has been deleted.")
	})
}

func TestErrorPages(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	t.Run("not found", func(t *testing.T) {
		code, _, body := s.get(s.client(), "/nowhere")
		assert.Equal(t, http.StatusNotFound, code)
		assert.Contains(t, body, "does not exist")
	})

	t.Run("store failure", func(t *testing.T) {
		c := s.signup("alice")
		s.store.setFail(errors.New("connection refused"))
		t.Cleanup(func() { s.store.setFail(nil) })

		code, _, body := s.get(c, "/cuisines")
		assert.Equal(t, http.StatusInternalServerError, code)
		assert.Contains(t, body, "Something went wrong")
		assert.NotContains(t, body, "connection refused")
		assert.Contains(t, body, "Request ID")
	})
}
