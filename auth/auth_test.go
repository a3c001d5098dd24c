package auth_test

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cookbook/auth"
	"github.com/dmitrymomot/cookbook/internal"
	"github.com/dmitrymomot/cookbook/pkg/session"
)

type routes func(r internal.Router)

func (fn routes) Routes(r internal.Router) { fn(r) }

// newServer wires a tiny app: guarded routes echo what they received, and
// /login authenticates whoever posts a numeric "id" when "ok" is set.
func newServer(t *testing.T) (*httptest.Server, *http.Client) {
	t.Helper()

	app := internal.New(
		internal.WithSession(session.NewMemoryStore()),
		internal.WithHandlers(routes(func(r internal.Router) {
			r.GET("/flash", func(c internal.Context) error {
				return c.String(http.StatusOK, c.Flash())
			})
			r.POST("/login", func(c internal.Context) error {
				if c.Form("ok") == "" {
					return c.String(http.StatusUnprocessableEntity, "Invalid username or password.")
				}
				if err := c.AuthenticateSession(c.Form("id")); err != nil {
					return err
				}
				return auth.Resume(c)
			})
			r.POST("/logout", func(c internal.Context) error {
				if err := c.Logout(); err != nil {
					return err
				}
				return c.Redirect(http.StatusSeeOther, "/")
			})
			r.Group(func(r internal.Router) {
				r.Use(auth.RequireUser)
				r.GET("/cuisines", func(c internal.Context) error {
					id, _ := auth.UserID(c)
					return c.String(http.StatusOK, "list for "+strconv.FormatInt(id, 10)+" page="+c.Query("page"))
				})
				r.POST("/cuisines", func(c internal.Context) error {
					id, _ := auth.UserID(c)
					return c.String(http.StatusCreated, "created "+c.Form("cuisine_name")+" for "+strconv.FormatInt(id, 10))
				})
			})
		})),
	)

	srv := httptest.NewServer(app)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return srv, client
}

func read(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func TestRequireUser_RedirectsAnonymous(t *testing.T) {
	t.Parallel()
	srv, client := newServer(t)

	resp, err := client.Get(srv.URL + "/cuisines?page=2")
	require.NoError(t, err)
	_ = read(t, resp)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, auth.LoginPath, resp.Header.Get("Location"))

	resp, err = client.Get(srv.URL + "/flash")
	require.NoError(t, err)
	assert.Equal(t, auth.MessageSignInRequired, read(t, resp))
}

func TestResume_RedirectsToStashedRead(t *testing.T) {
	t.Parallel()
	srv, client := newServer(t)

	resp, err := client.Get(srv.URL + "/cuisines?page=2")
	require.NoError(t, err)
	_ = read(t, resp)

	resp, err = client.PostForm(srv.URL+"/login", url.Values{"ok": {"1"}, "id": {"5"}})
	require.NoError(t, err)
	_ = read(t, resp)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/cuisines?page=2", resp.Header.Get("Location"))
}

func TestResume_ReplaysStashedForm(t *testing.T) {
	t.Parallel()
	srv, client := newServer(t)

	resp, err := client.PostForm(srv.URL+"/cuisines", url.Values{"cuisine_name": {"Greek"}})
	require.NoError(t, err)
	_ = read(t, resp)
	require.Equal(t, http.StatusFound, resp.StatusCode)

	// A failed attempt leaves the pending entry alone.
	resp, err = client.PostForm(srv.URL+"/login", url.Values{"id": {"5"}})
	require.NoError(t, err)
	_ = read(t, resp)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, err = client.PostForm(srv.URL+"/login", url.Values{"ok": {"1"}, "id": {"5"}})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "created Greek for 5", read(t, resp))

	// The entry is consumed: logging in again lands on the default page.
	resp, err = client.PostForm(srv.URL+"/login", url.Values{"ok": {"1"}, "id": {"5"}})
	require.NoError(t, err)
	_ = read(t, resp)
	assert.Equal(t, auth.DefaultPath, resp.Header.Get("Location"))
}

func TestResume_DefaultsWithoutPending(t *testing.T) {
	t.Parallel()
	srv, client := newServer(t)

	resp, err := client.PostForm(srv.URL+"/login", url.Values{"ok": {"1"}, "id": {"9"}})
	require.NoError(t, err)
	_ = read(t, resp)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, auth.DefaultPath, resp.Header.Get("Location"))
}

func TestRequireUser_AuthenticatedDropsStalePending(t *testing.T) {
	t.Parallel()
	srv, client := newServer(t)

	resp, err := client.PostForm(srv.URL+"/login", url.Values{"ok": {"1"}, "id": {"3"}})
	require.NoError(t, err)
	_ = read(t, resp)

	// Logout keeps pending data, so a gated POST stashes it.
	resp, err = client.PostForm(srv.URL+"/logout", nil)
	require.NoError(t, err)
	_ = read(t, resp)
	resp, err = client.PostForm(srv.URL+"/cuisines", url.Values{"cuisine_name": {"Thai"}})
	require.NoError(t, err)
	_ = read(t, resp)
	require.Equal(t, http.StatusFound, resp.StatusCode)

	resp, err = client.PostForm(srv.URL+"/login", url.Values{"ok": {"1"}, "id": {"3"}})
	require.NoError(t, err)
	assert.Equal(t, "created Thai for 3", read(t, resp))

	resp, err = client.Get(srv.URL + "/cuisines")
	require.NoError(t, err)
	assert.Equal(t, "list for 3 page=", read(t, resp))
}

func TestPending_Replay(t *testing.T) {
	t.Parallel()

	assert.False(t, auth.Pending{Path: "/cuisines"}.Replay())
	assert.True(t, auth.Pending{Path: "/cuisines/1/delete", Form: url.Values{}}.Replay())
}
