package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dmitrymomot/cookbook/auth"
	"github.com/dmitrymomot/cookbook/internal"
	"github.com/dmitrymomot/cookbook/pkg/password"
	"github.com/dmitrymomot/cookbook/repository"
	"github.com/dmitrymomot/cookbook/requests"
	"github.com/dmitrymomot/cookbook/views"
)

// Auth serves signup, login and logout.
type Auth struct {
	store Store
	views *views.Views
}

// NewAuth creates the account handler.
func NewAuth(store Store, v *views.Views) *Auth {
	return &Auth{store: store, views: v}
}

// Routes implements internal.Handler.
func (h *Auth) Routes(r internal.Router) {
	r.GET("/signup", h.signupForm)
	r.POST("/signup", h.signup)
	r.GET("/login", h.loginForm)
	r.POST("/login", h.login)
	r.POST("/logout", h.logout)
}

func (h *Auth) signupForm(c internal.Context) error {
	return c.Render(http.StatusOK, h.views.Render(views.PageSignup, page(c, "Sign up", "", views.Signup{})))
}

func (h *Auth) signup(c internal.Context) error {
	req := requests.ParseSignup(c.PostForm())

	msg, err := req.Validate(c, h.store)
	if err != nil {
		return err
	}
	if msg == "" {
		_, err = h.store.CreateUser(c, req.Username, req.Password)
		switch {
		case errors.Is(err, repository.ErrConflict):
			msg = requests.MsgUsernameTaken
		case errors.Is(err, password.ErrTooLong):
			msg = requests.MsgPasswordPattern
		case err != nil:
			return err
		}
	}
	if msg != "" {
		return c.Render(http.StatusUnprocessableEntity,
			h.views.Render(views.PageSignup, page(c, "Sign up", msg, views.Signup{Username: req.Username})))
	}

	c.LogInfo("user signed up", "username", req.Username)
	return flashRedirect(c, http.StatusSeeOther, msgAccountCreated, auth.LoginPath)
}

func (h *Auth) loginForm(c internal.Context) error {
	return c.Render(http.StatusOK, h.views.Render(views.PageLogin, page(c, "Log in", "", views.Login{})))
}

// login authenticates the caller and resumes the request the sign-in gate
// interrupted, if any. A failed attempt keeps the pending request.
func (h *Auth) login(c internal.Context) error {
	req := requests.ParseLogin(c.PostForm())

	user, err := h.store.FindUserByUsername(c, req.Username)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if err != nil || !password.Verify(req.Password, user.PasswordHash) {
		return c.Render(http.StatusUnprocessableEntity,
			h.views.Render(views.PageLogin, page(c, "Log in", msgInvalidLogin, views.Login{Username: req.Username})))
	}

	if err := c.AuthenticateSession(strconv.FormatInt(user.ID, 10)); err != nil {
		return err
	}
	if err := c.SetFlash(msgWelcome); err != nil {
		return err
	}
	return auth.Resume(c)
}

func (h *Auth) logout(c internal.Context) error {
	if err := c.Logout(); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}
