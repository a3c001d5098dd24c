// Package auth implements the sign-in gate and the resume-after-login
// protocol.
//
// An anonymous request to a guarded route is remembered in the session as a
// Pending entry: its path and, for state-changing requests, the submitted
// form fields. After a successful login, Resume either replays the stored
// submission through the router or redirects to the stored path.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrymomot/cookbook/internal"
	"github.com/dmitrymomot/cookbook/pkg/logger"
)

// Flash messages and locations used by the gate.
const (
	MessageSignInRequired = "You must be signed in to do that."

	LoginPath   = "/login"
	DefaultPath = "/cuisines"
)

// pendingKey is the session key holding the JSON-encoded Pending entry.
const pendingKey = "_pending"

// ErrInvalidUserID is returned when the session carries a user id that is
// not a positive integer.
var ErrInvalidUserID = errors.New("auth: invalid user id in session")

// Pending is the request an anonymous caller tried to make.
// A non-nil Form marks a state-changing request whose fields are replayed
// after login.
type Pending struct {
	Path string     `json:"path"`
	Form url.Values `json:"form"`
}

// Replay reports whether the entry holds a form submission.
func (p Pending) Replay() bool {
	return p.Form != nil
}

// Stash stores p in the session, replacing any previous entry.
func Stash(c internal.Context, p Pending) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("auth: encode pending request: %w", err)
	}
	return c.SetSessionValue(pendingKey, string(raw))
}

// Take removes the pending entry from the session and returns it.
// ok is false when there is none.
func Take(c internal.Context) (p Pending, ok bool, err error) {
	v, err := c.SessionValue(pendingKey)
	if err != nil || v == nil {
		return Pending{}, false, err
	}
	if err := c.DeleteSessionValue(pendingKey); err != nil {
		return Pending{}, false, err
	}

	raw, _ := v.(string)
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		// A corrupted entry is dropped rather than blocking every login.
		c.LogWarn("discarding unreadable pending request", slog.String("error", err.Error()))
		return Pending{}, false, nil
	}
	return p, true, nil
}

// Clear drops the pending entry, if any.
func Clear(c internal.Context) error {
	return c.DeleteSessionValue(pendingKey)
}

// userIDKey stores the authenticated user id in the request context.
type userIDKey struct{}

// RequireUser guards a route. Authenticated callers pass through, dropping
// any stale pending entry, and the numeric user id becomes available via
// UserID. Anonymous callers have their request stashed and are sent to the
// login page with a flash message.
func RequireUser(next internal.HandlerFunc) internal.HandlerFunc {
	return func(c internal.Context) error {
		if !c.IsAuthenticated() {
			p := Pending{Path: c.Request().URL.RequestURI()}
			if m := c.Method(); m != http.MethodGet && m != http.MethodHead {
				p.Form = url.Values{}
				for k, v := range c.PostForm() {
					p.Form[k] = append([]string(nil), v...)
				}
			}
			if err := Stash(c, p); err != nil {
				return err
			}
			if err := c.SetFlash(MessageSignInRequired); err != nil {
				return err
			}
			return c.Redirect(http.StatusFound, LoginPath)
		}

		id, err := strconv.ParseInt(c.UserID(), 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("%w: %q", ErrInvalidUserID, c.UserID())
		}
		if err := Clear(c); err != nil {
			return err
		}
		c.Set(userIDKey{}, id)
		return next(c)
	}
}

// UserID returns the id stored by RequireUser.
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey{}).(int64)
	return id, ok
}

// Resume finishes a successful login. A stashed form submission is replayed
// as POST to its path under the now authenticated session; a stashed read is
// redirected to; otherwise the caller lands on DefaultPath.
func Resume(c internal.Context) error {
	p, ok, err := Take(c)
	if err != nil {
		return err
	}

	switch {
	case ok && p.Replay():
		c.LogInfo("replaying request interrupted by sign-in", slog.String("path", p.Path))
		return c.Forward(http.MethodPost, p.Path, p.Form)
	case ok && p.Path != "":
		return c.Redirect(http.StatusFound, p.Path)
	default:
		return c.Redirect(http.StatusFound, DefaultPath)
	}
}

// UserIDExtractor returns a ContextExtractor that adds "user_id" to log
// entries of authenticated requests.
func UserIDExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id, ok := UserID(ctx); ok {
			return slog.Int64("user_id", id), true
		}
		return slog.Attr{}, false
	}
}
