package internal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/cookbook/pkg/session"
)

// flashKey is the session key holding the one-shot user-facing message.
const flashKey = "_flash"

// sessionState is shared by every Context created for one request: the
// per-middleware contexts and any forwarded request. One session is loaded
// and flushed once per request.
type sessionState struct {
	session *session.Session
	loaded  bool
	hooked  bool
}

type sessionStateKey struct{}

// Component is the interface for renderable templates.
type Component interface {
	Render(ctx context.Context, w io.Writer) error
}

// Context provides request/response access and helper methods.
// It also implements context.Context by delegating to the request context,
// so it can be passed straight to the store.
type Context interface {
	context.Context

	// Request returns the underlying *http.Request.
	Request() *http.Request

	// Response returns the wrapped http.ResponseWriter.
	Response() http.ResponseWriter

	// Context returns the request's context.Context.
	Context() context.Context

	// Param returns the URL parameter value by name.
	Param(name string) string

	// Query returns the query parameter value by name.
	Query(name string) string

	// QueryDefault returns the query parameter value or a default.
	QueryDefault(name, defaultValue string) string

	// Form returns the form value by name.
	Form(name string) string

	// PostForm returns all submitted body fields.
	PostForm() url.Values

	// Method returns the request method.
	Method() string

	// UserID returns the user bound to the session, or "".
	UserID() string

	// IsAuthenticated reports whether a user is bound to the session.
	IsAuthenticated() bool

	// Header returns the request header value by name.
	Header(name string) string

	// SetHeader sets a response header.
	SetHeader(name, value string)

	// String writes a plain text response.
	String(code int, s string) error

	// NoContent writes a response with no body.
	NoContent(code int) error

	// Redirect redirects to url with the given status code.
	Redirect(code int, url string) error

	// Error creates an HTTPError without writing a response.
	// Return it from the handler to reach the error handler.
	Error(code int, message string, opts ...HTTPErrorOption) *HTTPError

	// Render writes component as HTML with the given status code.
	Render(code int, component Component) error

	// Written reports whether a response has already been written.
	Written() bool

	// Logger returns the app logger.
	Logger() *slog.Logger

	LogDebug(msg string, attrs ...any)
	LogInfo(msg string, attrs ...any)
	LogWarn(msg string, attrs ...any)
	LogError(msg string, attrs ...any)

	// Set stores a value in the request context.
	Set(key any, value any)

	// Get retrieves a value from the request context.
	Get(key any) any

	// SetContext replaces the request context, e.g. with a deadline-bound one.
	SetContext(ctx context.Context)

	// Session returns the current session, loading it on first use.
	// Returns nil, nil for anonymous callers without a session.
	// Returns session.ErrNotConfigured if no session store was configured.
	Session() (*session.Session, error)

	// InitSession creates a new session and sets its cookie.
	InitSession() error

	// AuthenticateSession binds userID to the session, creating one if
	// needed, and rotates the session token. Other values are kept.
	AuthenticateSession(userID string) error

	// Logout unbinds the user from the session and keeps every other value.
	Logout() error

	// SessionValue returns a session value, or nil if absent.
	SessionValue(key string) (any, error)

	// SetSessionValue stores a session value, creating a session if needed.
	SetSessionValue(key string, val any) error

	// DeleteSessionValue removes a session value.
	DeleteSessionValue(key string) error

	// DestroySession removes the session and clears the cookie.
	DestroySession() error

	// Flash returns and clears the one-shot message, or "".
	Flash() string

	// SetFlash stores a one-shot message for the next rendered page.
	SetFlash(message string) error

	// Forward dispatches a request for target through the app's router as
	// part of the current response. The new request carries form as its
	// body fields and shares the current session, already authenticated
	// if the caller just logged in.
	Forward(method, target string, form url.Values) error

	// ResponseWriter returns the wrapped response writer.
	ResponseWriter() *ResponseWriter
}

// requestContext implements the Context interface.
type requestContext struct {
	app            *App
	response       http.ResponseWriter
	request        *http.Request
	responseWriter *ResponseWriter
	logger         *slog.Logger
	sessionManager *SessionManager
	state          *sessionState
}

// newContext creates a context with the response wrapper.
func newContext(w http.ResponseWriter, r *http.Request, app *App) *requestContext {
	state, ok := r.Context().Value(sessionStateKey{}).(*sessionState)
	if !ok {
		state = &sessionState{}
		r = r.WithContext(context.WithValue(r.Context(), sessionStateKey{}, state))
	}

	rw := NewResponseWriter(w)
	return &requestContext{
		app:            app,
		request:        r,
		response:       rw,
		responseWriter: rw,
		logger:         app.logger,
		sessionManager: app.sessionManager,
		state:          state,
	}
}

func (c *requestContext) Request() *http.Request {
	return c.request
}

func (c *requestContext) Response() http.ResponseWriter {
	return c.response
}

func (c *requestContext) Context() context.Context {
	return c.request.Context()
}

func (c *requestContext) Param(name string) string {
	return chi.URLParam(c.request, name)
}

func (c *requestContext) Query(name string) string {
	return c.request.URL.Query().Get(name)
}

func (c *requestContext) QueryDefault(name, defaultValue string) string {
	if v := c.Query(name); v != "" {
		return v
	}
	return defaultValue
}

func (c *requestContext) Form(name string) string {
	return c.request.FormValue(name)
}

func (c *requestContext) PostForm() url.Values {
	if c.request.PostForm == nil {
		_ = c.request.ParseForm()
	}
	return c.request.PostForm
}

func (c *requestContext) Method() string {
	return c.request.Method
}

func (c *requestContext) Deadline() (time.Time, bool) {
	return c.request.Context().Deadline()
}

func (c *requestContext) Done() <-chan struct{} {
	return c.request.Context().Done()
}

func (c *requestContext) Err() error {
	return c.request.Context().Err()
}

func (c *requestContext) Value(key any) any {
	return c.request.Context().Value(key)
}

func (c *requestContext) UserID() string {
	sess, err := c.Session()
	if err != nil || sess == nil || sess.UserID == nil {
		return ""
	}
	return *sess.UserID
}

func (c *requestContext) IsAuthenticated() bool {
	return c.UserID() != ""
}

func (c *requestContext) Header(name string) string {
	return c.request.Header.Get(name)
}

func (c *requestContext) SetHeader(name, value string) {
	c.response.Header().Set(name, value)
}

func (c *requestContext) String(code int, s string) error {
	c.response.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.response.WriteHeader(code)
	_, err := io.WriteString(c.response, s)
	return err
}

func (c *requestContext) NoContent(code int) error {
	c.response.WriteHeader(code)
	return nil
}

func (c *requestContext) Redirect(code int, url string) error {
	http.Redirect(c.response, c.request, url, code)
	return nil
}

func (c *requestContext) Error(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(code, message, opts...)
}

func (c *requestContext) Render(code int, component Component) error {
	c.response.Header().Set("Content-Type", "text/html; charset=utf-8")
	c.response.WriteHeader(code)
	return component.Render(c.request.Context(), c.response)
}

func (c *requestContext) Written() bool {
	return c.responseWriter.Written()
}

func (c *requestContext) Logger() *slog.Logger {
	return c.logger
}

func (c *requestContext) LogDebug(msg string, attrs ...any) {
	c.logger.DebugContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogInfo(msg string, attrs ...any) {
	c.logger.InfoContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogWarn(msg string, attrs ...any) {
	c.logger.WarnContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogError(msg string, attrs ...any) {
	c.logger.ErrorContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) Set(key, value any) {
	ctx := context.WithValue(c.request.Context(), key, value)
	c.request = c.request.WithContext(ctx)
}

func (c *requestContext) Get(key any) any {
	return c.request.Context().Value(key)
}

func (c *requestContext) SetContext(ctx context.Context) {
	c.request = c.request.WithContext(ctx)
}

// registerSessionHook persists a dirty session right before the headers go
// out. Writers of inner contexts wrap this one, so a hook registered here
// runs whichever context writes the response.
func (c *requestContext) registerSessionHook() {
	if c.state.hooked || c.sessionManager == nil {
		return
	}
	c.state.hooked = true
	state := c.state
	c.responseWriter.OnBeforeWrite(func() {
		if state.session == nil || !state.session.IsDirty() {
			return
		}
		// Best effort: the response is already on its way.
		if err := c.sessionManager.Store().Update(c.Context(), state.session); err != nil {
			c.logger.ErrorContext(c.Context(), "failed to save session", slog.String("error", err.Error()))
			return
		}
		state.session.ClearDirty()
	})
}

func (c *requestContext) Session() (*session.Session, error) {
	if c.sessionManager == nil {
		return nil, session.ErrNotConfigured
	}
	c.registerSessionHook()

	if c.state.loaded {
		return c.state.session, nil
	}

	sess, err := c.sessionManager.LoadSession(c.Context(), c.request)
	if err != nil {
		return nil, err
	}
	c.state.session = sess
	c.state.loaded = true
	return sess, nil
}

func (c *requestContext) InitSession() error {
	if c.sessionManager == nil {
		return session.ErrNotConfigured
	}
	c.registerSessionHook()

	sess, err := c.sessionManager.CreateSession(c.Context(), c.request)
	if err != nil {
		return err
	}
	c.state.session = sess
	c.state.loaded = true
	c.sessionManager.SaveSession(c.response, sess)
	return nil
}

// ensureSession returns the current session, creating one if there is none.
func (c *requestContext) ensureSession() (*session.Session, error) {
	sess, err := c.Session()
	if err != nil {
		return nil, err
	}
	if sess != nil {
		return sess, nil
	}
	if err := c.InitSession(); err != nil {
		return nil, err
	}
	return c.state.session, nil
}

func (c *requestContext) AuthenticateSession(userID string) error {
	sess, err := c.ensureSession()
	if err != nil {
		return err
	}

	sess.SetUserID(userID)
	if err := c.sessionManager.RotateToken(c.Context(), sess); err != nil {
		return err
	}
	c.sessionManager.SaveSession(c.response, sess)
	return nil
}

func (c *requestContext) Logout() error {
	sess, err := c.Session()
	if err != nil {
		return err
	}
	if sess != nil {
		sess.ClearUserID()
	}
	return nil
}

func (c *requestContext) SessionValue(key string) (any, error) {
	sess, err := c.Session()
	if err != nil || sess == nil {
		return nil, err
	}
	val, _ := sess.GetValue(key)
	return val, nil
}

func (c *requestContext) SetSessionValue(key string, val any) error {
	sess, err := c.ensureSession()
	if err != nil {
		return err
	}
	sess.SetValue(key, val)
	return nil
}

func (c *requestContext) DeleteSessionValue(key string) error {
	sess, err := c.Session()
	if err != nil || sess == nil {
		return err
	}
	sess.DeleteValue(key)
	return nil
}

func (c *requestContext) DestroySession() error {
	if c.sessionManager == nil {
		return session.ErrNotConfigured
	}
	if sess := c.state.session; sess != nil {
		if err := c.sessionManager.Store().Delete(c.Context(), sess.ID); err != nil {
			return err
		}
	}
	c.sessionManager.DeleteSession(c.response)
	c.state.session = nil
	c.state.loaded = true
	return nil
}

func (c *requestContext) Flash() string {
	sess, err := c.Session()
	if err != nil || sess == nil {
		return ""
	}
	v, _ := sess.PopValue(flashKey)
	msg, _ := v.(string)
	return msg
}

func (c *requestContext) SetFlash(message string) error {
	return c.SetSessionValue(flashKey, message)
}

func (c *requestContext) Forward(method, target string, form url.Values) error {
	u, err := url.Parse(target)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidForwardTarget, target)
	}

	// A nil route context makes chi route the request from scratch. The
	// session state travels along in the context.
	ctx := context.WithValue(c.request.Context(), chi.RouteCtxKey, nil)

	if form == nil {
		form = url.Values{}
	}
	all := make(url.Values, len(form))
	for k, v := range form {
		all[k] = append([]string(nil), v...)
	}
	for k, v := range u.Query() {
		all[k] = append(all[k], v...)
	}

	req := c.request.Clone(ctx)
	req.Method = strings.ToUpper(method)
	req.URL = u
	req.RequestURI = u.RequestURI()
	req.Body = http.NoBody
	req.GetBody = nil
	req.ContentLength = 0
	req.Header.Del("Content-Type")
	req.Header.Del("Content-Length")
	req.PostForm = form
	req.Form = all
	req.MultipartForm = nil

	c.LogDebug("forwarding request", slog.String("method", req.Method), slog.String("path", u.Path))
	c.app.router.ServeHTTP(c.response, req)
	return nil
}

func (c *requestContext) ResponseWriter() *ResponseWriter {
	return c.responseWriter
}
