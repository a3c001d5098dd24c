package middlewares_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/dmitrymomot/cookbook/internal"
	"github.com/dmitrymomot/cookbook/pkg/session"
)

type testContext struct {
	response *internal.ResponseWriter
	request  *http.Request
	logger   *slog.Logger
}

func newTestContext(w http.ResponseWriter, r *http.Request) *testContext {
	return &testContext{
		response: internal.NewResponseWriter(w),
		request:  r,
		logger:   slog.New(slog.DiscardHandler),
	}
}

func (c *testContext) Request() *http.Request        { return c.request }
func (c *testContext) Response() http.ResponseWriter { return c.response }
func (c *testContext) Context() context.Context      { return c.request.Context() }
func (c *testContext) Param(string) string           { return "" }
func (c *testContext) Query(name string) string      { return c.request.URL.Query().Get(name) }

func (c *testContext) QueryDefault(name, defaultValue string) string {
	if v := c.Query(name); v != "" {
		return v
	}
	return defaultValue
}

func (c *testContext) Form(name string) string      { return c.request.FormValue(name) }
func (c *testContext) PostForm() url.Values         { return c.request.PostForm }
func (c *testContext) Method() string               { return c.request.Method }
func (c *testContext) UserID() string               { return "" }
func (c *testContext) IsAuthenticated() bool        { return false }
func (c *testContext) Header(name string) string    { return c.request.Header.Get(name) }
func (c *testContext) SetHeader(name, value string) { c.response.Header().Set(name, value) }

func (c *testContext) String(code int, s string) error {
	c.response.WriteHeader(code)
	_, err := c.response.Write([]byte(s))
	return err
}

func (c *testContext) NoContent(code int) error { c.response.WriteHeader(code); return nil }

func (c *testContext) Redirect(code int, url string) error {
	http.Redirect(c.response, c.request, url, code)
	return nil
}

func (c *testContext) Error(code int, message string, opts ...internal.HTTPErrorOption) *internal.HTTPError {
	return internal.NewHTTPError(code, message, opts...)
}

func (c *testContext) Render(code int, component internal.Component) error {
	c.response.WriteHeader(code)
	return component.Render(c.request.Context(), c.response)
}

func (c *testContext) Written() bool                     { return c.response.Written() }
func (c *testContext) Logger() *slog.Logger              { return c.logger }
func (c *testContext) LogDebug(msg string, attrs ...any) { c.logger.Debug(msg, attrs...) }
func (c *testContext) LogInfo(msg string, attrs ...any)  { c.logger.Info(msg, attrs...) }
func (c *testContext) LogWarn(msg string, attrs ...any)  { c.logger.Warn(msg, attrs...) }
func (c *testContext) LogError(msg string, attrs ...any) { c.logger.Error(msg, attrs...) }

func (c *testContext) Set(key, value any) {
	c.request = c.request.WithContext(context.WithValue(c.request.Context(), key, value))
}

func (c *testContext) Get(key any) any                { return c.request.Context().Value(key) }
func (c *testContext) SetContext(ctx context.Context) { c.request = c.request.WithContext(ctx) }

func (c *testContext) Session() (*session.Session, error)       { return nil, nil }
func (c *testContext) InitSession() error                       { return nil }
func (c *testContext) AuthenticateSession(string) error         { return nil }
func (c *testContext) Logout() error                            { return nil }
func (c *testContext) SessionValue(string) (any, error)         { return nil, nil }
func (c *testContext) SetSessionValue(string, any) error        { return nil }
func (c *testContext) DeleteSessionValue(string) error          { return nil }
func (c *testContext) DestroySession() error                    { return nil }
func (c *testContext) Flash() string                            { return "" }
func (c *testContext) SetFlash(string) error                    { return nil }
func (c *testContext) Forward(string, string, url.Values) error { return nil }
func (c *testContext) ResponseWriter() *internal.ResponseWriter { return c.response }
func (c *testContext) Deadline() (time.Time, bool)              { return c.request.Context().Deadline() }
func (c *testContext) Done() <-chan struct{}                    { return c.request.Context().Done() }
func (c *testContext) Err() error                               { return c.request.Context().Err() }
func (c *testContext) Value(key any) any                        { return c.request.Context().Value(key) }

var _ internal.Context = (*testContext)(nil)
