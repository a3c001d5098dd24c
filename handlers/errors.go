package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/cookbook/internal"
	"github.com/dmitrymomot/cookbook/middlewares"
	"github.com/dmitrymomot/cookbook/views"
)

// ErrorHandler renders handler errors as the error page. HTTP errors keep
// their status and message; timeouts become 503; anything else is logged and
// shown as a 500 carrying the request id.
func ErrorHandler(v *views.Views) internal.ErrorHandler {
	return func(c internal.Context, err error) error {
		data := views.Error{
			Code:      http.StatusInternalServerError,
			Message:   "Something went wrong. Please try again later.",
			RequestID: middlewares.GetRequestID(c),
		}

		if httpErr := internal.AsHTTPError(err); httpErr != nil {
			data.Code = httpErr.StatusCode()
			data.Title = httpErr.Title
			if httpErr.Message != "" {
				data.Message = httpErr.Message
			}
		} else if _, ok := middlewares.AsTimeoutError(err); ok || errors.Is(err, context.DeadlineExceeded) {
			data.Code = http.StatusServiceUnavailable
			data.Message = "The request took too long. Please try again."
		}

		if data.Code >= http.StatusInternalServerError {
			attrs := []any{slog.String("error", err.Error()), slog.Int("status", data.Code)}
			if pe, ok := middlewares.AsPanicError(err); ok && pe.Stack != nil {
				attrs = append(attrs, slog.String("stack", string(pe.Stack)))
			}
			c.LogError("request failed", attrs...)
		}

		return c.Render(data.Code, v.Render(views.PageError, page(c, data.StatusText(), "", data)))
	}
}

// NotFound renders the 404 page.
func NotFound(v *views.Views) internal.HandlerFunc {
	return func(c internal.Context) error {
		data := views.Error{Code: http.StatusNotFound, Message: "The page you are looking for does not exist."}
		return c.Render(data.Code, v.Render(views.PageError, page(c, data.StatusText(), "", data)))
	}
}

// MethodNotAllowed renders the 405 page.
func MethodNotAllowed(v *views.Views) internal.HandlerFunc {
	return func(c internal.Context) error {
		data := views.Error{Code: http.StatusMethodNotAllowed, Message: "That action is not supported here."}
		return c.Render(data.Code, v.Render(views.PageError, page(c, data.StatusText(), "", data)))
	}
}
