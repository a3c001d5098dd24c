package middlewares_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cookbook/internal"
	"github.com/dmitrymomot/cookbook/middlewares"
)

func TestTimeout(t *testing.T) {
	t.Parallel()

	t.Run("passes through when handler completes in time", func(t *testing.T) {
		t.Parallel()

		ctx := newTestContext(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		handler := middlewares.Timeout(time.Second)(func(c internal.Context) error {
			_, ok := c.Deadline()
			require.True(t, ok)
			return nil
		})

		require.NoError(t, handler(ctx))
	})

	t.Run("reports TimeoutError when the deadline passed", func(t *testing.T) {
		t.Parallel()

		ctx := newTestContext(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		handler := middlewares.Timeout(10 * time.Millisecond)(func(c internal.Context) error {
			<-c.Done()
			return c.Err()
		})

		err := handler(ctx)
		te, ok := middlewares.AsTimeoutError(err)
		require.True(t, ok)
		require.Equal(t, 10*time.Millisecond, te.Duration)
	})

	t.Run("keeps unrelated errors", func(t *testing.T) {
		t.Parallel()

		sentinel := errors.New("validation")
		ctx := newTestContext(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		handler := middlewares.Timeout(0)(func(c internal.Context) error { return sentinel })

		err := handler(ctx)
		require.ErrorIs(t, err, sentinel)
		_, ok := middlewares.AsTimeoutError(err)
		require.False(t, ok)
	})
}
