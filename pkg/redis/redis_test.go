package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cookbook/pkg/logger"
)

func TestOpen_Validation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("empty URL", func(t *testing.T) {
		t.Parallel()

		client, err := Open(ctx, Config{}, logger.NewNope())
		require.ErrorIs(t, err, ErrNoRedisURL)
		require.Nil(t, client)
	})

	testCases := []struct {
		name string
		url  string
	}{
		{"http scheme", "http://localhost:6379"},
		{"no scheme", "localhost:6379"},
		{"postgres scheme", "postgres://localhost:6379"},
		{"invalid port", "redis://localhost:notaport"},
		{"invalid database", "redis://localhost:6379/notanumber"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			client, err := Open(ctx, Config{URL: tc.url}, logger.NewNope())
			require.ErrorIs(t, err, ErrInvalidRedisURL)
			require.Nil(t, client)
		})
	}
}

func TestParse_AppliesPoolSettings(t *testing.T) {
	t.Parallel()

	opts, err := parse(Config{
		URL:          "rediss://localhost:6380/2",
		PoolSize:     25,
		MinIdleConns: 4,
		ReadTimeout:  7 * time.Second,
	})
	require.NoError(t, err)
	require.Equal(t, 2, opts.DB)
	require.Equal(t, 25, opts.PoolSize)
	require.Equal(t, 4, opts.MinIdleConns)
	require.Equal(t, 7*time.Second, opts.ReadTimeout)
	require.NotNil(t, opts.TLSConfig)
}

func TestHealthcheck_NilClient(t *testing.T) {
	t.Parallel()

	err := Healthcheck(nil)(context.Background())
	require.ErrorIs(t, err, ErrUnhealthy)
}

type closer struct {
	closed bool
	err    error
}

func (c *closer) Close() error {
	c.closed = true
	return c.err
}

func TestShutdown(t *testing.T) {
	t.Parallel()

	c := &closer{err: errors.New("close error")}
	err := Shutdown(c)(context.Background())
	require.EqualError(t, err, "close error")
	require.True(t, c.closed)
}

func TestWait_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := wait(ctx, 10*time.Second)
	require.ErrorIs(t, err, context.Canceled)
	require.Less(t, time.Since(start), time.Second)
}
