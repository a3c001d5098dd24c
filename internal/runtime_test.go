package internal

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cookbook/pkg/logger"
)

func TestNewServer_Timeouts(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		s := newServer(http.NotFoundHandler(), "", buildRunConfig(), logger.NewNope())
		assert.Equal(t, defaultAddress, s.http.Addr)
		assert.Equal(t, defaultReadTimeout, s.http.ReadTimeout)
		assert.Equal(t, defaultWriteTimeout, s.http.WriteTimeout)
	})

	t.Run("options", func(t *testing.T) {
		t.Parallel()
		cfg := buildRunConfig(ReadTimeout(5*time.Second), WriteTimeout(50*time.Second), WriteTimeout(0))
		s := newServer(http.NotFoundHandler(), "127.0.0.1:0", cfg, logger.NewNope())
		assert.Equal(t, 5*time.Second, s.http.ReadTimeout)
		assert.Equal(t, 50*time.Second, s.http.WriteTimeout)
	})
}

func TestServer_RunStopsWithContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	var order []string
	cfg := buildRunConfig(
		WithContext(ctx),
		ShutdownHook(func(context.Context) error { order = append(order, "pool"); return nil }),
		ShutdownHook(func(context.Context) error { order = append(order, "redis"); return nil }),
	)

	done := make(chan error, 1)
	go func() { done <- newServer(http.NotFoundHandler(), "127.0.0.1:0", cfg, logger.NewNope()).run() }()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.Equal(t, []string{"pool", "redis"}, order)
}

func TestServer_RunReportsHookErrors(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	boom := errors.New("close failed")
	cfg := buildRunConfig(WithContext(ctx), ShutdownHook(func(context.Context) error { return boom }))

	err := newServer(http.NotFoundHandler(), "127.0.0.1:0", cfg, logger.NewNope()).run()
	require.ErrorIs(t, err, boom)
}

func TestServer_RunListenError(t *testing.T) {
	t.Parallel()

	err := newServer(http.NotFoundHandler(), "127.0.0.1:-1", buildRunConfig(), logger.NewNope()).run()
	require.Error(t, err)
}
