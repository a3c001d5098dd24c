package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"
)

const defaultAddress = ":8080"

// server owns the HTTP server of one Run call.
type server struct {
	http *http.Server
	cfg  *runConfig
	log  *slog.Logger
}

func newServer(h http.Handler, addr string, cfg *runConfig, log *slog.Logger) *server {
	if addr == "" {
		addr = defaultAddress
	}
	return &server{
		http: &http.Server{
			Addr:              addr,
			Handler:           h,
			ReadTimeout:       cfg.readTimeout,
			WriteTimeout:      cfg.writeTimeout,
			IdleTimeout:       defaultIdleTimeout,
			ReadHeaderTimeout: defaultReadHeaderTimeout,
			MaxHeaderBytes:    defaultMaxHeaderBytes,
		},
		cfg: cfg,
		log: log,
	}
}

// run serves until the base context ends or SIGINT/SIGTERM arrives, then
// shuts down. A serve failure also triggers the shutdown and is returned.
func (s *server) run() error {
	base := s.cfg.baseCtx
	if base == nil {
		base = context.Background()
	}
	ctx, stop := signal.NotifyContext(base, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.http.Addr, err)
	}
	s.log.Info("server starting",
		slog.String("address", ln.Addr().String()),
		slog.Duration("write_timeout", s.http.WriteTimeout),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.http.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return s.shutdown()
	})
	return g.Wait()
}

// shutdown drains the server, then runs the hooks in registration order.
// All of it shares one shutdownTimeout budget.
func (s *server) shutdown() error {
	s.log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.shutdownTimeout)
	defer cancel()

	var errs []error
	if err := s.http.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	for _, hook := range s.cfg.shutdownHooks {
		if err := hook(ctx); err != nil {
			s.log.Error("shutdown hook failed", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		s.log.Error("shutdown completed with errors")
		return err
	}
	s.log.Info("shutdown completed")
	return nil
}
