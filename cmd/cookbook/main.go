// Command cookbook runs the recipe catalog.
//
//	cookbook [-config file] [serve|migrate|reset]
//
// serve (the default) applies pending migrations and starts the HTTP server,
// migrate only applies migrations, reset deletes every user, cuisine and
// recipe.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/cookbook"
	"github.com/dmitrymomot/cookbook/auth"
	"github.com/dmitrymomot/cookbook/config"
	"github.com/dmitrymomot/cookbook/handlers"
	"github.com/dmitrymomot/cookbook/middlewares"
	"github.com/dmitrymomot/cookbook/pkg/db"
	"github.com/dmitrymomot/cookbook/pkg/logger"
	"github.com/dmitrymomot/cookbook/pkg/redis"
	"github.com/dmitrymomot/cookbook/pkg/session"
	"github.com/dmitrymomot/cookbook/repository"
	"github.com/dmitrymomot/cookbook/views"
)

const sentryFlushTimeout = 2 * time.Second

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-config file] [serve|migrate|reset]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log := logger.New(cfg.Log, middlewares.RequestIDExtractor(), auth.UserIDExtractor()).
		With(slog.String("component", "cookbook"))

	cmd := flag.Arg(0)
	if cmd == "" {
		cmd = "serve"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cmd {
	case "serve":
		err = serve(ctx, cfg, log)
	case "migrate":
		err = withPool(ctx, cfg, log, func(*pgxpool.Pool) error {
			log.Info("migrations applied")
			return nil
		})
	case "reset":
		err = withPool(ctx, cfg, log, func(pool *pgxpool.Pool) error {
			if err := repository.New(pool).WipeAll(ctx); err != nil {
				return err
			}
			log.Info("all users, cuisines and recipes deleted")
			return nil
		})
	default:
		flag.Usage()
		os.Exit(2)
	}

	_ = logger.Flush(sentryFlushTimeout)(ctx)
	if err != nil {
		log.Error("cookbook failed", slog.String("command", cmd), slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// withPool connects, migrates and runs fn, closing the pool afterwards.
func withPool(ctx context.Context, cfg config.Config, log *slog.Logger, fn func(*pgxpool.Pool) error) error {
	pool, err := connect(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer pool.Close()
	return fn(pool)
}

func connect(ctx context.Context, cfg config.Config, log *slog.Logger) (*pgxpool.Pool, error) {
	pool, err := db.Connect(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx, pool, repository.Migrations(), cfg.Database.MigrationsTable, log); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func serve(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	pool, err := connect(ctx, cfg, log)
	if err != nil {
		return err
	}

	v, err := views.New()
	if err != nil {
		pool.Close()
		return err
	}

	hooks := []cookbook.RunOption{cookbook.ShutdownHook(db.Shutdown(pool))}
	checks := []cookbook.HealthOption{cookbook.WithReadinessCheck("postgres", db.Healthcheck(pool))}

	var store cookbook.SessionStore
	switch cfg.Session.Backend {
	case config.SessionRedis:
		client, err := redis.Open(ctx, cfg.Redis, log)
		if err != nil {
			pool.Close()
			return err
		}
		store = session.NewRedisStore(client, session.WithKeyPrefix(cfg.Session.KeyPrefix))
		hooks = append(hooks, cookbook.ShutdownHook(redis.Shutdown(client)))
		checks = append(checks, cookbook.WithReadinessCheck("redis", redis.Healthcheck(client)))
	default:
		mem := session.NewMemoryStore()
		store = mem
		hooks = append(hooks, cookbook.ShutdownHook(func(context.Context) error { return mem.Close() }))
	}

	repo := repository.New(pool)
	app := cookbook.New(
		cookbook.WithCustomLogger(log),
		cookbook.WithMiddleware(
			middlewares.RequestID(),
			middlewares.Recover(),
			middlewares.Logging(),
			middlewares.Timeout(cfg.Server.RequestTimeout),
		),
		cookbook.WithSession(store,
			cookbook.WithSessionCookieName(cfg.Session.CookieName),
			cookbook.WithSessionMaxAge(cfg.Session.MaxAge),
			cookbook.WithSessionSecure(cfg.Session.Secure),
		),
		cookbook.WithStaticFiles("/static/", views.Assets(), "static"),
		cookbook.WithHealthChecks(checks...),
		cookbook.WithErrorHandler(handlers.ErrorHandler(v)),
		cookbook.WithNotFoundHandler(handlers.NotFound(v)),
		cookbook.WithMethodNotAllowedHandler(handlers.MethodNotAllowed(v)),
		cookbook.WithHandlers(
			handlers.NewPages(v),
			handlers.NewAuth(repo, v),
			handlers.NewCuisines(repo, v, cfg.Catalog),
			handlers.NewRecipes(repo, v, cfg.Catalog),
		),
	)

	return app.Run(cfg.Server.Address, append(hooks,
		cookbook.WithContext(ctx),
		cookbook.ReadTimeout(cfg.Server.ReadTimeout),
		cookbook.WriteTimeout(cfg.Server.WriteDeadline()),
		cookbook.ShutdownTimeout(cfg.Server.ShutdownTimeout),
	)...)
}
