// Package config loads the application configuration.
//
// Values are applied in order, each layer overriding the previous one:
// envDefault tags, an optional YAML file, a .env file and finally the
// process environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/cookbook/handlers"
	"github.com/dmitrymomot/cookbook/pkg/db"
	"github.com/dmitrymomot/cookbook/pkg/logger"
	"github.com/dmitrymomot/cookbook/pkg/redis"
)

// Session backends.
const (
	SessionMemory = "memory"
	SessionRedis  = "redis"
)

var (
	ErrInvalidSessionBackend = errors.New("config: session backend must be memory or redis")
	ErrRedisURLRequired      = errors.New("config: redis url is required for the redis session backend")
	ErrDatabaseURLRequired   = errors.New("config: database url is required")
)

// Config is the application configuration.
type Config struct {
	Server   Server           `yaml:"server"`
	Database db.Config        `yaml:"database"`
	Redis    redis.Config     `yaml:"redis"`
	Session  Session          `yaml:"session"`
	Log      logger.Config    `yaml:"log"`
	Catalog  handlers.Catalog `yaml:"catalog"`
}

// Server configures the HTTP server.
type Server struct {
	Address         string        `env:"HTTP_ADDRESS"          envDefault:":8080" yaml:"address"`
	RequestTimeout  time.Duration `env:"HTTP_REQUEST_TIMEOUT"  envDefault:"30s"   yaml:"request_timeout"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT"     envDefault:"15s"   yaml:"read_timeout"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT"                       yaml:"write_timeout"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"30s"   yaml:"shutdown_timeout"`
}

// writeMargin is the time a timed out request has to render its error page.
const writeMargin = 5 * time.Second

// WriteDeadline is the server write timeout. It always leaves writeMargin
// after RequestTimeout, so a timed out handler can still send its 503.
func (s Server) WriteDeadline() time.Duration {
	if floor := s.RequestTimeout + writeMargin; s.WriteTimeout < floor {
		return floor
	}
	return s.WriteTimeout
}

// Session configures the session cookie and its store.
type Session struct {
	Backend    string        `env:"SESSION_BACKEND"     envDefault:"memory"           yaml:"backend"`
	CookieName string        `env:"SESSION_COOKIE_NAME" envDefault:"cookbook_session" yaml:"cookie_name"`
	MaxAge     time.Duration `env:"SESSION_MAX_AGE"     envDefault:"720h"             yaml:"max_age"`
	Secure     bool          `env:"SESSION_SECURE"      envDefault:"false"            yaml:"secure"`
	KeyPrefix  string        `env:"SESSION_KEY_PREFIX"  envDefault:"cookbook:session" yaml:"key_prefix"`
}

// Load builds the configuration. path names an optional YAML file; envFiles
// default to ".env". Missing env files are ignored, a missing YAML file is not.
func Load(path string, envFiles ...string) (Config, error) {
	var cfg Config

	// An empty environment applies the envDefault tags only.
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{}}); err != nil {
		return cfg, fmt.Errorf("config: defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("config: load %s: %w", f, err)
		}
	}

	// Defaults were applied above; renaming the tag keeps them from
	// overwriting the YAML values.
	if err := env.ParseWithOptions(&cfg, env.Options{DefaultValueTagName: "noDefault"}); err != nil {
		return cfg, fmt.Errorf("config: environment: %w", err)
	}

	return cfg, cfg.Validate()
}

// Validate checks the settings that cannot be defaulted.
func (c Config) Validate() error {
	switch c.Session.Backend {
	case SessionMemory:
	case SessionRedis:
		if c.Redis.URL == "" {
			return ErrRedisURLRequired
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidSessionBackend, c.Session.Backend)
	}
	if c.Database.ConnectionString == "" {
		return ErrDatabaseURLRequired
	}
	return nil
}
