// Package db wires the PostgreSQL connection pool used by the catalog store.
//
// It wraps [github.com/jackc/pgx/v5/pgxpool] with startup retries, a readiness
// check, a transaction helper, and schema migrations through
// [github.com/pressly/goose/v3] reading an embedded file system.
//
// # Configuration
//
//	DATABASE_URL                - PostgreSQL connection URL
//	DATABASE_MAX_OPEN_CONNS     - Maximum open connections (default: 10)
//	DATABASE_MIN_CONNS          - Minimum idle connections (default: 2)
//	DATABASE_HEALTHCHECK_PERIOD - Pool health check interval (default: 1m)
//	DATABASE_MAX_CONN_IDLE_TIME - Maximum connection idle time (default: 10m)
//	DATABASE_MAX_CONN_LIFETIME  - Maximum connection lifetime (default: 30m)
//	DATABASE_RETRY_ATTEMPTS     - Connection retry attempts (default: 3)
//	DATABASE_RETRY_INTERVAL     - Base retry interval (default: 2s)
//	DATABASE_MIGRATIONS_TABLE   - Migrations table name (default: schema_migrations)
//
// # Usage
//
//	pool, err := db.Connect(ctx, cfg.Database, log)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := db.Migrate(ctx, pool, repository.Migrations, cfg.Database.MigrationsTable, log); err != nil {
//		return err
//	}
package db
