package db

import "errors"

var (
	ErrNoDatabaseURL      = errors.New("db: database url is not set")
	ErrInvalidDatabaseURL = errors.New("db: invalid database url")
	ErrConnect            = errors.New("db: cannot reach postgres")
	ErrUnhealthy          = errors.New("db: postgres ping failed")
	ErrMigrate            = errors.New("db: schema migration failed")
)
