package redis

import "errors"

var (
	ErrNoRedisURL      = errors.New("redis: redis url is not set")
	ErrInvalidRedisURL = errors.New("redis: invalid redis url")
	ErrConnect         = errors.New("redis: cannot reach redis")
	ErrUnhealthy       = errors.New("redis: ping failed")
)
