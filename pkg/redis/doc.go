// Package redis opens the go-redis client backing the redis session store.
//
//	client, err := redis.Open(ctx, cfg.Redis, log)
//	if err != nil {
//		return err
//	}
//	store := session.NewRedisStore(client, session.WithKeyPrefix("cookbook:sess"))
//
// Both redis:// and rediss:// (TLS) URLs are accepted.
package redis
