package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// RedisStore keeps sessions in Redis as JSON documents.
//
// Keys (with the configured prefix):
//
//	<prefix>:token:<token> -> session JSON, expires with the session
//	<prefix>:id:<id>       -> current token
//	<prefix>:user:<userID> -> set of session IDs
type RedisStore struct {
	client redis.UniversalClient
	group  singleflight.Group
	prefix string
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithKeyPrefix sets the key namespace. Default: "session".
func WithKeyPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// NewRedisStore creates a store on top of an open client. The client's
// lifecycle stays with the caller.
func NewRedisStore(client redis.UniversalClient, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client, prefix: "session"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (r *RedisStore) Create(ctx context.Context, s *Session) error {
	return r.write(ctx, s, "")
}

// Get loads a session by token. Concurrent loads of the same token share
// one round trip; each caller still gets its own copy. The shared load is
// detached from the caller that started it, so that caller going away does
// not fail the others; each caller still stops waiting on its own ctx.
func (r *RedisStore) Get(ctx context.Context, token string) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ch := r.group.DoChan(token, func() (any, error) {
		data, err := r.client.Get(context.WithoutCancel(ctx), r.tokenKey(token)).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		return data, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}

	var s Session
	if err := json.Unmarshal(res.Val.([]byte), &s); err != nil {
		return nil, fmt.Errorf("session: decode: %w", err)
	}
	if s.IsExpired() {
		return nil, ErrExpired
	}
	return &s, nil
}

func (r *RedisStore) Update(ctx context.Context, s *Session) error {
	oldToken, err := r.client.Get(ctx, r.idKey(s.ID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		return err
	}
	return r.write(ctx, s, oldToken)
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	token, err := r.client.Get(ctx, r.idKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return err
	}

	keys := []string{r.idKey(id), r.tokenKey(token)}
	if s, err := r.Get(ctx, token); err == nil && s.UserID != nil {
		if err := r.client.SRem(ctx, r.userKey(*s.UserID), id).Err(); err != nil {
			return err
		}
	}
	return r.client.Del(ctx, keys...).Err()
}

func (r *RedisStore) DeleteByUserID(ctx context.Context, userID string) error {
	ids, err := r.client.SMembers(ctx, r.userKey(userID)).Result()
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := r.Delete(ctx, id); err != nil {
			return err
		}
	}
	return r.client.Del(ctx, r.userKey(userID)).Err()
}

func (r *RedisStore) Touch(ctx context.Context, id string, lastActiveAt time.Time) error {
	token, err := r.client.Get(ctx, r.idKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		return err
	}
	s, err := r.Get(ctx, token)
	if err != nil {
		return err
	}
	s.LastActiveAt = lastActiveAt
	return r.write(ctx, s, token)
}

// write stores s under its token and drops oldToken if the token rotated.
func (r *RedisStore) write(ctx context.Context, s *Session, oldToken string) error {
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return ErrExpired
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session: encode: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		if oldToken != "" && oldToken != s.Token {
			p.Del(ctx, r.tokenKey(oldToken))
		}
		p.Set(ctx, r.tokenKey(s.Token), data, ttl)
		p.Set(ctx, r.idKey(s.ID), s.Token, ttl)
		if s.UserID != nil {
			p.SAdd(ctx, r.userKey(*s.UserID), s.ID)
			// NX covers a fresh set, GT only ever extends it (Redis 7+).
			p.ExpireNX(ctx, r.userKey(*s.UserID), ttl)
			p.ExpireGT(ctx, r.userKey(*s.UserID), ttl)
		}
		return nil
	})
	return err
}

func (r *RedisStore) tokenKey(token string) string { return r.prefix + ":token:" + token }
func (r *RedisStore) idKey(id string) string       { return r.prefix + ":id:" + id }
func (r *RedisStore) userKey(uid string) string    { return r.prefix + ":user:" + uid }

var _ Store = (*RedisStore)(nil)
