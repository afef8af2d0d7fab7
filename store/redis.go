package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultQueryTimeout bounds every Redis round trip so a slow or
// unresponsive server cannot hang a request.
const DefaultQueryTimeout = 5 * time.Second

type redisStore struct {
	client       *redis.Client
	queryTimeout time.Duration
}

var _ Store = (*redisStore)(nil)

// RedisOption configures the Redis store.
type RedisOption func(*redisStore)

// WithQueryTimeout sets the per-operation timeout. Defaults to
// DefaultQueryTimeout (5 seconds).
func WithQueryTimeout(d time.Duration) RedisOption {
	return func(s *redisStore) { s.queryTimeout = d }
}

// NewRedis returns a Store backed by Redis. The caller owns the
// redis.Client lifecycle.
func NewRedis(client *redis.Client, opts ...RedisOption) Store {
	s := &redisStore{
		client:       client,
		queryTimeout: DefaultQueryTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *redisStore) opCtx(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, s.queryTimeout)
}

func (s *redisStore) Get(ctx context.Context, key string) ([]byte, error) {
	qctx, cancel := s.opCtx(ctx)
	defer cancel()
	data, err := s.client.Get(qctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: redis get %s: %w", key, err)
	}
	return data, nil
}

func (s *redisStore) SetTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("store: non-positive ttl for %s", key)
	}
	qctx, cancel := s.opCtx(ctx)
	defer cancel()
	if err := s.client.Set(qctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("store: redis set %s: %w", key, err)
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, key string) error {
	qctx, cancel := s.opCtx(ctx)
	defer cancel()
	if err := s.client.Del(qctx, key).Err(); err != nil {
		return fmt.Errorf("store: redis del %s: %w", key, err)
	}
	return nil
}

func (s *redisStore) DeleteMany(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	qctx, cancel := s.opCtx(ctx)
	defer cancel()
	if err := s.client.Del(qctx, keys...).Err(); err != nil {
		return fmt.Errorf("store: redis del batch: %w", err)
	}
	return nil
}

func (s *redisStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	qctx, cancel := s.opCtx(ctx)
	defer cancel()
	var keys []string
	iter := s.client.Scan(qctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(qctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("store: redis scan %s: %w", prefix, err)
	}
	return keys, nil
}
