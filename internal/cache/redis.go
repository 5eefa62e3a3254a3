package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"weather-dashboard/pkg/logger"
)

// ErrMiss is returned by Get when the key does not exist.
var ErrMiss = errors.New("cache miss")

// RedisClient stores JSON-encoded values of type T with a fixed expiration.
type RedisClient[T any] struct {
	client     redis.Cmdable
	l          *logger.Logger
	expiration time.Duration
}

func NewRedisClient[T any](client redis.Cmdable, l *logger.Logger, expiration time.Duration) *RedisClient[T] {
	return &RedisClient[T]{client: client, l: l, expiration: expiration}
}

// Connect opens a redis client and checks it answers.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}

	return client, nil
}

func (c *RedisClient[T]) Set(ctx context.Context, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}

	if err := c.client.Set(ctx, key, data, c.expiration).Err(); err != nil {
		return fmt.Errorf("cache write %s: %w", key, err)
	}

	c.l.Debug("wrote cache entry", map[string]any{
		"key":        key,
		"expiration": c.expiration.String(),
	})

	return nil
}

func (c *RedisClient[T]) Get(ctx context.Context, key string) (T, error) {
	var zero T

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return zero, ErrMiss
	}
	if err != nil {
		return zero, fmt.Errorf("cache read %s: %w", key, err)
	}

	var result T
	if err := json.Unmarshal(data, &result); err != nil {
		return zero, fmt.Errorf("unmarshal %s: %w", key, err)
	}

	return result, nil
}
