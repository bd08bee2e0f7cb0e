// Package cache provides the Redis-backed key/value operations used by the
// rate limiter and the snippet read cache.
package cache

import (
	"context"
	"time"
)

// BasicOps is the minimal cache surface consumers depend on.
type BasicOps interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error)
	Incr(ctx context.Context, key string) (int64, error)
	TTL(ctx context.Context, key string) (time.Duration, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}
