package snippet

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"codepad/internal/common/cache"
	appErr "codepad/pkg/errors"
	"codepad/pkg/utils/logger"
)

const cacheKeyPrefix = "codepad:snippet:"

// CachedRepository is a read-through cache in front of another repository.
// Cache faults degrade to the inner repository, never to the caller.
type CachedRepository struct {
	inner Repository
	cache cache.BasicOps
	ttl   time.Duration
}

// NewCachedRepository wraps inner with a Redis read-through cache.
func NewCachedRepository(inner Repository, cacheOps cache.BasicOps, ttl time.Duration) *CachedRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CachedRepository{inner: inner, cache: cacheOps, ttl: ttl}
}

func (r *CachedRepository) Create(ctx context.Context, s *Snippet) error {
	if err := r.inner.Create(ctx, s); err != nil {
		return err
	}
	r.fill(ctx, s)
	return nil
}

func (r *CachedRepository) Get(ctx context.Context, id string) (*Snippet, error) {
	raw, err := r.cache.Get(ctx, cacheKeyPrefix+id)
	if err != nil {
		logger.Warn(ctx, "snippet cache read failed", zap.String("id", id), zap.Error(err))
	} else if raw != "" {
		var s Snippet
		if err := json.Unmarshal([]byte(raw), &s); err == nil {
			return &s, nil
		}
	}

	s, err := r.inner.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	r.fill(ctx, s)
	return s, nil
}

func (r *CachedRepository) fill(ctx context.Context, s *Snippet) {
	data, err := json.Marshal(s)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, cacheKeyPrefix+s.ID, string(data), r.ttl); err != nil {
		cacheErr := appErr.Wrap(err, appErr.CacheError)
		logger.Warn(ctx, "snippet cache write failed", zap.String("id", s.ID), zap.Error(cacheErr))
	}
}
