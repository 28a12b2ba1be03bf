package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// JSON stores loader results as JSON and collapses concurrent loads of the
// same key into one call.
type JSON struct {
	cache Cache
	ttl   time.Duration
	group singleflight.Group
}

func NewJSON(c Cache, ttl time.Duration) *JSON {
	return &JSON{cache: c, ttl: ttl}
}

func (j *JSON) Clear(ctx context.Context) error {
	return j.cache.Clear(ctx)
}

// Fetch returns the cached value for key or calls load and caches its
// result. Cache failures are logged and otherwise ignored; load errors are
// returned and never cached.
func Fetch[T any](ctx context.Context, j *JSON, key string, load func(context.Context) (T, error)) (T, error) {
	logger := zerolog.Ctx(ctx)

	var zero T
	raw, err := j.cache.Get(ctx, key)
	switch {
	case err == nil:
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			return v, nil
		}
		logger.Warn().Str("key", key).Msg("dropping undecodable cache entry")
	case !errors.Is(err, ErrMiss):
		logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}

	v, err, _ := j.group.Do(key, func() (any, error) {
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if raw, err := json.Marshal(v); err == nil {
			if err := j.cache.Set(ctx, key, raw, j.ttl); err != nil {
				logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
			}
		}
		return v, nil
	})
	if err != nil {
		return zero, err
	}
	return v.(T), nil
}
