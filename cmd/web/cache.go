package main

import (
	"context"
	"fmt"

	"github.com/tutorapp/tutorapp/pkg/services/config"
	"github.com/tutorapp/tutorapp/pkg/store/cache"
)

func newCache(ctx context.Context, cfg config.CacheConfig) (cache.Cache, error) {
	if cfg.Backend != "redis" {
		return cache.NewMemory(), nil
	}

	client, err := cache.Dial(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	r, err := cache.NewRedis(client, cache.DefaultPrefix)
	if err != nil {
		return nil, err
	}
	return r, nil
}
