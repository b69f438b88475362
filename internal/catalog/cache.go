package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/zefast/zefast_web/internal/mobcash"
)

const (
	keyNetworks  = "catalog:v1:network:"
	keyPlatforms = "catalog:v1:platform:"
	keySettings  = "catalog:v1:settings"
)

// Cache keeps the raw backend catalogs in Redis. Misses return nil.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

func (c *Cache) GetNetworks(ctx context.Context, kind mobcash.Kind) ([]mobcash.Network, error) {
	var list []mobcash.Network
	ok, err := c.get(ctx, keyNetworks+string(kind), &list)
	if !ok {
		return nil, err
	}
	return list, nil
}

func (c *Cache) SetNetworks(ctx context.Context, kind mobcash.Kind, list []mobcash.Network) error {
	return c.set(ctx, keyNetworks+string(kind), list)
}

func (c *Cache) GetPlatforms(ctx context.Context, kind mobcash.Kind) ([]mobcash.Platform, error) {
	var list []mobcash.Platform
	ok, err := c.get(ctx, keyPlatforms+string(kind), &list)
	if !ok {
		return nil, err
	}
	return list, nil
}

func (c *Cache) SetPlatforms(ctx context.Context, kind mobcash.Kind, list []mobcash.Platform) error {
	return c.set(ctx, keyPlatforms+string(kind), list)
}

func (c *Cache) GetSettings(ctx context.Context) (mobcash.Settings, error) {
	var s mobcash.Settings
	ok, err := c.get(ctx, keySettings, &s)
	if !ok {
		return nil, err
	}
	return s, nil
}

func (c *Cache) SetSettings(ctx context.Context, s mobcash.Settings) error {
	return c.set(ctx, keySettings, s)
}

func (c *Cache) get(ctx context.Context, key string, out any) (bool, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Cache) set(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, c.ttl).Err()
}
