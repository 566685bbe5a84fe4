package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"movehub-backend/models"
	"movehub-backend/utils/logger"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores JSON values with a TTL. A miss is (false, nil).
type Cache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// kv is the subset of the redis client the cache uses
type kv interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

type RedisCache struct {
	client kv
	logger logger.Logger
}

// NewRedisClient connects to redis and pings it once
func NewRedisClient(ctx context.Context, cfg models.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MaxRetries:   2,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cannot connect to redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}

func NewRedisCache(client kv, log logger.Logger) *RedisCache {
	return &RedisCache{client: client, logger: log}
}

func (c *RedisCache) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		c.logger.Warnf("Dropping unreadable cache entry %s: %v", key, err)
		return false, nil
	}
	return true, nil
}

func (c *RedisCache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, ttl).Err()
}

// Nop is used when redis is disabled; every read misses.
type Nop struct{}

func (Nop) GetJSON(context.Context, string, interface{}) (bool, error) { return false, nil }

func (Nop) SetJSON(context.Context, string, interface{}, time.Duration) error { return nil }

// GeocodeKey is the cache key of a geocoder query. The viewbox biases the upstream
// answer, so it is part of the key; an empty viewbox is stored as "none".
func GeocodeKey(query, viewbox string) string {
	if viewbox == "" {
		viewbox = "none"
	}
	return "geocode:" + strings.ToLower(strings.TrimSpace(query)) + "|" + viewbox
}

// RouteKey is the cache key of a route between two points, at 5 decimals
func RouteKey(origin, dest models.GeoPoint) string {
	return fmt.Sprintf("route:%.5f,%.5f:%.5f,%.5f", origin.Lat, origin.Lng, dest.Lat, dest.Lng)
}
