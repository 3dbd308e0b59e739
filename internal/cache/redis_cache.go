package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vrusavuk/fundlyhub-sub006/internal/domain"
)

// RedisSearchCache implements SearchCache over Redis with native TTL
// eviction. Hit counters live under a sibling key so the cached blob
// stays immutable between writes.
type RedisSearchCache struct {
	client *redis.Client
}

// RedisConfig holds the connection settings for the redis cache driver.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// NewRedisSearchCache creates a new Redis-based search cache.
func NewRedisSearchCache(cfg RedisConfig) (*RedisSearchCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisSearchCache{client: client}, nil
}

func hitKey(key string) string {
	return key + ":hits"
}

func (c *RedisSearchCache) Get(ctx context.Context, key string) (*domain.CachedSearch, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var cached domain.CachedSearch
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache data: %w", err)
	}
	return &cached, nil
}

func (c *RedisSearchCache) Set(ctx context.Context, key string, query *domain.SearchQuery, cached *domain.CachedSearch, ttl time.Duration) error {
	cached.ExpiresAt = time.Now().Add(ttl)

	data, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("failed to marshal cache data: %w", err)
	}

	pipe := c.client.TxPipeline()
	pipe.Set(ctx, key, data, ttl)
	// Reset the counter with the blob so hits count one cache lifetime.
	pipe.Set(ctx, hitKey(key), 0, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to set in redis: %w", err)
	}
	return nil
}

func (c *RedisSearchCache) IncrementHit(ctx context.Context, key string) error {
	if err := c.client.Incr(ctx, hitKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to increment hit counter: %w", err)
	}
	return nil
}

// PurgeExpired is a no-op for redis; TTL eviction already removes
// expired entries.
func (c *RedisSearchCache) PurgeExpired(ctx context.Context) (int64, error) {
	return 0, nil
}

func (c *RedisSearchCache) Close() error {
	return c.client.Close()
}
