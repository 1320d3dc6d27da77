package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/shorturl-preview/internal/shortener"
)

// RedisURLCache caches token -> original URL lookups for redirects.
// Keys carry no TTL; Redis eviction policy is the only expiry.
type RedisURLCache struct {
	client *redis.Client
	prefix string
}

// NewRedisURLCache creates a new Redis redirect cache.
func NewRedisURLCache(client *redis.Client) *RedisURLCache {
	return &RedisURLCache{
		client: client,
		prefix: "redirect_url:",
	}
}

// Get returns shortener.ErrNotFound on a miss.
func (c *RedisURLCache) Get(ctx context.Context, token string) (string, error) {
	url, err := c.client.Get(ctx, c.prefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", shortener.ErrNotFound
		}

		return "", err
	}

	return url, nil
}

func (c *RedisURLCache) Set(ctx context.Context, token, originalURL string) error {
	return c.client.Set(ctx, c.prefix+token, originalURL, 0).Err()
}

// Compile-time check.
var _ shortener.Cache = (*RedisURLCache)(nil)
