// Package cache stores rendered post HTML in Redis so that several site
// instances share the markdown conversion work.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "website:html:"

// HTMLCache is a Redis-backed store of rendered post bodies.
type HTMLCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// Connect parses a redis:// URL, pings the server and returns a cache using it.
func Connect(ctx context.Context, url string, ttl time.Duration) (*HTMLCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return New(client, ttl), nil
}

// New wraps an existing client. A zero ttl keeps entries until evicted.
func New(client *redis.Client, ttl time.Duration) *HTMLCache {
	return &HTMLCache{client: client, prefix: defaultPrefix, ttl: ttl}
}

// Key identifies the rendering of one version of a post body.
func Key(slug string, source []byte) string {
	sum := sha256.Sum256(source)
	return slug + ":" + hex.EncodeToString(sum[:])
}

// Get returns the cached HTML for key. A miss is not an error.
func (c *HTMLCache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get error: %w", err)
	}
	return val, true, nil
}

// Set stores html under key.
func (c *HTMLCache) Set(ctx context.Context, key, html string) error {
	if err := c.client.Set(ctx, c.prefix+key, html, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set error: %w", err)
	}
	return nil
}

// Clear removes every cached rendering.
func (c *HTMLCache) Clear(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, c.prefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("error scanning keys: %w", err)
	}
	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("error deleting keys: %w", err)
		}
	}
	return nil
}

func (c *HTMLCache) Close() error {
	return c.client.Close()
}
