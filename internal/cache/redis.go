package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/imvicky69/wandermore/internal/models"
)

const (
	feedKey = "feed:posts"
	feedTTL = 5 * time.Minute
)

// Cache keeps the most recent feed snapshot in Redis so a page load does not
// always hit Postgres. A nil *Cache is valid and skips caching entirely.
type Cache struct {
	client *redis.Client
}

func New() (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", envOr("REDIS_HOST", "localhost"), envOr("REDIS_PORT", "6379")),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &Cache{client: client}, nil
}

// Feed returns the cached feed snapshot, or an error on a miss.
func (c *Cache) Feed(ctx context.Context) ([]models.Post, error) {
	if c == nil {
		return nil, redis.Nil
	}

	result, err := c.client.Get(ctx, feedKey).Result()
	if err != nil {
		return nil, err
	}

	var posts []models.Post
	if err := json.Unmarshal([]byte(result), &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// SetFeed stores the feed snapshot with a short TTL.
func (c *Cache) SetFeed(ctx context.Context, posts []models.Post) error {
	if c == nil {
		return nil
	}

	data, err := json.Marshal(posts)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, feedKey, data, feedTTL).Err()
}

// InvalidateFeed drops the snapshot after a write that changes the feed.
func (c *Cache) InvalidateFeed(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.client.Del(ctx, feedKey).Err()
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
