package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"jobber/internal/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// PublishedJobsKey caches the published-listings page and feed source.
const PublishedJobsKey = "jobs:published"

const defaultTTL = 10 * time.Minute

// Cache is a redis-backed JSON cache that degrades to a no-op when redis is
// not reachable: a job board must keep working without its cache.
type Cache struct {
	client *redis.Client
	logger *zap.SugaredLogger

	warnedUnavailable atomic.Bool
}

func New(cfg config.RedisConfig, logger *zap.SugaredLogger) *Cache {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == "" {
		port = "6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: cfg.Password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warnw("redis unavailable, bypassing cache", "error", err)
		_ = client.Close()
		return &Cache{client: nil, logger: logger}
	}

	return &Cache{client: client, logger: logger}
}

func (c *Cache) isUnavailable() bool {
	return c == nil || c.client == nil
}

func (c *Cache) warnUnavailableOnce(err error) {
	if c == nil || c.logger == nil {
		return
	}
	if c.warnedUnavailable.CompareAndSwap(false, true) {
		c.logger.Warnw("redis unavailable, bypassing cache", "error", err)
	}
}

func (c *Cache) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	if c.isUnavailable() {
		return false, nil
	}
	b, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		c.warnUnavailableOnce(err)
		return false, err
	}
	if len(b) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Cache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if c.isUnavailable() {
		return nil
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, key, b, ttl).Err(); err != nil {
		c.warnUnavailableOnce(err)
		return err
	}
	return nil
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	if c.isUnavailable() {
		return nil
	}
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.warnUnavailableOnce(err)
		return err
	}
	return nil
}
