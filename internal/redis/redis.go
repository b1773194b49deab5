package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketingcoach/internal/config"

	redis "github.com/redis/go-redis/v9"
)

// Client wraps go-redis client to centralize configuration.
type Client struct {
	inner *redis.Client
}

var errNotInitialized = errors.New("redis client not initialized")

// NewRedisClient creates the redis client from app config.
func NewRedisClient(cfg *config.Config) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config required")
	}
	host := cfg.Redis.Host
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Redis.Port
	if port == 0 {
		port = 6379
	}

	opts := &redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Client{inner: client}, nil
}

// PushCapped prepends value to the list at key and trims the list to at most
// maxLen entries. Both commands run in one pipeline.
func (c *Client) PushCapped(ctx context.Context, key string, value interface{}, maxLen int64) error {
	if c == nil || c.inner == nil {
		return errNotInitialized
	}
	pipe := c.inner.TxPipeline()
	pipe.LPush(ctx, key, value)
	if maxLen > 0 {
		pipe.LTrim(ctx, key, 0, maxLen-1)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// Range returns list entries between start and stop, newest first.
func (c *Client) Range(ctx context.Context, key string, start, stop int64) ([]string, error) {
	if c == nil || c.inner == nil {
		return nil, errNotInitialized
	}
	return c.inner.LRange(ctx, key, start, stop).Result()
}

// Del removes provided keys.
func (c *Client) Del(ctx context.Context, keys ...string) error {
	if c == nil || c.inner == nil {
		return errNotInitialized
	}
	if len(keys) == 0 {
		return nil
	}
	return c.inner.Del(ctx, keys...).Err()
}

// Close closes client.
func (c *Client) Close() error {
	if c == nil || c.inner == nil {
		return nil
	}
	return c.inner.Close()
}
