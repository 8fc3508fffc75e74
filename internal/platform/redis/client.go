// Package redis opens the client behind the GSRN index cache.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"datahub/internal/platform/config"
	"datahub/pkg/platform/sentinel"
)

// Client embeds *redis.Client so it satisfies redis.Cmdable.
type Client struct {
	*redis.Client
}

// New parses cfg.URL and applies the pool settings. It returns nil, nil when
// no URL is configured. The connection is checked lazily through Health.
func New(cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	opts.MinIdleConns = cfg.MinIdleConns
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if cfg.ReadTimeout > 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}
	return &Client{Client: redis.NewClient(opts)}, nil
}

// Health pings the server.
func (c *Client) Health(ctx context.Context) error {
	if err := c.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}
