package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"taskshare/internal/platform/config"
)

// Client is the shared connection behind the redis session store. It carries
// a Health method matching the router's dependency-check signature.
type Client struct {
	*redis.Client
}

// Connect dials redis per cfg and verifies the connection before handing it
// out. A blank URL means redis is not configured; callers get (nil, nil) and
// fall back to in-memory sessions.
func Connect(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Client{Client: client}, nil
}

// Health reports whether the connection still answers.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}
