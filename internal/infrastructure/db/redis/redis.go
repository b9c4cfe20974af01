// Package redis holds the optional Redis backing for the shared rate limiter.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultTimeout = 5 * time.Second

// Config is the subset of REDIS_* settings the API uses.
type Config struct {
	Addr     string
	Password string
	DB       int
	// Timeout bounds dialing, every command and the startup ping.
	Timeout time.Duration
}

func (c Config) options() (*redis.Options, error) {
	if c.Addr == "" {
		return nil, errors.New("redis: empty address")
	}
	if c.DB < 0 {
		return nil, fmt.Errorf("redis: invalid db %d", c.DB)
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &redis.Options{
		Addr:         c.Addr,
		Password:     c.Password,
		DB:           c.DB,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
		// Limiter calls are not retried.
		MaxRetries: -1,
	}, nil
}

// Connect opens a client and pings it once. The client is closed again when
// the ping fails.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	opts, err := cfg.options()
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	if err := Ping(client)(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// Ping returns a readiness check for client.
func Ping(client *redis.Client) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping %s: %w", client.Options().Addr, err)
		}
		return nil
	}
}
