package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RateLimitStore is a fixed-window request counter shared by every API replica.
// It satisfies echo's middleware.RateLimiterStore.
// Key format: ratelimit:<identifier>:<window_start_unix>
type RateLimitStore struct {
	client  *redis.Client
	max     int64
	window  time.Duration
	timeout time.Duration
	log     zerolog.Logger
	now     func() time.Time
}

// NewRateLimitStore allows max requests per identifier in each window.
func NewRateLimitStore(client *redis.Client, max int, window time.Duration, log zerolog.Logger) *RateLimitStore {
	return &RateLimitStore{
		client:  client,
		max:     int64(max),
		window:  window,
		timeout: defaultTimeout,
		log:     log,
		now:     time.Now,
	}
}

// Allow counts one request for identifier. Redis failures let the request through.
func (s *RateLimitStore) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := s.now().Truncate(s.window)
	key := s.key(identifier, start)

	var count *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		count = p.Incr(ctx, key)
		p.ExpireAt(ctx, key, start.Add(s.window))
		return nil
	})
	if err != nil {
		s.log.Warn().Err(err).Str("identifier", identifier).Msg("rate limit check failed, allowing request")
		return true, nil
	}

	return count.Val() <= s.max, nil
}

func (s *RateLimitStore) key(identifier string, windowStart time.Time) string {
	return fmt.Sprintf("ratelimit:%s:%d", identifier, windowStart.Unix())
}
