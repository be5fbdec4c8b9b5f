package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/fixr105/Seven-Render-sub004/internal/ports"
)

// RedisLimiter counts attempts per key in Redis using INCR with a window
// expiry. The first attempt in a window creates the key and arms the TTL.
type RedisLimiter struct {
	client *redis.Client
	logger *logrus.Logger
}

// Config holds rate limiter settings
type Config struct {
	Enabled  bool
	RedisURL string
}

// NewLimiter creates a rate limiter from config. With rate limiting
// disabled it returns a limiter that always allows.
func NewLimiter(config Config, logger *logrus.Logger) (ports.RateLimiter, error) {
	if !config.Enabled {
		logger.Info("Rate limiting disabled")
		return NoopLimiter{}, nil
	}

	opt, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Rate limiting service initialized")
	return &RedisLimiter{
		client: client,
		logger: logger,
	}, nil
}

// Allow records one attempt and reports whether the key stays within limit
func (l *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	pipeline := l.client.Pipeline()
	incrCmd := pipeline.Incr(ctx, key)
	pipeline.Expire(ctx, key, window)

	if _, err := pipeline.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	count := incrCmd.Val()
	if count > int64(limit) {
		l.logger.WithFields(logrus.Fields{
			"key":   key,
			"count": count,
			"limit": limit,
		}).Warn("Rate limit exceeded")
		return false, nil
	}
	return true, nil
}

// NoopLimiter always allows
type NoopLimiter struct{}

// Allow always reports the attempt as within limit
func (NoopLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	return true, nil
}
