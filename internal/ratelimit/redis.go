// internal/ratelimit/redis.go
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter is the fixed-window limiter backed by redis, for
// deployments running more than one process behind a load balancer.
// The window key embeds the window index so expiry is automatic.
type RedisLimiter struct {
	redis  *redis.Client
	limit  int
	window time.Duration
}

func NewRedisLimiter(redisURL string, limit int, window time.Duration) (*RedisLimiter, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %v", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %v", err)
	}

	return &RedisLimiter{redis: client, limit: limit, window: window}, nil
}

func (rl *RedisLimiter) Allow(key string) (Result, error) {
	ctx := context.Background()
	now := time.Now().Unix()
	windowSeconds := int64(rl.window.Seconds())
	bucket := now / windowSeconds
	windowKey := fmt.Sprintf("%s:%d", key, bucket)

	pipe := rl.redis.Pipeline()
	incr := pipe.Incr(ctx, windowKey)
	pipe.Expire(ctx, windowKey, rl.window)

	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, err
	}

	count := int(incr.Val())
	remaining := rl.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:   count <= rl.limit,
		Limit:     rl.limit,
		Remaining: remaining,
		Reset:     time.Unix((bucket+1)*windowSeconds, 0),
	}, nil
}

func (rl *RedisLimiter) Close() error {
	return rl.redis.Close()
}
