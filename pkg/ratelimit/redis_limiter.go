package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRateLimiter implements RateLimiter on Redis so the budget is shared
// across server instances.
type RedisRateLimiter struct {
	client *redis.Client
	config *Config
	stats  RateLimiterStats
	ctx    context.Context
}

func NewRedisRateLimiter(client *redis.Client, config *Config) *RedisRateLimiter {
	if config == nil {
		config = DefaultConfig()
	}
	return &RedisRateLimiter{
		client: client,
		config: config,
		ctx:    context.Background(),
	}
}

// Allow checks the sliding-window budget for the client/endpoint pair. The
// returned duration is how long to wait when blocked.
func (r *RedisRateLimiter) Allow(clientID string, endpoint string) (bool, time.Duration, error) {
	if !r.config.Enabled {
		return true, 0, nil
	}

	atomic.AddInt64(&r.stats.TotalRequests, 1)

	limit := r.getRateLimit(endpoint)
	key := fmt.Sprintf("%s%s:%s", r.config.RedisKeyPrefix, clientID, endpoint)

	allowed, resetTime, err := r.checkWindow(key, limit)
	if err != nil {
		return false, 0, fmt.Errorf("rate limit check failed: %w", err)
	}

	if !allowed {
		atomic.AddInt64(&r.stats.BlockedRequests, 1)
		return false, resetTime, nil
	}
	return true, 0, nil
}

// checkWindow runs the window check as a Lua script so count and window
// start move atomically.
func (r *RedisRateLimiter) checkWindow(key string, limit RateLimit) (bool, time.Duration, error) {
	now := time.Now()

	script := `
		local key = KEYS[1]
		local burst_size = tonumber(ARGV[1])
		local window_size = tonumber(ARGV[2])
		local now = tonumber(ARGV[3])

		local count = tonumber(redis.call('HGET', key, 'count')) or 0
		local window_start = tonumber(redis.call('HGET', key, 'window_start')) or now

		if now - window_start >= window_size then
			count = 0
			window_start = now
		end

		local allowed = count < burst_size
		if allowed then
			count = count + 1
		end

		local reset_time = 0
		if not allowed then
			reset_time = math.ceil(((window_start + window_size) - now) / 1000)
		end

		local ttl = math.max(1, math.ceil(window_size / 1000) + 1)
		redis.call('HSET', key, 'count', count)
		redis.call('HSET', key, 'window_start', window_start)
		redis.call('EXPIRE', key, ttl)

		return {allowed and 1 or 0, reset_time}
	`

	result, err := r.client.Eval(r.ctx, script, []string{key},
		limit.BurstSize,
		int64(limit.WindowSize.Milliseconds()),
		now.UnixMilli()).Result()
	if err != nil {
		return false, 0, err
	}

	resultSlice, ok := result.([]interface{})
	if !ok || len(resultSlice) != 2 {
		return false, 0, fmt.Errorf("unexpected script result format")
	}

	allowed := resultSlice[0].(int64) == 1
	resetTime := time.Duration(resultSlice[1].(int64)) * time.Second

	return allowed, resetTime, nil
}

// GetLimit exposes the budget for an endpoint so the middleware can set
// response headers.
func (r *RedisRateLimiter) GetLimit(endpoint string) RateLimit {
	return r.getRateLimit(endpoint)
}

// getRateLimit resolves the budget for a "METHOD:path" endpoint id.
func (r *RedisRateLimiter) getRateLimit(endpoint string) RateLimit {
	method, path, _ := strings.Cut(endpoint, ":")
	endpointKey := r.config.GetEndpointKey(path, method)
	if limit, exists := r.config.DefaultLimits[endpointKey]; exists {
		return limit
	}
	if defaultLimit, exists := r.config.DefaultLimits["default"]; exists {
		return defaultLimit
	}
	return RateLimit{RequestsPerMinute: 60, BurstSize: 15, WindowSize: time.Minute}
}

func (r *RedisRateLimiter) GetStats() RateLimiterStats {
	return RateLimiterStats{
		TotalRequests:   atomic.LoadInt64(&r.stats.TotalRequests),
		BlockedRequests: atomic.LoadInt64(&r.stats.BlockedRequests),
	}
}
