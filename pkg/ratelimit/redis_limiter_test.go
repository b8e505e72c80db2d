package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, func()) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	err = client.Ping(context.Background()).Err()
	require.NoError(t, err)

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return client, cleanup
}

func TestRedisRateLimiter_Allow_BasicFunctionality(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	config := DefaultConfig()
	config.DefaultLimits["default"] = RateLimit{
		RequestsPerMinute: 5,
		BurstSize:         3,
		WindowSize:        time.Minute,
	}

	limiter := NewRedisRateLimiter(client, config)

	clientID := "test-client"
	endpoint := "test-endpoint"

	for i := 0; i < 3; i++ {
		allowed, resetTime, err := limiter.Allow(clientID, endpoint)
		assert.NoError(t, err)
		assert.True(t, allowed, "request %d should be allowed", i+1)
		assert.Equal(t, time.Duration(0), resetTime)
	}

	allowed, resetTime, err := limiter.Allow(clientID, endpoint)
	assert.NoError(t, err)
	assert.False(t, allowed, "4th request should be blocked")
	assert.Greater(t, resetTime, time.Duration(0))
}

func TestRedisRateLimiter_Allow_WindowReset(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	config := DefaultConfig()
	config.DefaultLimits["default"] = RateLimit{
		RequestsPerMinute: 10,
		BurstSize:         1,
		WindowSize:        200 * time.Millisecond,
	}

	limiter := NewRedisRateLimiter(client, config)

	clientID := "test-client"
	endpoint := "test-endpoint"

	allowed, _, err := limiter.Allow(clientID, endpoint)
	assert.NoError(t, err)
	assert.True(t, allowed)

	allowed, resetTime, err := limiter.Allow(clientID, endpoint)
	assert.NoError(t, err)
	assert.False(t, allowed)
	assert.Greater(t, resetTime, time.Duration(0))

	time.Sleep(250 * time.Millisecond)

	allowed, _, err = limiter.Allow(clientID, endpoint)
	assert.NoError(t, err)
	assert.True(t, allowed)
}

func TestRedisRateLimiter_Allow_DifferentClients(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	config := DefaultConfig()
	config.DefaultLimits["default"] = RateLimit{
		RequestsPerMinute: 5,
		BurstSize:         1,
		WindowSize:        time.Minute,
	}

	limiter := NewRedisRateLimiter(client, config)

	endpoint := "test-endpoint"

	allowed1, _, err := limiter.Allow("client1", endpoint)
	assert.NoError(t, err)
	assert.True(t, allowed1)

	allowed2, _, err := limiter.Allow("client2", endpoint)
	assert.NoError(t, err)
	assert.True(t, allowed2)

	allowed1, _, err = limiter.Allow("client1", endpoint)
	assert.NoError(t, err)
	assert.False(t, allowed1)

	allowed2, _, err = limiter.Allow("client2", endpoint)
	assert.NoError(t, err)
	assert.False(t, allowed2)
}

func TestRedisRateLimiter_Allow_DisabledLimiter(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	config := DefaultConfig()
	config.Enabled = false

	limiter := NewRedisRateLimiter(client, config)

	for i := 0; i < 10; i++ {
		allowed, resetTime, err := limiter.Allow("client", "endpoint")
		assert.NoError(t, err)
		assert.True(t, allowed)
		assert.Equal(t, time.Duration(0), resetTime)
	}
}

func TestRedisRateLimiter_GetStats(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	limiter := NewRedisRateLimiter(client, DefaultConfig())

	stats := limiter.GetStats()
	assert.Equal(t, int64(0), stats.TotalRequests)
	assert.Equal(t, int64(0), stats.BlockedRequests)

	limiter.Allow("client1", "endpoint1")
	limiter.Allow("client1", "endpoint1")
	limiter.Allow("client2", "endpoint1")

	stats = limiter.GetStats()
	assert.Equal(t, int64(3), stats.TotalRequests)
}

func TestConfig_GetEndpointKey(t *testing.T) {
	config := DefaultConfig()

	tests := []struct {
		endpoint string
		method   string
		expected string
	}{
		{"/api/v1/auth/session", "POST", "auth_session"},
		{"/api/v1/bookings", "GET", "bookings"},
		{"/api/v1/bookings", "POST", "bookings_create"},
		{"/api/v1/bookings/*/status", "PATCH", "bookings_lifecycle"},
		{"/api/v1/bookings/*/settle", "POST", "bookings_lifecycle"},
		{"/api/v1/legacy/import", "POST", "legacy_import"},
		{"/api/v1/health", "GET", "health"},
		{"/api/v1/unknown", "GET", "default"},
	}

	for _, tt := range tests {
		t.Run(tt.endpoint+"_"+tt.method, func(t *testing.T) {
			result := config.GetEndpointKey(tt.endpoint, tt.method)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestMatchesPattern(t *testing.T) {
	tests := []struct {
		key     string
		pattern string
		matches bool
	}{
		{"POST:/api/v1/bookings/123/status", "POST:/api/v1/bookings/*/status", true},
		{"POST:/api/v1/bookings/123/pause", "POST:/api/v1/bookings/*/status", false},
		{"PUT:/api/v1/bookings/42", "PUT:/api/v1/bookings/*", true},
		{"GET:/api/v1/bookings", "POST:/api/v1/bookings/*", false},
		{"POST:/api/v1/auth/session", "POST:/api/v1/auth/session", true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"_"+tt.pattern, func(t *testing.T) {
			result := matchesPattern(tt.key, tt.pattern)
			assert.Equal(t, tt.matches, result)
		})
	}
}
