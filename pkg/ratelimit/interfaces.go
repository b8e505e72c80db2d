package ratelimit

import (
	"time"
)

// RateLimiter answers whether a client may hit an endpoint right now.
type RateLimiter interface {
	Allow(clientID string, endpoint string) (bool, time.Duration, error)
	GetStats() RateLimiterStats
}

// RateLimit is a sliding-window budget for one endpoint category.
type RateLimit struct {
	RequestsPerMinute int           `json:"requestsPerMinute"`
	BurstSize         int           `json:"burstSize"`
	WindowSize        time.Duration `json:"windowSize"`
}

// RateLimiterStats summarizes limiter activity for the health endpoint.
type RateLimiterStats struct {
	TotalRequests   int64 `json:"totalRequests"`
	BlockedRequests int64 `json:"blockedRequests"`
}
