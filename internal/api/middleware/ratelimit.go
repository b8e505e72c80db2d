package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"rental-ops-backend/pkg/ratelimit"

	"github.com/gin-gonic/gin"
)

// RateLimitMiddleware enforces per-client request budgets. A limiter failure
// never blocks a request: the console must stay usable when Redis is down.
func RateLimitMiddleware(limiter *ratelimit.RedisRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/api/v1/health" && gin.Mode() == gin.DebugMode {
			c.Next()
			return
		}

		clientID := getClientID(c)
		endpoint := getEndpointID(c)

		allowed, resetTime, err := limiter.Allow(clientID, endpoint)
		if err != nil {
			c.Header("X-RateLimit-Error", "Rate limiter unavailable")
			c.Next()
			return
		}

		limit := limiter.GetLimit(endpoint)
		setRateLimitHeaders(c, limit, allowed, resetTime)

		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":      "Rate limit exceeded",
				"message":    fmt.Sprintf("Too many requests. Try again in %v", resetTime),
				"retryAfter": int(resetTime.Seconds()),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// getClientID identifies the caller: the operator name for authenticated
// requests, the client IP otherwise.
func getClientID(c *gin.Context) string {
	if operator, exists := c.Get("operator"); exists {
		if name, ok := operator.(string); ok && name != "" {
			return "operator:" + name
		}
	}
	return "ip:" + getClientIP(c)
}

func getClientIP(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		ips := strings.Split(forwarded, ",")
		return strings.TrimSpace(ips[0])
	}
	if realIP := c.GetHeader("X-Real-IP"); realIP != "" {
		return realIP
	}
	return c.ClientIP()
}

// getEndpointID normalizes the request path so every row id groups under the
// same budget.
func getEndpointID(c *gin.Context) string {
	return c.Request.Method + ":" + normalizePath(c.Request.URL.Path)
}

// normalizePath replaces numeric path segments with "*". Row ids are the only
// dynamic segments in the API.
func normalizePath(path string) string {
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		if segment == "" {
			continue
		}
		if _, err := strconv.ParseInt(segment, 10, 64); err == nil {
			segments[i] = "*"
		}
	}
	return strings.Join(segments, "/")
}

func setRateLimitHeaders(c *gin.Context, limit ratelimit.RateLimit, allowed bool, resetTime time.Duration) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(limit.RequestsPerMinute))
	c.Header("X-RateLimit-Window", strconv.Itoa(int(limit.WindowSize.Seconds())))
	c.Header("X-RateLimit-Burst", strconv.Itoa(limit.BurstSize))

	if !allowed {
		c.Header("Retry-After", strconv.Itoa(int(resetTime.Seconds())))
	}
}
