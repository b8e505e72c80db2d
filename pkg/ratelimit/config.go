package ratelimit

import (
	"time"
)

// Config holds the rate limiting configuration.
type Config struct {
	// Budgets per endpoint category.
	DefaultLimits map[string]RateLimit `json:"defaultLimits"`

	// Redis key prefix for limiter state.
	RedisKeyPrefix string `json:"redisKeyPrefix"`

	// Enable/disable rate limiting.
	Enabled bool `json:"enabled"`
}

// DefaultConfig returns the limiter budgets. Session login is the tightest
// category; the read-heavy console endpoints are permissive.
func DefaultConfig() *Config {
	return &Config{
		DefaultLimits: map[string]RateLimit{
			"auth_session": {RequestsPerMinute: 5, BurstSize: 3, WindowSize: time.Minute},

			"bookings":           {RequestsPerMinute: 200, BurstSize: 40, WindowSize: time.Minute},
			"bookings_create":    {RequestsPerMinute: 30, BurstSize: 10, WindowSize: time.Minute},
			"bookings_lifecycle": {RequestsPerMinute: 60, BurstSize: 15, WindowSize: time.Minute},

			"fleet":       {RequestsPerMinute: 200, BurstSize: 40, WindowSize: time.Minute},
			"maintenance": {RequestsPerMinute: 100, BurstSize: 20, WindowSize: time.Minute},

			// Spreadsheet ingest is expensive: one batch at a time.
			"legacy_import": {RequestsPerMinute: 2, BurstSize: 1, WindowSize: time.Minute},
			"legacy_export": {RequestsPerMinute: 10, BurstSize: 3, WindowSize: time.Minute},

			"health": {RequestsPerMinute: 1000, BurstSize: 100, WindowSize: time.Minute},

			"default": {RequestsPerMinute: 120, BurstSize: 30, WindowSize: time.Minute},
		},
		RedisKeyPrefix: "ratelimit:",
		Enabled:        true,
	}
}

// GetEndpointKey maps a normalized "METHOD:path" endpoint to its category.
func (c *Config) GetEndpointKey(endpoint, method string) string {
	endpointMap := map[string]string{
		"POST:/api/v1/auth/session": "auth_session",

		"GET:/api/v1/bookings":             "bookings",
		"POST:/api/v1/bookings":            "bookings_create",
		"PATCH:/api/v1/bookings/*":         "bookings",
		"DELETE:/api/v1/bookings/*":        "bookings",
		"PATCH:/api/v1/bookings/*/status":  "bookings_lifecycle",
		"POST:/api/v1/bookings/*/pause":    "bookings_lifecycle",
		"POST:/api/v1/bookings/*/resume":   "bookings_lifecycle",
		"POST:/api/v1/bookings/*/battery":  "bookings_lifecycle",
		"POST:/api/v1/bookings/*/vehicle":  "bookings_lifecycle",
		"POST:/api/v1/bookings/*/extend":   "bookings_lifecycle",
		"POST:/api/v1/bookings/*/settle":   "bookings_lifecycle",

		"GET:/api/v1/vehicles":  "fleet",
		"POST:/api/v1/vehicles": "fleet",
		"GET:/api/v1/batteries": "fleet",

		"GET:/api/v1/maintenance/jobs":  "maintenance",
		"POST:/api/v1/maintenance/jobs": "maintenance",

		"POST:/api/v1/legacy/import": "legacy_import",
		"GET:/api/v1/legacy/export":  "legacy_export",

		"GET:/api/v1/health": "health",
	}

	key := method + ":" + endpoint
	if category, exists := endpointMap[key]; exists {
		return category
	}

	for pattern, category := range endpointMap {
		if matchesPattern(key, pattern) {
			return category
		}
	}

	return "default"
}

// matchesPattern checks if a key matches a pattern, where "*" stands for one
// path segment.
func matchesPattern(key, pattern string) bool {
	ki, pi := 0, 0
	for pi < len(pattern) {
		if pattern[pi] == '*' {
			for ki < len(key) && key[ki] != '/' {
				ki++
			}
			pi++
			continue
		}
		if ki >= len(key) || key[ki] != pattern[pi] {
			return false
		}
		ki++
		pi++
	}
	return ki == len(key)
}
