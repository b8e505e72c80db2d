package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"/api/v1/bookings/123/status", "/api/v1/bookings/*/status"},
		{"/api/v1/bookings/42", "/api/v1/bookings/*"},
		{"/api/v1/bookings", "/api/v1/bookings"},
		{"/api/v1/vehicles/7", "/api/v1/vehicles/*"},
		{"/api/v1/health", "/api/v1/health"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalizePath(tt.path))
		})
	}
}

func TestGetClientID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/v1/bookings", nil)

	// anonymous request falls back to IP
	assert.Contains(t, getClientID(c), "ip:")

	// authenticated request uses the operator name
	c.Set("operator", "Admin User")
	assert.Equal(t, "operator:Admin User", getClientID(c))
}

func TestGetClientIPPrefersForwardedHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/v1/bookings", nil)
	c.Request.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	assert.Equal(t, "203.0.113.7", getClientIP(c))
}

func TestGetEndpointID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/api/v1/bookings/55/pause", nil)

	assert.Equal(t, "POST:/api/v1/bookings/*/pause", getEndpointID(c))
}
