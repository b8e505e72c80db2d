package handlers

import (
	"context"
	"net/http"
	"time"

	"rental-ops-backend/internal/realtime"
	"rental-ops-backend/pkg/redis"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

type HealthHandler struct {
	db          *mongo.Database
	redisClient *redis.Client
	manager     *realtime.Manager
}

type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Services  map[string]interface{} `json:"services"`
}

func NewHealthHandler(db *mongo.Database, redisClient *redis.Client, manager *realtime.Manager) *HealthHandler {
	return &HealthHandler{
		db:          db,
		redisClient: redisClient,
		manager:     manager,
	}
}

// HealthCheck handles GET /api/v1/health. Redis being down does not fail the
// check: the rate limiter degrades to unlimited and the console keeps
// working.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Timestamp: time.Now(),
		Services:  make(map[string]interface{}),
	}

	mongoStatus := h.checkMongoDB()
	response.Services["mongodb"] = mongoStatus

	response.Services["redis"] = h.checkRedis()
	response.Services["realtime"] = h.checkRealtime()

	if mongoStatus["healthy"].(bool) {
		response.Status = "healthy"
		c.JSON(http.StatusOK, response)
	} else {
		response.Status = "unhealthy"
		c.JSON(http.StatusServiceUnavailable, response)
	}
}

func (h *HealthHandler) checkMongoDB() map[string]interface{} {
	status := map[string]interface{}{
		"service": "mongodb",
		"healthy": false,
	}

	if h.db == nil {
		status["error"] = "Database client not initialized"
		return status
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := h.db.Client().Ping(ctx, nil); err != nil {
		status["error"] = err.Error()
	} else {
		status["healthy"] = true
		status["message"] = "Connected"
	}
	return status
}

func (h *HealthHandler) checkRedis() map[string]interface{} {
	status := map[string]interface{}{
		"service": "redis",
		"healthy": false,
	}

	if h.redisClient == nil {
		status["error"] = "Redis client not initialized"
		return status
	}

	healthStatus := h.redisClient.HealthCheck()
	status["healthy"] = healthStatus.IsConnected
	status["responseTime"] = healthStatus.ResponseTime.String()
	status["lastPing"] = healthStatus.LastPing
	if healthStatus.Error != "" {
		status["error"] = healthStatus.Error
	}
	return status
}

func (h *HealthHandler) checkRealtime() map[string]interface{} {
	status := map[string]interface{}{
		"service": "realtime",
		"healthy": h.manager != nil,
	}

	if h.manager != nil {
		stats := h.manager.GetClientStats()
		status["connectedClients"] = stats.TotalClients
		status["activeClients"] = stats.ActiveClients
	}
	return status
}
