package handlers

import (
	"strings"

	"rental-ops-backend/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RealtimeHandler upgrades console connections onto the change feed.
type RealtimeHandler struct {
	manager *realtime.Manager
}

func NewRealtimeHandler(manager *realtime.Manager) *RealtimeHandler {
	return &RealtimeHandler{manager: manager}
}

// HandleWebSocket handles GET /api/v1/ws. An optional tables query holds a
// comma-separated list of table names to subscribe to; omitting it
// subscribes to everything.
func (h *RealtimeHandler) HandleWebSocket(c *gin.Context) {
	conn, err := h.manager.GetUpgrader().Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Error("websocket upgrade failed")
		return
	}

	filters := parseTableFilters(c.Query("tables"))
	clientID := uuid.New().String()

	if err := h.manager.RegisterClient(clientID, conn, filters); err != nil {
		logrus.WithError(err).Error("failed to register websocket client")
		conn.Close()
	}
}

func parseTableFilters(raw string) realtime.TableFilters {
	var filters realtime.TableFilters
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			filters.Tables = append(filters.Tables, t)
		}
	}
	return filters
}
