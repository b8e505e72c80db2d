package realtime

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Manager fans table changes out to connected consoles.
type Manager struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan TableChange
	mutex      sync.RWMutex
	upgrader   websocket.Upgrader
	done       chan struct{}
}

// NewManager builds a manager that accepts connections from the given
// origins. An empty list accepts any origin.
func NewManager(allowedOrigins []string) *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan TableChange, 1000),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if len(allowedOrigins) == 0 {
					return true
				}
				origin := r.Header.Get("Origin")
				for _, allowed := range allowedOrigins {
					if allowed == "*" || allowed == origin {
						return true
					}
				}
				return false
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		done: make(chan struct{}),
	}
}

func (m *Manager) Start() error {
	go m.run()
	logrus.Info("realtime manager started")
	return nil
}

func (m *Manager) Stop() error {
	close(m.done)

	m.mutex.Lock()
	for _, client := range m.clients {
		close(client.Send)
		if client.Conn != nil {
			client.Conn.Close()
		}
	}
	m.clients = make(map[string]*Client)
	m.mutex.Unlock()

	logrus.Info("realtime manager stopped")
	return nil
}

func (m *Manager) run() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case client := <-m.register:
			m.mutex.Lock()
			m.clients[client.ID] = client
			m.mutex.Unlock()
			logrus.WithField("clientId", client.ID).Debug("console connected")
			go m.handleClient(client)

		case client := <-m.unregister:
			m.mutex.Lock()
			if _, ok := m.clients[client.ID]; ok {
				delete(m.clients, client.ID)
				close(client.Send)
				if client.Conn != nil {
					client.Conn.Close()
				}
			}
			m.mutex.Unlock()
			logrus.WithField("clientId", client.ID).Debug("console disconnected")

		case change := <-m.broadcast:
			m.broadcastToClients(change)

		case <-ticker.C:
			m.healthCheck()

		case <-m.done:
			return
		}
	}
}

func (m *Manager) RegisterClient(clientID string, conn *websocket.Conn, filters TableFilters) error {
	client := &Client{
		ID:       clientID,
		Conn:     conn,
		Filters:  filters,
		Send:     make(chan TableChange, 256),
		LastPing: time.Now(),
		IsActive: true,
	}

	m.register <- client
	return nil
}

func (m *Manager) UnregisterClient(clientID string) error {
	m.mutex.RLock()
	client, exists := m.clients[clientID]
	m.mutex.RUnlock()

	if exists {
		m.unregister <- client
	}
	return nil
}

// Broadcast queues a change for fan-out. A full queue drops the change; the
// consoles' next snapshot fetch reconciles anything missed.
func (m *Manager) Broadcast(change TableChange) error {
	select {
	case m.broadcast <- change:
		return nil
	default:
		return fmt.Errorf("broadcast channel full, dropping %s change for %s/%d", change.Action, change.Table, change.RowID)
	}
}

func (m *Manager) GetConnectedClients() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.clients)
}

func (m *Manager) GetClientStats() ClientStats {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	stats := ClientStats{TotalClients: len(m.clients)}
	for _, client := range m.clients {
		if client.IsActive {
			stats.ActiveClients++
		} else {
			stats.InactiveClients++
		}
	}
	return stats
}

func (m *Manager) GetUpgrader() *websocket.Upgrader {
	return &m.upgrader
}

func (m *Manager) broadcastToClients(change TableChange) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, client := range m.clients {
		if !shouldSendToClient(client, change) {
			continue
		}
		select {
		case client.Send <- change:
		default:
			client.IsActive = false
			logrus.WithField("clientId", client.ID).Warn("console send channel full, marking inactive")
		}
	}
}

// shouldSendToClient applies the console's table subscription. No tables
// listed means subscribe to everything.
func shouldSendToClient(client *Client, change TableChange) bool {
	if len(client.Filters.Tables) == 0 {
		return true
	}
	for _, table := range client.Filters.Tables {
		if table == change.Table {
			return true
		}
	}
	return false
}

func (m *Manager) handleClient(client *Client) {
	defer func() {
		m.unregister <- client
	}()

	client.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	client.Conn.SetPongHandler(func(string) error {
		client.LastPing = time.Now()
		client.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	go m.writeMessages(client)

	// Inbound traffic is pongs plus subscription updates.
	for {
		var message map[string]interface{}
		err := client.Conn.ReadJSON(&message)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.WithError(err).WithField("clientId", client.ID).Warn("console read failed")
			}
			break
		}

		if msgType, ok := message["type"].(string); ok && msgType == "update_filters" {
			if filtersData, ok := message["filters"]; ok {
				filtersJSON, _ := json.Marshal(filtersData)
				var newFilters TableFilters
				if err := json.Unmarshal(filtersJSON, &newFilters); err == nil {
					// Filters are read by the broadcast loop under the same lock.
					m.mutex.Lock()
					client.Filters = newFilters
					m.mutex.Unlock()
					logrus.WithField("clientId", client.ID).Debug("console subscription updated")
				}
			}
		}
	}
}

func (m *Manager) writeMessages(client *Client) {
	ticker := time.NewTicker(54 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case change, ok := <-client.Send:
			client.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := client.Conn.WriteJSON(map[string]interface{}{
				"type": MessageTypeTableChange,
				"data": change,
			}); err != nil {
				logrus.WithError(err).WithField("clientId", client.ID).Warn("console write failed")
				return
			}

		case <-ticker.C:
			client.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// healthCheck drops consoles that stopped answering pings.
func (m *Manager) healthCheck() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	now := time.Now()
	for clientID, client := range m.clients {
		if now.Sub(client.LastPing) > 90*time.Second {
			logrus.WithField("clientId", clientID).Info("console timed out, removing")
			delete(m.clients, clientID)
			close(client.Send)
			if client.Conn != nil {
				client.Conn.Close()
			}
		}
	}
}
