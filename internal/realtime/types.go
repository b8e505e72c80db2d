package realtime

import (
	"time"

	"github.com/gorilla/websocket"
)

// Change actions mirrored from the store's change feed.
const (
	ActionInsert = "insert"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// TableChange is one row-level change pushed to subscribed consoles. Row
// carries the post-change document for inserts and updates; deletes carry
// only the key.
type TableChange struct {
	Table     string                 `json:"table"`
	Action    string                 `json:"action"`
	RowID     int64                  `json:"rowId"`
	Row       map[string]interface{} `json:"row,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// TableFilters limits which tables a console hears about. An empty filter
// subscribes to everything.
type TableFilters struct {
	Tables []string `json:"tables,omitempty"`
}

// Client is one connected console.
type Client struct {
	ID       string
	Conn     *websocket.Conn
	Filters  TableFilters
	Send     chan TableChange
	LastPing time.Time
	IsActive bool
}

// ClientStats summarizes connected consoles for the health endpoint.
type ClientStats struct {
	TotalClients    int `json:"totalClients"`
	ActiveClients   int `json:"activeClients"`
	InactiveClients int `json:"inactiveClients"`
}

// Outbound message envelope types.
const (
	MessageTypeTableChange = "table_change"
	MessageTypeError       = "error"
)
