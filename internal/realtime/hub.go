package realtime

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Hub fans newly created escalation cases out to connected agent
// dashboards over WebSocket.
type Hub struct {
	connections map[*websocket.Conn]struct{}
	Register    chan *websocket.Conn
	Unregister  chan *websocket.Conn
	Broadcast   chan []byte
	logger      *zap.Logger
	mu          sync.Mutex
}

// NewHub constructs a Hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		connections: make(map[*websocket.Conn]struct{}),
		Register:    make(chan *websocket.Conn),
		Unregister:  make(chan *websocket.Conn),
		Broadcast:   make(chan []byte, 16),
		logger:      logger,
	}
}

// Run processes register/unregister/broadcast events.
func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.Register:
			h.mu.Lock()
			h.connections[conn] = struct{}{}
			h.mu.Unlock()
		case conn := <-h.Unregister:
			h.mu.Lock()
			delete(h.connections, conn)
			h.mu.Unlock()
			conn.Close()
		case msg := <-h.Broadcast:
			h.mu.Lock()
			for conn := range h.connections {
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					conn.Close()
					delete(h.connections, conn)
				}
			}
			h.mu.Unlock()
		}
	}
}

type escalationEvent struct {
	Type         string `json:"type"`
	CaseID       string `json:"case_id"`
	CustomerID   string `json:"customer_id"`
	IssueDetails string `json:"issue_details"`
}

// EscalationCreated implements the workflow's notifier contract. It never
// blocks: when the broadcast buffer is full the event is dropped.
func (h *Hub) EscalationCreated(caseID, customerID, issueDetails string) {
	msg, err := json.Marshal(escalationEvent{
		Type:         "escalation_created",
		CaseID:       caseID,
		CustomerID:   customerID,
		IssueDetails: issueDetails,
	})
	if err != nil {
		h.logger.Error("Failed to marshal escalation event", zap.Error(err))
		return
	}

	select {
	case h.Broadcast <- msg:
	default:
		h.logger.Warn("Escalation feed buffer full, dropping event", zap.String("case_id", caseID))
	}
}
