// file: internal/realtime/events.go
// version: 2.0.0
// guid: 9e8d7f6a-5c4b-3a21-0f9e-8d7c6b5a4392

package realtime

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// EventType defines the type of real-time event
type EventType string

const (
	EventExportProgress  EventType = "export.progress"
	EventExportStatus    EventType = "export.status"
	EventExportLog       EventType = "export.log"
	EventRecordsReloaded EventType = "records.reloaded"
	EventSystemStatus    EventType = "system.status"
)

// Event represents a real-time event to send to clients
type Event struct {
	Type      EventType      `json:"type"`
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data"`
}

// Client is one connected SSE stream. A client with no session
// subscriptions receives every event.
type Client struct {
	ID       string
	Channel  chan *Event
	sessions map[string]bool
	mu       sync.RWMutex
}

// NewClient creates a new SSE client
func NewClient(id string) *Client {
	return &Client{
		ID:       id,
		Channel:  make(chan *Event, 100),
		sessions: make(map[string]bool),
	}
}

// Subscribe limits the client to events of the given export session.
func (c *Client) Subscribe(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[sessionID] = true
}

// Unsubscribe removes a session subscription.
func (c *Client) Unsubscribe(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, sessionID)
}

func (c *Client) wants(eventID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return eventID == "" || len(c.sessions) == 0 || c.sessions[eventID]
}

// EventHub fans events out to connected clients.
type EventHub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewEventHub creates a new event hub
func NewEventHub() *EventHub {
	return &EventHub{clients: make(map[string]*Client)}
}

// RegisterClient registers a new client
func (h *EventHub) RegisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ID] = client
	log.Printf("[DEBUG] realtime: client %s registered, total clients: %d", client.ID, len(h.clients))
}

// UnregisterClient removes a client and closes its channel.
func (h *EventHub) UnregisterClient(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client, exists := h.clients[clientID]; exists {
		close(client.Channel)
		delete(h.clients, clientID)
	}
}

// Broadcast delivers event to every interested client. Slow clients drop
// events rather than block the sender.
func (h *EventHub) Broadcast(event *Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		if !client.wants(event.ID) {
			continue
		}
		select {
		case client.Channel <- event:
		default:
			log.Printf("[WARN] realtime: client %s channel full, dropping %s", client.ID, event.Type)
		}
	}
}

func (h *EventHub) send(t EventType, id string, data map[string]any) {
	h.Broadcast(&Event{Type: t, ID: id, Timestamp: time.Now(), Data: data})
}

// SendExportProgress reports how far an export session has come.
func (h *EventHub) SendExportProgress(sessionID string, completed, total, percent int, message string) {
	h.send(EventExportProgress, sessionID, map[string]any{
		"session_id": sessionID,
		"completed":  completed,
		"total":      total,
		"percentage": clampPercent(percent),
		"message":    message,
	})
}

// SendExportStatus reports a session state change.
func (h *EventHub) SendExportStatus(sessionID, status string, details map[string]any) {
	h.send(EventExportStatus, sessionID, map[string]any{
		"session_id": sessionID,
		"status":     status,
		"details":    details,
	})
}

// SendExportLog forwards one session log line.
func (h *EventHub) SendExportLog(sessionID, level, message string, details *string) {
	data := map[string]any{
		"session_id": sessionID,
		"level":      level,
		"message":    message,
	}
	if details != nil {
		data["details"] = *details
	}
	h.send(EventExportLog, sessionID, data)
}

// SendRecordsReloaded announces a fresh record snapshot.
func (h *EventHub) SendRecordsReloaded(count int) {
	h.send(EventRecordsReloaded, "", map[string]any{"count": count})
}

// SendSystemStatus sends a system status event
func (h *EventHub) SendSystemStatus(data map[string]any) {
	h.send(EventSystemStatus, "", data)
}

// GetClientCount returns the number of connected clients
func (h *EventHub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleSSE streams events to the caller until the request ends. The
// optional "session" query parameter narrows the stream to one export.
func (h *EventHub) HandleSSE(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache, no-transform")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	clientID := fmt.Sprintf("client-%d", time.Now().UnixNano())
	client := NewClient(clientID)
	if sessionID := c.Query("session"); sessionID != "" {
		client.Subscribe(sessionID)
	}

	h.RegisterClient(client)
	defer h.UnregisterClient(clientID)

	writeEvent(c, &Event{
		Type:      "connection.established",
		Timestamp: time.Now(),
		Data:      map[string]any{"client_id": clientID},
	})

	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case event, ok := <-client.Channel:
			if !ok {
				return
			}
			if err := writeEvent(c, event); err != nil {
				log.Printf("[WARN] realtime: write to %s failed: %v", clientID, err)
				return
			}
		case <-ticker.C:
			_ = writeEvent(c, &Event{Type: "heartbeat", Timestamp: time.Now()})
		}
	}
}

func writeEvent(c *gin.Context, event *Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if _, err := fmt.Fprintf(c.Writer, "data: %s\n\n", data); err != nil {
		return err
	}
	c.Writer.Flush()
	return nil
}

func clampPercent(p int) int {
	return max(0, min(100, p))
}

// Global event hub instance
var GlobalHub *EventHub

// InitializeEventHub initializes the global event hub
func InitializeEventHub() {
	if GlobalHub != nil {
		log.Println("[WARN] event hub already initialized")
		return
	}
	GlobalHub = NewEventHub()
	log.Println("[INFO] event hub initialized")
}
