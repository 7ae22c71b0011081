package api

import (
	"encoding/json"
	"io"
	"sync"
	"time"

	"goentropy/domain/core"
	"goentropy/internal"

	"github.com/gin-gonic/gin"
)

// Event types published on /entropy/events
const (
	EventPool = "pool"
	EventDraw = "draw"
)

const keepAliveInterval = 30 * time.Second

// Event is one pool or draw notification
type Event struct {
	Type      string         `json:"type"`
	Data      map[string]any `json:"data"`
	Timestamp core.Timestamp `json:"timestamp"`
}

// EventHub fans events out to every connected SSE client. Slow clients
// miss events rather than blocking publishers.
type EventHub struct {
	mu      sync.RWMutex
	clients map[chan Event]struct{}
	logger  *internal.Logger
}

// NewEventHub creates an empty hub
func NewEventHub(logger *internal.Logger) *EventHub {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &EventHub{clients: make(map[chan Event]struct{}), logger: logger}
}

// Subscribe registers a client channel; call the returned func to leave
func (h *EventHub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)

	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()

	return ch, func() {
		h.mu.Lock()
		if _, ok := h.clients[ch]; ok {
			delete(h.clients, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
}

// Publish delivers an event to every client with room in its buffer
func (h *EventHub) Publish(eventType string, data map[string]any) {
	event := Event{Type: eventType, Data: data, Timestamp: core.Now()}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.clients {
		select {
		case ch <- event:
		default:
			h.logger.Warn("[EventHub] client buffer full, dropping %s event", eventType)
		}
	}
}

// ClientCount returns the number of connected clients
func (h *EventHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleSSE streams events until the client disconnects
func (h *EventHub) HandleSSE(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	events, leave := h.Subscribe()
	defer leave()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-events:
			if !ok {
				return false
			}
			payload, err := json.Marshal(event)
			if err != nil {
				h.logger.Error("[EventHub] marshal %s event: %v", event.Type, err)
				return true
			}
			c.SSEvent(event.Type, string(payload))
			return true

		case <-time.After(keepAliveInterval):
			c.SSEvent("ping", `{"status":"alive"}`)
			return true

		case <-ctx.Done():
			return false
		}
	})
}
