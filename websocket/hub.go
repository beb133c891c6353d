package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"region-feedback-server/logger"
	"region-feedback-server/services"
	"region-feedback-server/types"
)

// Event types published to connected admins
const (
	EventRatingCreated   = "rating.created"
	EventFeedbackCreated = "feedback.created"
)

// Event is one submission notification. Every event belongs to a region and
// is only delivered to admins whose scope covers it.
type Event struct {
	Type      string      `json:"type"`
	RegionID  uint        `json:"region_id"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

// Client is one connected admin session
type Client struct {
	hub    *Hub
	user   *types.RequestUser
	conn   *websocket.Conn
	send   chan []byte
	closed bool
	mu     sync.Mutex
}

// Hub fans submission events out to connected admin sessions
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan *Event
	register   chan *Client
	unregister chan *Client
}

// NewHub creates an event hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan *Event, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run drives the hub loop. Call in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			logger.Log.Debug().Uint("admin_id", client.user.ID).Msg("Event feed client connected")

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.close()
			}

		case event := <-h.broadcast:
			payload, err := json.Marshal(event)
			if err != nil {
				logger.Log.Error().Err(err).Msg("Failed to encode event")
				continue
			}
			for client := range h.clients {
				if !client.canSee(event.RegionID) {
					continue
				}
				select {
				case client.send <- payload:
				default:
					// Slow consumer; drop the session rather than block the hub.
					delete(h.clients, client)
					client.close()
				}
			}
		}
	}
}

// Publish queues an event for delivery. Never blocks the caller; under
// backpressure the event is dropped and logged.
func (h *Hub) Publish(eventType string, regionID uint, data interface{}) {
	event := &Event{
		Type:      eventType,
		RegionID:  regionID,
		Timestamp: time.Now(),
		Data:      data,
	}
	select {
	case h.broadcast <- event:
	default:
		logger.Log.Warn().Str("type", eventType).Msg("Event feed backlog full, dropping event")
	}
}

func (c *Client) canSee(regionID uint) bool {
	return services.ResolveRegionFilter(c.user, nil).Contains(regionID)
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}
