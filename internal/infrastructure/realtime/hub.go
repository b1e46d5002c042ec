// Package realtime pushes notifications and kitchen events to connected
// kitchen display screens over websockets.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/foodcourt/pos/internal/domain/kitchen"
	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/foodcourt/pos/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 4 * 1024
)

// ErrHubClosed is returned when a connection arrives after Close
var ErrHubClosed = errors.New("realtime: hub closed")

// Message is the frame written to display clients
type Message struct {
	Kind         string               `json:"kind"` // "notification" or "event"
	Notification *shared.Notification `json:"notification,omitempty"`
	Event        *EventFrame          `json:"event,omitempty"`
}

// EventFrame carries a domain event to the display
type EventFrame struct {
	Type        string          `json:"type"`
	AggregateID uuid.UUID       `json:"aggregateId"`
	OccurredAt  time.Time       `json:"occurredAt"`
	Payload     json.RawMessage `json:"payload"`
}

// Hub keeps the open display connections grouped by tenant. It implements
// shared.Notifier and, for kitchen events, shared.EventHandler.
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]map[*client]struct{}
	closed  bool

	upgrader     websocket.Upgrader
	pingInterval time.Duration
	sendBuffer   int
	logger       *zap.Logger
}

// NewHub creates a hub from the realtime config. An empty origin list
// accepts same-host requests only.
func NewHub(cfg config.RealtimeConfig, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Hub{
		clients:      make(map[uuid.UUID]map[*client]struct{}),
		pingInterval: cfg.PingInterval,
		sendBuffer:   cfg.SendBuffer,
		logger:       logger,
	}
	if h.pingInterval <= 0 {
		h.pingInterval = 30 * time.Second
	}
	if h.sendBuffer <= 0 {
		h.sendBuffer = 64
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(cfg.AllowedOrigins),
	}
	return h
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || strings.EqualFold(a, origin) {
				return true
			}
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return strings.EqualFold(u.Host, r.Host)
	}
}

// ServeWS upgrades the request and registers the connection under the tenant.
// It returns once the connection is registered; the pumps run in the background.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, tenantID uuid.UUID) error {
	h.mu.RLock()
	closed := h.closed
	h.mu.RUnlock()
	if closed {
		return ErrHubClosed
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	c := &client{
		hub:      h,
		conn:     conn,
		tenantID: tenantID,
		send:     make(chan []byte, h.sendBuffer),
	}
	if !h.register(c) {
		_ = conn.Close()
		return ErrHubClosed
	}
	h.logger.Debug("kitchen display connected",
		zap.String("tenant_id", tenantID.String()),
		zap.String("remote_addr", r.RemoteAddr))

	go c.writePump()
	go c.readPump()
	return nil
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	set, ok := h.clients[c.tenantID]
	if !ok {
		set = make(map[*client]struct{})
		h.clients[c.tenantID] = set
	}
	set[c] = struct{}{}
	return true
}

// unregister removes the client and closes its send channel exactly once
func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.tenantID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.tenantID)
	}
	close(c.send)
}

// ClientCount returns the number of open connections of a tenant
func (h *Hub) ClientCount(tenantID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[tenantID])
}

// Notify implements shared.Notifier
func (h *Hub) Notify(_ context.Context, n shared.Notification) error {
	data, err := json.Marshal(Message{Kind: "notification", Notification: &n})
	if err != nil {
		return err
	}
	h.broadcast(n.TenantID, data)
	return nil
}

// EventTypes returns the kitchen events shown on the display
func (h *Hub) EventTypes() []string {
	return []string{
		kitchen.EventTypeKOTCreated,
		kitchen.EventTypeKOTItemStatusChanged,
		kitchen.EventTypeKOTCompleted,
		kitchen.EventTypeKOTCancelled,
		kitchen.EventTypeKOTDeleted,
	}
}

// Handle implements shared.EventHandler
func (h *Hub) Handle(_ context.Context, event shared.DomainEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	data, err := json.Marshal(Message{
		Kind: "event",
		Event: &EventFrame{
			Type:        event.EventType(),
			AggregateID: event.AggregateID(),
			OccurredAt:  event.OccurredAt(),
			Payload:     payload,
		},
	})
	if err != nil {
		return err
	}
	h.broadcast(event.TenantID(), data)
	return nil
}

// broadcast queues data on every connection of the tenant. A connection whose
// buffer is full is dropped rather than blocking the publisher.
func (h *Hub) broadcast(tenantID uuid.UUID, data []byte) {
	var slow []*client
	h.mu.RLock()
	for c := range h.clients[tenantID] {
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warn("dropping slow kitchen display",
			zap.String("tenant_id", tenantID.String()))
		h.unregister(c)
	}
}

// Close disconnects every client and rejects new connections
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for tenantID, set := range h.clients {
		for c := range set {
			close(c.send)
		}
		delete(h.clients, tenantID)
	}
}

var (
	_ shared.Notifier     = (*Hub)(nil)
	_ shared.EventHandler = (*Hub)(nil)
)
