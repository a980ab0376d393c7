// Package websocket pushes the live activity feed (saves, fixes, digests)
// to connected dashboard sessions.
package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ranajunaid001/second-braind-junaid/internal/pkg/logger"
)

// activityChannel relays feed items between instances through redis.
const activityChannel = "activity_events"

// ActivityMessage is one feed item as delivered to dashboard clients.
type ActivityMessage struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

// Hub fans activity messages out to every connected client. A single
// operator runs this bot, so clients are keyed by connection, not by user.
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	// Optional cross-instance relay. nil means single instance.
	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.relayFromRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client connected", map[string]interface{}{"connections": total})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client disconnected", map[string]interface{}{"connections": total})
		}
	}
}

// Broadcast pushes a feed item to every connected session. With redis
// configured the item is routed through the relay channel so each instance,
// this one included, delivers it exactly once.
func (h *Hub) Broadcast(msg ActivityMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Hub", "Failed to marshal activity message", map[string]interface{}{"error": err.Error()})
		return
	}

	if h.rdb != nil {
		if err := h.rdb.Publish(context.Background(), activityChannel, data).Err(); err != nil {
			h.logger.Warn("Hub", "Redis relay publish failed, delivering locally", map[string]interface{}{"error": err.Error()})
			h.deliver(data)
		}
		return
	}

	h.deliver(data)
}

// deliver writes to every local client. Clients with a full send buffer are
// dropped; slow consumers must not stall the feed.
func (h *Hub) deliver(data []byte) {
	var stalled []*Client

	h.mu.RLock()
	for client := range h.clients {
		select {
		case client.Send <- data:
		default:
			stalled = append(stalled, client)
		}
	}
	h.mu.RUnlock()

	// Unregister outside the read lock; Run needs the write lock.
	for _, client := range stalled {
		h.logger.Warn("Hub", "Client send buffer full, dropping connection", nil)
		h.unregister <- client
	}
}

func (h *Hub) relayFromRedis() {
	pubsub := h.rdb.Subscribe(context.Background(), activityChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		h.deliver([]byte(msg.Payload))
	}
}
