// Package handler bridges the event broker to the live dashboard surfaces.
package handler

import (
	"context"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/ranajunaid001/second-braind-junaid/internal/pkg/logger"
	internalWS "github.com/ranajunaid001/second-braind-junaid/internal/websocket"
	"github.com/ranajunaid001/second-braind-junaid/pkg/events"
	pktNats "github.com/ranajunaid001/second-braind-junaid/pkg/nats"
)

// ActivityHandler feeds broker events into the websocket hub and exposes the
// /ws/activity endpoint dashboards connect to.
type ActivityHandler struct {
	subscriber *pktNats.Subscriber
	hub        *internalWS.Hub
	logger     logger.ILogger
}

func NewActivityHandler(sub *pktNats.Subscriber, hub *internalWS.Hub, log logger.ILogger) *ActivityHandler {
	return &ActivityHandler{
		subscriber: sub,
		hub:        hub,
		logger:     log,
	}
}

// Start attaches the durable broker subscription. Safe to call with no
// broker configured; the feed then only carries locally published items.
func (h *ActivityHandler) Start() error {
	if h.subscriber == nil {
		h.logger.Warn("ActivityHandler", "No event subscriber configured, activity feed disabled", nil)
		return nil
	}
	return h.subscriber.Subscribe("events.>", "activity-feed", h.onEvent)
}

func (h *ActivityHandler) onEvent(ctx context.Context, event events.Event) error {
	h.hub.Broadcast(internalWS.ActivityMessage{
		Type:       event.EventType(),
		Data:       event.Payload(),
		OccurredAt: event.Timestamp(),
	})
	return nil
}

// ServeWs authenticates the handshake and upgrades the connection. Browsers
// cannot set headers on websocket requests, so the token may arrive as a
// query parameter instead of a Bearer header.
func (h *ActivityHandler) ServeWs(c *fiber.Ctx) error {
	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}
	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token (query 'token' or Authorization header)"})
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		h.logger.Warn("ActivityHandler", "Invalid token in websocket handshake", map[string]interface{}{"error": err})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}
	operator, ok := claims["sub"].(string)
	if !ok || operator == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Token missing subject"})
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("ActivityHandler", "Websocket session started", map[string]interface{}{"operator": operator})
			internalWS.ServeWs(h.hub, conn)
			h.logger.Info("ActivityHandler", "Websocket session ended", map[string]interface{}{"operator": operator})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

// RegisterRoutes mounts the websocket endpoint.
func (h *ActivityHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws/activity", h.ServeWs)
}
