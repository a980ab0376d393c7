package controller

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/ranajunaid001/second-braind-junaid/internal/pkg/logger"
	"github.com/ranajunaid001/second-braind-junaid/internal/service"
	"github.com/ranajunaid001/second-braind-junaid/pkg/telegram"
)

// updateDedupTTL bounds the window in which Telegram retries are recognized
// as duplicates.
const updateDedupTTL = 24 * time.Hour

type IWebhookController interface {
	RegisterRoutes(r fiber.Router)
	HandleTelegram(ctx *fiber.Ctx) error
}

// webhookController receives Telegram updates. It always answers 200; a
// non-2xx would make Telegram redeliver the update and double-file entries.
type webhookController struct {
	assistantService service.IAssistantService
	rdb              *redis.Client
	allowedChatID    string
	webhookSecret    string
	logger           logger.ILogger
}

func NewWebhookController(
	assistantService service.IAssistantService,
	rdb *redis.Client,
	allowedChatID string,
	webhookSecret string,
	log logger.ILogger,
) IWebhookController {
	return &webhookController{
		assistantService: assistantService,
		rdb:              rdb,
		allowedChatID:    allowedChatID,
		webhookSecret:    webhookSecret,
		logger:           log,
	}
}

func (c *webhookController) RegisterRoutes(r fiber.Router) {
	r.Post("/webhook/telegram", c.HandleTelegram)
}

func (c *webhookController) HandleTelegram(ctx *fiber.Ctx) error {
	// Telegram echoes the secret set via setWebhook on every delivery.
	if c.webhookSecret != "" && ctx.Get("X-Telegram-Bot-Api-Secret-Token") != c.webhookSecret {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"ok": false})
	}

	var update telegram.Update
	if err := ctx.BodyParser(&update); err != nil {
		c.logger.Warn("webhook", "Unparseable update payload", map[string]interface{}{"error": err.Error()})
		return ctx.JSON(fiber.Map{"ok": true})
	}

	if c.isDuplicate(ctx, update.UpdateID) {
		return ctx.JSON(fiber.Map{"ok": true})
	}

	if !c.chatAllowed(&update) {
		return ctx.JSON(fiber.Map{"ok": true})
	}

	if err := c.assistantService.HandleUpdate(ctx.UserContext(), &update); err != nil {
		// The entry may already be filed; only the reply failed. Still 200,
		// a redelivery would file it twice.
		c.logger.Error("webhook", "Update handling failed", map[string]interface{}{
			"update_id": update.UpdateID,
			"error":     err.Error(),
		})
	}

	return ctx.JSON(fiber.Map{"ok": true})
}

// isDuplicate claims the update id in redis. First delivery wins; retries
// and replays see the key and are dropped. Without redis every delivery is
// treated as fresh.
func (c *webhookController) isDuplicate(ctx *fiber.Ctx, updateID int64) bool {
	if c.rdb == nil {
		return false
	}

	key := fmt.Sprintf("telegram:update:%d", updateID)
	set, err := c.rdb.SetNX(ctx.UserContext(), key, 1, updateDedupTTL).Result()
	if err != nil {
		c.logger.Warn("webhook", "Dedup check failed, processing anyway", map[string]interface{}{"error": err.Error()})
		return false
	}
	return !set
}

// chatAllowed enforces the single-operator deployment: updates from any
// other chat are logged and dropped.
func (c *webhookController) chatAllowed(update *telegram.Update) bool {
	if c.allowedChatID == "" {
		return true
	}

	message := update.Message
	if message == nil {
		message = update.EditedMessage
	}
	if message == nil {
		return true
	}

	chatID := strconv.FormatInt(message.Chat.ID, 10)
	if chatID != c.allowedChatID {
		c.logger.Warn("webhook", "Update from unauthorized chat dropped", map[string]interface{}{"chat_id": chatID})
		return false
	}
	return true
}
