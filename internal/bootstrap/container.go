package bootstrap

import (
	"context"
	"log"
	"strconv"

	"github.com/ranajunaid001/second-braind-junaid/internal/config"
	"github.com/ranajunaid001/second-braind-junaid/internal/controller"
	"github.com/ranajunaid001/second-braind-junaid/internal/handler"
	"github.com/ranajunaid001/second-braind-junaid/internal/pkg/logger"
	"github.com/ranajunaid001/second-braind-junaid/internal/pkg/mailer"
	"github.com/ranajunaid001/second-braind-junaid/internal/repository/memory"
	"github.com/ranajunaid001/second-braind-junaid/internal/repository/unitofwork"
	"github.com/ranajunaid001/second-braind-junaid/internal/service"
	"github.com/ranajunaid001/second-braind-junaid/internal/storage/factory"
	internalWS "github.com/ranajunaid001/second-braind-junaid/internal/websocket"
	"github.com/ranajunaid001/second-braind-junaid/pkg/assist/classify"
	"github.com/ranajunaid001/second-braind-junaid/pkg/assist/engine"
	"github.com/ranajunaid001/second-braind-junaid/pkg/embedding"
	openaiEmbedding "github.com/ranajunaid001/second-braind-junaid/pkg/embedding/openai"
	llmFactory "github.com/ranajunaid001/second-braind-junaid/pkg/llm/factory"
	"github.com/ranajunaid001/second-braind-junaid/pkg/telegram"

	pktNats "github.com/ranajunaid001/second-braind-junaid/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Container holds every long-lived dependency built at startup. Controllers
// are registered on the fiber server; the hub and consumer get their own
// goroutines from main.
type Container struct {
	WebhookController controller.IWebhookController
	DigestController  controller.IDigestController
	AdminController   controller.IAdminController
	ActivityHandler   *handler.ActivityHandler
	WebSocketHub      *internalWS.Hub
	ConsumerService   service.IConsumerService
	TelegramClient    *telegram.Client
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// The unit of work factory only exists on the postgres driver. Everything
	// below treats a nil factory as "no relational ledger".
	var uowFactory unitofwork.RepositoryFactory
	if db != nil {
		uowFactory = unitofwork.NewRepositoryFactory(db)
	}

	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.SMTP.SenderName,
	)

	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)

	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Embedding.Provider == "ollama" {
		log.Println("INFO: Using Ollama embedding provider")
		embeddingProvider = embedding.NewOllamaProvider(cfg.Embedding.BaseURL, cfg.Embedding.Model)
	} else {
		log.Println("INFO: Using OpenAI embedding provider")
		embeddingProvider = openaiEmbedding.NewOpenAIProvider(cfg.Embedding.APIKey, cfg.Embedding.Model)
	}

	llmProvider, err := llmFactory.NewLLMProvider(cfg.LLM.Provider, cfg.LLM.Model, cfg.LLM.BaseURL, cfg.LLM.APIKey)
	if err != nil {
		log.Fatalf("Failed to initialize LLM provider: %v", err)
	}

	sessionRepo := memory.NewSessionRepository()

	// Both broker legs are optional. The bot files entries fine without
	// NATS; only the activity feed and audit stream go quiet.
	natsPublisher, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		sysLogger.Warn("Bootstrap", "NATS publisher unavailable, domain events disabled", map[string]interface{}{
			"error": err.Error(),
		})
		natsPublisher = nil
	}
	natsSubscriber, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		sysLogger.Warn("Bootstrap", "NATS subscriber unavailable, activity feed runs local-only", map[string]interface{}{
			"error": err.Error(),
		})
		natsSubscriber = nil
	}

	redisOpts, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		redisOpts = &redis.Options{Addr: cfg.App.RedisURL}
	}
	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		sysLogger.Warn("Bootstrap", "Redis unreachable, webhook dedup and feed relay degraded", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// The activity feed logs to its own file so a chatty dashboard never
	// drowns the system log.
	wsLogger := logger.NewIsolatedLogger("logs/activity.log")
	wsHub := internalWS.NewHub(rdb, wsLogger)
	go wsHub.Run()

	ledgerStore, err := factory.NewLedgerStore(context.Background(), cfg, uowFactory)
	if err != nil {
		log.Fatalf("Failed to initialize ledger store: %v", err)
	}

	gateway := classify.NewLLMGateway(llmProvider, log.Default())
	presenter := service.NewPresenterService(llmProvider)

	var searcher engine.Searcher
	if uowFactory != nil {
		searcher = service.NewSearchService(uowFactory, embeddingProvider, cfg.Assistant.SearchThreshold)
	}

	telegramClient := telegram.NewClient(cfg.Telegram.BotToken, "")
	chatID, err := strconv.ParseInt(cfg.Telegram.ChatID, 10, 64)
	if err != nil {
		sysLogger.Warn("Bootstrap", "TELEGRAM_CHAT_ID is not numeric, digest delivery disabled", map[string]interface{}{
			"value": cfg.Telegram.ChatID,
		})
	}

	digestService := service.NewDigestService(
		ledgerStore,
		llmProvider,
		telegramClient,
		chatID,
		emailService,
		cfg.SMTP.DigestRecipient,
		natsPublisher,
		sysLogger,
	)

	assistEngine := engine.New(
		gateway,
		ledgerStore,
		sessionRepo,
		presenter,
		digestService,
		searcher,
		engine.Config{
			ConfidenceThreshold: cfg.Assistant.ConfidenceThreshold,
			MatchThreshold:      cfg.Assistant.MatchThreshold,
		},
		nil,
	)

	publisherService := service.NewPublisherService(cfg.Events.EntrySavedTopic, pubSub)
	var consumerService service.IConsumerService
	if uowFactory != nil {
		consumerService = service.NewConsumerService(pubSub, cfg.Events.EntrySavedTopic, uowFactory, embeddingProvider)
	}

	assistantService := service.NewAssistantService(
		assistEngine,
		telegramClient,
		publisherService,
		uowFactory,
		natsPublisher,
		sysLogger,
	)
	adminService := service.NewAdminService(uowFactory, llmProvider, sysLogger)

	activityHandler := handler.NewActivityHandler(natsSubscriber, wsHub, wsLogger)
	if err := activityHandler.Start(); err != nil {
		sysLogger.Warn("Bootstrap", "Activity feed subscription failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	webhookController := controller.NewWebhookController(
		assistantService,
		rdb,
		cfg.Telegram.ChatID,
		cfg.Telegram.WebhookSecret,
		sysLogger,
	)
	digestController := controller.NewDigestController(digestService)
	adminController := controller.NewAdminController(adminService)

	return &Container{
		WebhookController: webhookController,
		DigestController:  digestController,
		AdminController:   adminController,
		ActivityHandler:   activityHandler,
		WebSocketHub:      wsHub,
		ConsumerService:   consumerService,
		TelegramClient:    telegramClient,
	}
}
