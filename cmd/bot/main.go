package main

import (
	"context"
	"log"
	"strings"

	"github.com/ranajunaid001/second-braind-junaid/internal/bootstrap"
	"github.com/ranajunaid001/second-braind-junaid/internal/config"
	"github.com/ranajunaid001/second-braind-junaid/internal/server"
	"github.com/ranajunaid001/second-braind-junaid/internal/tracer"
	"github.com/ranajunaid001/second-braind-junaid/pkg/database"

	"gorm.io/gorm"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database. The sheets ledger driver runs without
	// postgres entirely.
	var gormDB *gorm.DB
	if cfg.Ledger.Driver == "postgres" {
		var err error
		gormDB, err = database.NewGormDB(cfg.Database.Connection)
		if err != nil {
			log.Panicf("Unable to connect to GORM DB: %v", err)
		}
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	if container.ConsumerService != nil {
		go func() {
			log.Println("Background: Starting embed consumer...")
			if err := container.ConsumerService.Consume(context.Background()); err != nil {
				log.Printf("Background Consumer Error: %v", err)
			}
		}()
	}

	// 5. Point Telegram at this deployment when a public URL is configured.
	// A fresh webhook registration is idempotent, so doing it on every boot
	// keeps the bot reachable after the tunnel URL changes.
	if cfg.App.BaseURL != "" {
		webhookURL := strings.TrimRight(cfg.App.BaseURL, "/") + "/webhook/telegram"
		if err := container.TelegramClient.SetWebhook(context.Background(), webhookURL, cfg.Telegram.WebhookSecret); err != nil {
			log.Printf("Warning: setWebhook failed: %v", err)
		} else {
			log.Printf("Telegram webhook registered: %s", webhookURL)
		}
	}

	// 6. Run Server
	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
