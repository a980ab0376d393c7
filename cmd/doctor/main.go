package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ranajunaid001/second-braind-junaid/internal/config"
	"github.com/ranajunaid001/second-braind-junaid/pkg/database"
	"github.com/ranajunaid001/second-braind-junaid/pkg/embedding"
	openaiEmbedding "github.com/ranajunaid001/second-braind-junaid/pkg/embedding/openai"
	"github.com/ranajunaid001/second-braind-junaid/pkg/llm"
	llmFactory "github.com/ranajunaid001/second-braind-junaid/pkg/llm/factory"
	pktNats "github.com/ranajunaid001/second-braind-junaid/pkg/nats"
	"github.com/ranajunaid001/second-braind-junaid/pkg/telegram"

	"github.com/fatih/color"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

// doctor probes every external dependency the bot needs and prints one
// PASS/FAIL line per service. With -token it instead mints an operator JWT
// for the admin API and exits.
func main() {
	mintToken := flag.Bool("token", false, "mint an operator JWT and exit")
	tokenTTL := flag.Duration("ttl", 24*time.Hour, "lifetime of the minted token")
	flag.Parse()

	cfg := config.Load()

	if *mintToken {
		claims := jwt.MapClaims{
			"sub": "operator",
			"iat": time.Now().Unix(),
			"exp": time.Now().Add(*tokenTTL).Unix(),
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Auth.JWTSecret))
		if err != nil {
			color.Red("Failed to sign token: %v", err)
			os.Exit(1)
		}
		fmt.Println(signed)
		return
	}

	color.Cyan("🩺 second-braind doctor\n")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	failures := 0

	// 1. Ledger backend
	color.Yellow("\n[1] Ledger (%s driver)", cfg.Ledger.Driver)
	if cfg.Ledger.Driver == "postgres" {
		if err := checkPostgres(ctx, cfg.Database.Connection); err != nil {
			color.Red("FAIL: %v", err)
			failures++
		} else {
			color.Green("PASS: postgres reachable, vector extension installed")
		}
	} else {
		color.Yellow("SKIP: sheets driver is checked at boot when credentials load")
	}

	// 2. Redis
	color.Yellow("\n[2] Redis (%s)", cfg.App.RedisURL)
	if err := checkRedis(ctx, cfg.App.RedisURL); err != nil {
		color.Red("FAIL: %v", err)
		failures++
	} else {
		color.Green("PASS: redis reachable")
	}

	// 3. NATS
	color.Yellow("\n[3] NATS (%s)", cfg.App.NatsURL)
	if pub, err := pktNats.NewPublisher(cfg.App.NatsURL); err != nil {
		color.Red("FAIL: %v", err)
		failures++
	} else {
		pub.Close()
		color.Green("PASS: jetstream stream ready")
	}

	// 4. Telegram
	color.Yellow("\n[4] Telegram Bot API")
	bot := telegram.NewClient(cfg.Telegram.BotToken, "")
	if me, err := bot.GetMe(ctx); err != nil {
		color.Red("FAIL: %v", err)
		failures++
	} else {
		color.Green("PASS: authenticated as @%s", me.Username)
	}

	// 5. LLM
	color.Yellow("\n[5] LLM (%s / %s)", cfg.LLM.Provider, cfg.LLM.Model)
	if err := checkLLM(ctx, cfg); err != nil {
		color.Red("FAIL: %v", err)
		failures++
	} else {
		color.Green("PASS: model answered")
	}

	// 6. Embeddings
	color.Yellow("\n[6] Embeddings (%s / %s)", cfg.Embedding.Provider, cfg.Embedding.Model)
	if dims, err := checkEmbedding(cfg); err != nil {
		color.Red("FAIL: %v", err)
		failures++
	} else {
		color.Green("PASS: %d dimensions", dims)
	}

	if failures > 0 {
		color.Red("\n❌ %d check(s) failed", failures)
		os.Exit(1)
	}
	color.Green("\n✅ All checks passed")
}

func checkPostgres(ctx context.Context, dsn string) error {
	db, err := database.NewGormDB(dsn)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	if err := sqlDB.PingContext(ctx); err != nil {
		return err
	}

	var hasVector bool
	if err := db.WithContext(ctx).
		Raw(`SELECT EXISTS (SELECT 1 FROM pg_extension WHERE extname = 'vector')`).
		Scan(&hasVector).Error; err != nil {
		return err
	}
	if !hasVector {
		return fmt.Errorf("pgvector extension missing, run cmd/migrate")
	}
	return nil
}

func checkRedis(ctx context.Context, url string) error {
	opts, err := redis.ParseURL(url)
	if err != nil {
		opts = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opts)
	defer rdb.Close()
	return rdb.Ping(ctx).Err()
}

func checkLLM(ctx context.Context, cfg *config.Config) error {
	provider, err := llmFactory.NewLLMProvider(cfg.LLM.Provider, cfg.LLM.Model, cfg.LLM.BaseURL, cfg.LLM.APIKey)
	if err != nil {
		return err
	}
	reply, err := provider.Generate(ctx, "Reply with the single word OK.", llm.WithMaxTokens(10))
	if err != nil {
		return err
	}
	if reply == "" {
		return fmt.Errorf("model returned an empty response")
	}
	return nil
}

func checkEmbedding(cfg *config.Config) (int, error) {
	var provider embedding.EmbeddingProvider
	if cfg.Embedding.Provider == "ollama" {
		provider = embedding.NewOllamaProvider(cfg.Embedding.BaseURL, cfg.Embedding.Model)
	} else {
		provider = openaiEmbedding.NewOpenAIProvider(cfg.Embedding.APIKey, cfg.Embedding.Model)
	}
	resp, err := provider.Generate("connectivity probe", "RETRIEVAL_QUERY")
	if err != nil {
		return 0, err
	}
	return len(resp.Embedding.Values), nil
}
