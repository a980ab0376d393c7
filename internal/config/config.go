package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Telegram  TelegramConfig
	Database  DatabaseConfig
	Ledger    LedgerConfig
	Sheets    SheetsConfig
	Assistant AssistantConfig
	LLM       LLMConfig
	Embedding EmbeddingConfig
	SMTP      SMTPConfig
	Auth      AuthConfig
	Events    EventsConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type TelegramConfig struct {
	BotToken      string
	ChatID        string // the single allowed chat; also the digest target
	WebhookSecret string
}

type DatabaseConfig struct {
	Connection string
}

type LedgerConfig struct {
	Driver string // "postgres" or "sheets"
}

type SheetsConfig struct {
	SpreadsheetID   string
	CredentialsFile string
}

type AssistantConfig struct {
	ConfidenceThreshold float64
	MatchThreshold      float64
	SearchThreshold     float64
}

type LLMConfig struct {
	Provider string // "openai" or "ollama"
	Model    string
	APIKey   string
	BaseURL  string
}

type EmbeddingConfig struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}

type SMTPConfig struct {
	Host            string
	Port            int
	Email           string
	Password        string
	SenderName      string
	DigestRecipient string
}

type AuthConfig struct {
	JWTSecret string
}

type EventsConfig struct {
	EntrySavedTopic string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Telegram: TelegramConfig{
			BotToken:      getEnv("TELEGRAM_BOT_TOKEN", ""),
			ChatID:        getEnv("TELEGRAM_CHAT_ID", ""),
			WebhookSecret: getEnv("TELEGRAM_WEBHOOK_SECRET", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ledger: LedgerConfig{
			Driver: getEnv("LEDGER_DRIVER", "postgres"),
		},
		Sheets: SheetsConfig{
			SpreadsheetID:   getEnv("SHEETS_SPREADSHEET_ID", ""),
			CredentialsFile: getEnv("SHEETS_CREDENTIALS_FILE", "credentials.json"),
		},
		Assistant: AssistantConfig{
			ConfidenceThreshold: getEnvAsFloat("CONFIDENCE_THRESHOLD", 0.6),
			MatchThreshold:      getEnvAsFloat("MATCH_THRESHOLD", 0.8),
			SearchThreshold:     getEnvAsFloat("SEARCH_SIMILARITY_THRESHOLD", 0.35),
		},
		LLM: LLMConfig{
			Provider: getEnv("LLM_PROVIDER", "openai"),
			Model:    getEnv("LLM_MODEL", "gpt-4o-mini"),
			APIKey:   getEnv("OPENAI_API_KEY", ""),
			BaseURL:  getEnv("LLM_BASE_URL", ""),
		},
		Embedding: EmbeddingConfig{
			Provider: getEnv("EMBEDDING_PROVIDER", "openai"),
			Model:    getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
			APIKey:   getEnv("OPENAI_API_KEY", ""),
			BaseURL:  getEnv("EMBEDDING_BASE_URL", "http://localhost:11434"),
		},
		SMTP: SMTPConfig{
			Host:            getEnv("SMTP_HOST", ""),
			Port:            getEnvAsInt("SMTP_PORT", 587),
			Email:           getEnv("SMTP_EMAIL", ""),
			Password:        getEnv("SMTP_PASSWORD", ""),
			SenderName:      getEnv("SMTP_SENDER_NAME", "Second Brain"),
			DigestRecipient: getEnv("DIGEST_EMAIL_TO", ""),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
		Events: EventsConfig{
			EntrySavedTopic: getEnv("ENTRY_SAVED_TOPIC_NAME", "ENTRY_SAVED"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
