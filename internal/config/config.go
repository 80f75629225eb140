package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr              string
	DBPath            string
	LogLevel          string
	ParentPassword    string
	UnlockDelayMillis int
	TelegramBotToken  string
	TelegramChatID    string
	NotifyWorkerCount int
	NotifyQueueSize   int
	DefaultQuestions  int
}

// Load reads configuration from a .env file (if present) and environment
// variables, applying defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:              envOr("ADDR", ":8080"),
		DBPath:            envOr("DB_PATH", "file:wordtrainer.db"),
		LogLevel:          envOr("LOG_LEVEL", "INFO"),
		ParentPassword:    envOr("PARENT_PASSWORD", "parent123"),
		UnlockDelayMillis: envIntOr("UNLOCK_DELAY_MS", 500),
		TelegramBotToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:    os.Getenv("TELEGRAM_CHAT_ID"),
		NotifyWorkerCount: envIntOr("NOTIFY_WORKER_COUNT", 1),
		NotifyQueueSize:   envIntOr("NOTIFY_QUEUE_SIZE", 16),
		DefaultQuestions:  envIntOr("DEFAULT_QUESTION_COUNT", 10),
	}
}

// Validate checks the configuration for values that would prevent the server
// from running. All problems are reported at once.
func (c Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.DBPath == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	if c.ParentPassword == "" {
		problems = append(problems, "PARENT_PASSWORD cannot be empty")
	}
	if c.UnlockDelayMillis < 0 {
		problems = append(problems, "UNLOCK_DELAY_MS must not be negative")
	}
	if c.NotifyWorkerCount <= 0 {
		problems = append(problems, "NOTIFY_WORKER_COUNT must be positive")
	}
	if c.NotifyQueueSize <= 0 {
		problems = append(problems, "NOTIFY_QUEUE_SIZE must be positive")
	}
	if c.DefaultQuestions <= 0 {
		problems = append(problems, "DEFAULT_QUESTION_COUNT must be positive")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL %q is not a valid level", c.LogLevel))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
