package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramBotToken string
	GeminiAPIKey     string
	GeminiModel      string
	ChannelSignature string
	DefaultPin       string
	DedupCap         int
	LinkDelay        time.Duration
	HTTPTimeout      time.Duration
	SelectorsPath    string
	LogLevel         string
}

func Load() (*Config, error) {
	// .env is optional; real deployments use the environment directly.
	_ = godotenv.Load()

	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable is required but not set")
	}

	geminiKey := os.Getenv("GEMINI_API_KEY")
	if geminiKey == "" {
		slog.Info("GEMINI_API_KEY not set, AI title polish disabled")
	}

	geminiModel := os.Getenv("GEMINI_MODEL")
	if geminiModel == "" {
		geminiModel = "gemini-2.0-flash"
	}

	signature := os.Getenv("CHANNEL_SIGNATURE")
	if signature == "" {
		signature = "@reviewcheckk"
	}

	defaultPin := os.Getenv("DEFAULT_PIN")
	if defaultPin == "" {
		defaultPin = "110001"
	}

	dedupCap := 200
	if v := os.Getenv("DEDUP_CAP"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid DEDUP_CAP %q: %w", v, err)
		}
		dedupCap = parsed
	}

	linkDelay, err := durationEnv("LINK_DELAY", time.Second)
	if err != nil {
		return nil, err
	}

	httpTimeout, err := durationEnv("HTTP_TIMEOUT", 20*time.Second)
	if err != nil {
		return nil, err
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	return &Config{
		TelegramBotToken: token,
		GeminiAPIKey:     geminiKey,
		GeminiModel:      geminiModel,
		ChannelSignature: signature,
		DefaultPin:       defaultPin,
		DedupCap:         dedupCap,
		LinkDelay:        linkDelay,
		HTTPTimeout:      httpTimeout,
		SelectorsPath:    os.Getenv("SELECTORS_CONFIG_PATH"),
		LogLevel:         logLevel,
	}, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}
