package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/reviewcheckk/dealbot/internal/ai"
	"github.com/reviewcheckk/dealbot/internal/config"
	"github.com/reviewcheckk/dealbot/internal/models"
	"github.com/reviewcheckk/dealbot/internal/pipeline"
	"github.com/reviewcheckk/dealbot/internal/resolver"
	"github.com/reviewcheckk/dealbot/internal/scraper"
	"github.com/reviewcheckk/dealbot/internal/telegram"
)

func main() {
	slog.Info("Starting deal bot...")
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Critical error loading configuration", "error", err)
		os.Exit(1)
	}
	setupLogging(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	polisher, err := ai.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		slog.Warn("Gemini client unavailable, continuing without title polish", "error", err)
		polisher = nil
	}

	bot := telegram.New(cfg.TelegramBotToken)
	p := pipeline.New(cfg, resolver.New(), scraper.New(cfg), bot, polisher)

	slog.Info("Polling for updates", "signature", cfg.ChannelSignature)
	err = bot.Poll(ctx, func(msg models.RawMessage) {
		p.HandleMessage(ctx, msg)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("Polling stopped with error", "error", err)
		os.Exit(1)
	}
	slog.Info("Bot stopped.")
}

func setupLogging(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}
