package main

import (
	"go.uber.org/zap"

	"github.com/lipoout/fiton-bot/internal/assistant"
	"github.com/lipoout/fiton-bot/internal/backend"
	"github.com/lipoout/fiton-bot/internal/bot"
	"github.com/lipoout/fiton-bot/internal/session"
	"github.com/lipoout/fiton-bot/internal/tracker"
	"github.com/lipoout/fiton-bot/pkg/config"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", "config.yaml"))
	}

	// Session store and collaborators
	sessions := session.NewMemoryStore()
	backendClient := backend.NewClient(cfg.Backend.BaseURL, logger)
	composer := assistant.New(
		cfg.OpenAI.APIKey,
		cfg.OpenAI.Model,
		cfg.OpenAI.MaxTokens,
		cfg.OpenAI.Temperature,
		logger,
	)

	// The activity tracker is optional; the bot runs without it.
	var toucher bot.Toucher
	if store, err := tracker.OpenStore(cfg.Tracker.DBPath); err != nil {
		logger.Warn("Activity tracking disabled", zap.Error(err))
	} else {
		defer store.Close()
		toucher = store
	}

	// Initialize bot
	b, err := bot.New(cfg.Telegram.Token, sessions, composer, backendClient, toucher, logger)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	logger.Info("Bot started")

	// Start the bot
	if err := b.Start(); err != nil {
		logger.Fatal("Bot error", zap.Error(err))
	}
}
