// The tracker binary runs one inactivity sweep: every user whose last
// interaction is older than the configured threshold gets a reminder.
// It is meant to be scheduled externally (cron) and is not wired into the
// bot's conversation flow.
package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/lipoout/fiton-bot/internal/tracker"
	"github.com/lipoout/fiton-bot/pkg/config"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", "config.yaml"))
	}

	store, err := tracker.OpenStore(cfg.Tracker.DBPath)
	if err != nil {
		logger.Fatal("Failed to open tracker store", zap.Error(err))
	}
	defer store.Close()

	reminder, err := tracker.NewReminder(cfg.OpenAI.APIKey, cfg.Tracker.ReminderModel, cfg.Telegram.Token, logger)
	if err != nil {
		logger.Fatal("Failed to create reminder", zap.Error(err))
	}

	if err := reminder.Run(context.Background(), store, cfg.Tracker.InactiveDays); err != nil {
		logger.Fatal("Reminder sweep failed", zap.Error(err))
	}
}
