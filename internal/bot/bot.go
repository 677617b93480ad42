package bot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/lipoout/fiton-bot/internal/assistant"
	"github.com/lipoout/fiton-bot/internal/models"
	"github.com/lipoout/fiton-bot/internal/session"
)

// Composer issues the language-model calls for a turn.
type Composer interface {
	ReplyToText(ctx context.Context, history []models.ChatEntry) (string, error)
	AnalyzePhoto(ctx context.Context, history []models.ChatEntry, photo []byte) (*assistant.Analysis, error)
}

// Backend is the external user/food persistence collaborator.
type Backend interface {
	EnsureUser(ctx context.Context, name string, telegramID int64) error
	UpdateGoal(ctx context.Context, telegramID int64, goal models.Goal) error
	GetUserByTelegramID(ctx context.Context, telegramID int64) (*models.User, error)
	SaveFood(ctx context.Context, userID int64, photo []byte, analysis string, n models.Nutrition) error
}

// Toucher records user activity for the inactivity reminder job.
type Toucher interface {
	Touch(telegramID int64) error
}

// telegramClient is the slice of tgbotapi.BotAPI the bot uses.
type telegramClient interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
}

type Bot struct {
	api       telegramClient
	sessions  session.Store
	assistant Composer
	backend   Backend
	tracker   Toucher
	logger    *zap.Logger
}

func New(token string, sessions session.Store, composer Composer, backend Backend, tracker Toucher, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return newWithAPI(api, sessions, composer, backend, tracker, logger), nil
}

func newWithAPI(api telegramClient, sessions session.Store, composer Composer, backend Backend, tracker Toucher, logger *zap.Logger) *Bot {
	return &Bot{
		api:       api,
		sessions:  sessions,
		assistant: composer,
		backend:   backend,
		tracker:   tracker,
		logger:    logger,
	}
}

func (b *Bot) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		// One goroutine per update; the session lock keeps a single user's
		// turns strictly ordered.
		go b.handleUpdate(update)
	}

	return nil
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	ctx := context.Background()

	if update.CallbackQuery != nil {
		b.handleCallback(ctx, update.CallbackQuery)
		return
	}
	if update.Message == nil {
		return
	}

	message := update.Message
	if message.From == nil {
		return
	}
	b.touch(message.From.ID)

	if message.IsCommand() {
		b.handleCommand(ctx, message)
		return
	}
	b.handleChatMessage(ctx, message)
}

func (b *Bot) touch(telegramID int64) {
	if b.tracker == nil {
		return
	}
	if err := b.tracker.Touch(telegramID); err != nil {
		b.logger.Warn("Failed to record user activity",
			zap.Error(err),
			zap.Int64("user_id", telegramID))
	}
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}

func (b *Bot) sendHTML(chatID int64, text string, markup interface{}) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}

func (b *Bot) editMessage(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	if _, err := b.api.Send(edit); err != nil {
		b.logger.Error("Failed to edit message",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
			zap.Int("message_id", messageID))
	}
}

func (b *Bot) answerCallback(queryID string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(queryID, "")); err != nil {
		b.logger.Warn("Failed to answer callback query", zap.Error(err))
	}
}

// downloadPhoto fetches the largest rendition of a Telegram photo.
func (b *Bot) downloadPhoto(sizes []tgbotapi.PhotoSize) ([]byte, error) {
	if len(sizes) == 0 {
		return nil, fmt.Errorf("message carries no photo sizes")
	}
	fileID := sizes[len(sizes)-1].FileID

	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve photo file: %w", err)
	}

	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download photo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("photo download returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// escapeMarkdownV2 escapes Telegram MarkdownV2 specials, leaving '*' alone
// so the model's bold markers still render. The backslash goes first so the
// escapes added for the other characters are not escaped again.
func escapeMarkdownV2(text string) string {
	specialChars := []string{"\\", "_", "[", "]", "(", ")", "~", "`", ">", "#", "+", "-", "=", "|", "{", "}", ".", "!"}
	escaped := text
	for _, char := range specialChars {
		escaped = strings.ReplaceAll(escaped, char, "\\"+char)
	}
	return escaped
}
