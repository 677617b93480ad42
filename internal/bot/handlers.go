package bot

import (
	"context"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lipoout/fiton-bot/internal/models"
	"github.com/lipoout/fiton-bot/internal/session"
)

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		b.handleStart(ctx, message)
	case "cancel":
		b.handleCancel(message)
	default:
		b.sendMessage(message.Chat.ID, unknownCmdText)
	}
}

// handleStart creates the backend user if needed, resets the session and
// asks for a health goal.
func (b *Bot) handleStart(ctx context.Context, message *tgbotapi.Message) {
	username := message.From.UserName
	if username == "" {
		username = message.From.FirstName
	}

	if err := b.backend.EnsureUser(ctx, username, message.From.ID); err != nil {
		b.logger.Error("Failed to ensure backend user",
			zap.Error(err),
			zap.Int64("user_id", message.From.ID))
		b.sendMessage(message.Chat.ID, turnFailedText)
		return
	}

	sess := b.sessions.GetOrCreate(message.From.ID)
	sess.Lock()
	sess.State = session.StateAwaitingGoal
	sess.History = nil
	sess.Pending = nil
	sess.Unlock()

	keyboard := tgbotapi.NewOneTimeReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(continueCaption)),
	)
	b.sendHTML(message.Chat.ID, welcomeText(strings.ToUpper(username)), keyboard)
}

func (b *Bot) handleCancel(message *tgbotapi.Message) {
	if sess, ok := b.sessions.Get(message.From.ID); ok {
		sess.Lock()
		sess.Reset()
		sess.Unlock()
		b.sessions.Delete(message.From.ID)
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, cancelText)
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(false)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send cancel message",
			zap.Error(err),
			zap.Int64("chat_id", message.Chat.ID))
	}
}

func (b *Bot) handleChatMessage(ctx context.Context, message *tgbotapi.Message) {
	sess, ok := b.sessions.Get(message.From.ID)
	if !ok {
		b.sendMessage(message.Chat.ID, notStartedText)
		return
	}

	// State is inspected and acted on under the session lock; other
	// goroutines write it from the command and callback paths.
	sess.Lock()
	defer sess.Unlock()

	switch sess.State {
	case session.StateAwaitingGoal:
		b.handleGoalMessage(ctx, sess, message)
	case session.StateChatting:
		if len(message.Photo) > 0 {
			b.handlePhoto(ctx, sess, message)
		} else {
			b.handleText(ctx, sess, message)
		}
	default:
		b.sendMessage(message.Chat.ID, notStartedText)
	}
}

// handleGoalMessage accepts the continue caption or a literal goal caption
// while the session waits for a goal.
func (b *Bot) handleGoalMessage(ctx context.Context, sess *session.Session, message *tgbotapi.Message) {
	if goal, ok := goalFromCaption(message.Text); ok {
		if err := b.backend.UpdateGoal(ctx, sess.TelegramID, goal); err != nil {
			b.logger.Error("Failed to update goal",
				zap.Error(err),
				zap.Int64("user_id", sess.TelegramID))
			b.sendMessage(message.Chat.ID, goalFailedText)
			return
		}
		sess.State = session.StateChatting
		b.sendHTML(message.Chat.ID, goalConfirmedText(string(goal)), tgbotapi.NewRemoveKeyboard(false))
		return
	}

	// Anything else, including the continue button, re-offers the goals.
	b.sendHTML(message.Chat.ID, goalPrompt, goalKeyboard())
}

// handleText runs one free-text follow-up turn. History is appended only
// after the model call succeeds, so a failed turn leaves the session as it was.
func (b *Bot) handleText(ctx context.Context, sess *session.Session, message *tgbotapi.Message) {
	turn := append(cloneHistory(sess.History), models.ChatEntry{
		Role:    models.RoleUser,
		Content: message.Text,
	})

	reply, err := b.assistant.ReplyToText(ctx, turn)
	if err != nil {
		b.logger.Error("Text turn failed",
			zap.Error(err),
			zap.Int64("user_id", sess.TelegramID))
		b.sendMessage(message.Chat.ID, turnFailedText)
		return
	}

	sess.Append(models.RoleUser, message.Text)
	sess.Append(models.RoleAssistant, reply)
	b.sendMessage(message.Chat.ID, reply)
}

// handlePhoto runs one photo analysis turn: loading message, model call,
// chart reply, then the save prompt with a fresh pending-save context.
func (b *Bot) handlePhoto(ctx context.Context, sess *session.Session, message *tgbotapi.Message) {
	loading, err := b.api.Send(tgbotapi.NewMessage(message.Chat.ID, analysisLoadingText))
	if err != nil {
		b.logger.Error("Failed to send loading message",
			zap.Error(err),
			zap.Int64("chat_id", message.Chat.ID))
		return
	}

	photo, err := b.downloadPhoto(message.Photo)
	if err != nil {
		b.logger.Error("Failed to fetch photo",
			zap.Error(err),
			zap.Int64("user_id", sess.TelegramID))
		b.editMessage(message.Chat.ID, loading.MessageID, turnFailedText)
		return
	}

	analysis, err := b.assistant.AnalyzePhoto(ctx, sess.History, photo)
	if err != nil {
		b.logger.Error("Photo turn failed",
			zap.Error(err),
			zap.Int64("user_id", sess.TelegramID))
		b.editMessage(message.Chat.ID, loading.MessageID, turnFailedText)
		return
	}

	sess.Append(models.RoleUser, "User sent a photo")
	sess.Append(models.RoleAssistant, analysis.Text)

	edit := tgbotapi.NewEditMessageText(message.Chat.ID, loading.MessageID, escapeMarkdownV2(analysis.Text))
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	if _, err := b.api.Send(edit); err != nil {
		b.logger.Error("Failed to edit analysis message",
			zap.Error(err),
			zap.Int64("chat_id", message.Chat.ID))
	}

	if analysis.Chart == nil {
		return
	}

	photoMsg := tgbotapi.NewPhoto(message.Chat.ID, tgbotapi.FileBytes{
		Name:  "nutrition.png",
		Bytes: analysis.Chart,
	})
	if _, err := b.api.Send(photoMsg); err != nil {
		b.logger.Error("Failed to send nutrition chart",
			zap.Error(err),
			zap.Int64("chat_id", message.Chat.ID))
	}

	sess.Pending = &models.PendingSave{
		ID:         uuid.New().String(),
		TelegramID: sess.TelegramID,
		Photo:      photo,
		Analysis:   analysis.Text,
		Nutrition:  analysis.Nutrition,
		CreatedAt:  time.Now(),
	}

	prompt := tgbotapi.NewMessage(message.Chat.ID, savePromptText)
	prompt.ReplyMarkup = saveKeyboard()
	if _, err := b.api.Send(prompt); err != nil {
		b.logger.Error("Failed to send save prompt",
			zap.Error(err),
			zap.Int64("chat_id", message.Chat.ID))
	}
}

func (b *Bot) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	b.answerCallback(query.ID)
	if query.Message == nil {
		return
	}
	b.touch(query.From.ID)

	data := query.Data
	switch {
	case strings.HasPrefix(data, goalCallbackPrefix):
		b.handleGoalCallback(ctx, query)
	case data == saveYesCallback || data == saveNoCallback:
		b.handleSaveCallback(ctx, query)
	}
}

func (b *Bot) handleGoalCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	goal := models.Goal(strings.TrimPrefix(query.Data, goalCallbackPrefix))
	if !goal.Valid() {
		b.logger.Warn("Ignoring unknown goal payload", zap.String("data", query.Data))
		return
	}

	sess, ok := b.sessions.Get(query.From.ID)
	if !ok {
		b.editMessage(query.Message.Chat.ID, query.Message.MessageID, notStartedText)
		return
	}

	sess.Lock()
	defer sess.Unlock()

	if err := b.backend.UpdateGoal(ctx, query.From.ID, goal); err != nil {
		b.logger.Error("Failed to update goal",
			zap.Error(err),
			zap.Int64("user_id", query.From.ID))
		b.editMessage(query.Message.Chat.ID, query.Message.MessageID, goalFailedText)
		return
	}

	sess.State = session.StateChatting

	edit := tgbotapi.NewEditMessageText(query.Message.Chat.ID, query.Message.MessageID, goalConfirmedText(string(goal)))
	edit.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(edit); err != nil {
		b.logger.Error("Failed to edit goal message",
			zap.Error(err),
			zap.Int64("chat_id", query.Message.Chat.ID))
	}
}

// handleSaveCallback resolves a save/discard answer. A press with no pending
// context, including a duplicate press, is acknowledged harmlessly and never
// reaches the backend.
func (b *Bot) handleSaveCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	chatID := query.Message.Chat.ID
	messageID := query.Message.MessageID

	sess, ok := b.sessions.Get(query.From.ID)
	if !ok {
		b.editMessage(chatID, messageID, saveNothingText)
		return
	}

	sess.Lock()
	pending := sess.TakePending()
	sess.Unlock()

	if pending == nil {
		b.editMessage(chatID, messageID, saveNothingText)
		return
	}

	if query.Data == saveNoCallback {
		b.editMessage(chatID, messageID, saveSkippedText)
		return
	}

	user, err := b.backend.GetUserByTelegramID(ctx, pending.TelegramID)
	if err == nil {
		err = b.backend.SaveFood(ctx, user.ID, pending.Photo, pending.Analysis, pending.Nutrition)
	}
	if err != nil {
		b.logger.Error("Failed to save meal",
			zap.Error(err),
			zap.Int64("user_id", pending.TelegramID),
			zap.String("pending_id", pending.ID))
		b.editMessage(chatID, messageID, saveFailedText)
		return
	}

	b.editMessage(chatID, messageID, saveDoneText)
}

func goalKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🌱 Moderate", goalCallbackPrefix+string(models.GoalModerate)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💪 Fit", goalCallbackPrefix+string(models.GoalFit)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏋️ Bodybuilder", goalCallbackPrefix+string(models.GoalBodybuilder)),
		),
	)
}

func saveKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Yes", saveYesCallback),
			tgbotapi.NewInlineKeyboardButtonData("No", saveNoCallback),
		),
	)
}

// goalFromCaption matches a literal goal caption, with or without the
// keyboard emoji prefix.
func goalFromCaption(text string) (models.Goal, bool) {
	trimmed := strings.TrimSpace(text)
	for _, goal := range []models.Goal{models.GoalModerate, models.GoalFit, models.GoalBodybuilder} {
		if trimmed == string(goal) || strings.HasSuffix(trimmed, " "+string(goal)) {
			return goal, true
		}
	}
	return "", false
}

func cloneHistory(history []models.ChatEntry) []models.ChatEntry {
	out := make([]models.ChatEntry, len(history))
	copy(out, history)
	return out
}
