package tracker

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const reminderSystemPrompt = "你是一位帶點幽默和調皮的健康教練，目的是鼓勵使用者回到健康飲食的軌道。當使用者一段時間沒和你互動時，你會用輕微嘲諷的方式提醒他們可能因為沒有紀錄飲食而偏離了健康的生活方式。你的語氣可以幽默且直接，例如輕輕嘲笑他們可能胖了或偷偷吃了不健康的食物。同時，你也要在最後用積極正面的語氣鼓勵他們重新開始記錄飲食和回到健康生活。保持對話的輕鬆有趣，但要確保傳達健康飲食的重要性。"

// fallbackReminder goes out when the model call fails; a reminder turn is
// best effort and never aborts the sweep.
const fallbackReminder = "好久不見！記得回來記錄你的飲食喔 💪"

type completionClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type messageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Reminder generates and delivers inactivity nudges.
type Reminder struct {
	client completionClient
	api    messageSender
	model  string
	logger *zap.Logger
}

func NewReminder(apiKey, model, botToken string, logger *zap.Logger) (*Reminder, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	return newReminder(openai.NewClient(apiKey), api, model, logger), nil
}

func newReminder(client completionClient, api messageSender, model string, logger *zap.Logger) *Reminder {
	return &Reminder{
		client: client,
		api:    api,
		model:  model,
		logger: logger,
	}
}

// compose asks the model for a playful reminder for a user quiet for the
// given number of days.
func (r *Reminder) compose(ctx context.Context, daysInactive int) string {
	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: reminderSystemPrompt},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("我已經 %d 天沒有上傳飲食紀錄了.", daysInactive),
			},
		},
		MaxTokens:   50,
		Temperature: 1.5,
	})
	if err != nil || len(resp.Choices) == 0 {
		r.logger.Warn("Failed to compose reminder, using fallback", zap.Error(err))
		return fallbackReminder
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content)
}

// Remind sends one nudge to one user.
func (r *Reminder) Remind(ctx context.Context, user InactiveUser) error {
	text := r.compose(ctx, user.Days)
	if _, err := r.api.Send(tgbotapi.NewMessage(user.TelegramID, text)); err != nil {
		return fmt.Errorf("failed to send reminder: %w", err)
	}
	return nil
}

// Run sweeps the store and reminds everyone past the inactivity threshold.
func (r *Reminder) Run(ctx context.Context, store *Store, thresholdDays int) error {
	inactive, err := store.InactiveUsers(thresholdDays)
	if err != nil {
		return err
	}

	for _, user := range inactive {
		if err := r.Remind(ctx, user); err != nil {
			r.logger.Error("Failed to remind user",
				zap.Error(err),
				zap.Int64("user_id", user.TelegramID))
		}
	}

	r.logger.Info("Reminder sweep finished", zap.Int("inactive_users", len(inactive)))
	return nil
}
