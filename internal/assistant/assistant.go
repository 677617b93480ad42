// Package assistant composes the outbound language-model calls and runs the
// analysis post-processing pipeline on their output.
package assistant

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/lipoout/fiton-bot/internal/chart"
	"github.com/lipoout/fiton-bot/internal/models"
	"github.com/lipoout/fiton-bot/internal/nutrition"
)

// historyWindow caps how many history entries go out with one request. The
// stored history itself is not pruned.
const historyWindow = 40

// Analysis is the result of one photo turn.
type Analysis struct {
	Text      string
	IsFood    bool
	Nutrition models.Nutrition
	Rating    int
	Chart     []byte
}

// completionClient is the slice of the OpenAI client the assistant uses.
type completionClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type Assistant struct {
	client      completionClient
	model       string
	maxTokens   int
	temperature float64
	logger      *zap.Logger
}

func New(apiKey, model string, maxTokens int, temperature float64, logger *zap.Logger) *Assistant {
	return newWithClient(openai.NewClient(apiKey), model, maxTokens, temperature, logger)
}

func newWithClient(client completionClient, model string, maxTokens int, temperature float64, logger *zap.Logger) *Assistant {
	return &Assistant{
		client:      client,
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		logger:      logger,
	}
}

// ReplyToText answers a free-text turn with the health-coach persona over
// the running history.
func (a *Assistant) ReplyToText(ctx context.Context, history []models.ChatEntry) (string, error) {
	messages := a.buildMessages(textSystemPrompt, history)

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       a.model,
		Messages:    messages,
		MaxTokens:   a.maxTokens,
		Temperature: float32(a.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("text completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("text completion returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// ClassifyFood asks the model for a typed food/not-food verdict on the
// photo. A verdict that cannot be parsed counts as food, so a confused
// classifier never blocks an analysis.
func (a *Assistant) ClassifyFood(ctx context.Context, photo []byte) (bool, error) {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: classifierSystemPrompt},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: "Is this food?"},
					imagePart(photo),
				},
			},
		},
		MaxTokens:   16,
		Temperature: 0,
	})
	if err != nil {
		return false, fmt.Errorf("classification failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return false, fmt.Errorf("classification returned no choices")
	}

	var verdict struct {
		IsFood bool `json:"is_food"`
	}
	raw := stripCodeFence(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(raw), &verdict); err != nil {
		a.logger.Warn("Failed to parse classifier verdict, assuming food",
			zap.Error(err),
			zap.String("response", raw))
		return true, nil
	}
	return verdict.IsFood, nil
}

// AnalyzePhoto runs a full photo turn: classify, analyze, then extract the
// nutrition record, normalize the rating line and render the chart. A chart
// render failure degrades to a text-only analysis.
func (a *Assistant) AnalyzePhoto(ctx context.Context, history []models.ChatEntry, photo []byte) (*Analysis, error) {
	isFood, err := a.ClassifyFood(ctx, photo)
	if err != nil {
		a.logger.Warn("Classifier call failed, assuming food", zap.Error(err))
		isFood = true
	}
	if !isFood {
		return &Analysis{Text: notFoodReply, IsFood: false}, nil
	}

	messages := a.buildMessages(photoSystemPrompt, history)
	messages = append(messages, openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser,
		MultiContent: []openai.ChatMessagePart{
			{Type: openai.ChatMessagePartTypeText, Text: photoUserPrompt},
			imagePart(photo),
		},
	})

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       a.model,
		Messages:    messages,
		MaxTokens:   a.maxTokens,
		Temperature: float32(a.temperature),
	})
	if err != nil {
		return nil, fmt.Errorf("photo completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("photo completion returned no choices")
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)

	record := nutrition.Extract(text)
	rating := nutrition.ExtractRating(text)
	text = nutrition.NormalizeRating(text, rating, nutrition.Stars(rating))

	analysis := &Analysis{
		Text:      text,
		IsFood:    true,
		Nutrition: record,
		Rating:    rating,
	}

	img, err := chart.Render(record)
	if err != nil {
		a.logger.Error("Failed to render nutrition chart", zap.Error(err))
		return analysis, nil
	}
	analysis.Chart = img
	return analysis, nil
}

func (a *Assistant) buildMessages(system string, history []models.ChatEntry) []openai.ChatCompletionMessage {
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: system,
	})
	for _, entry := range history {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    entry.Role,
			Content: entry.Content,
		})
	}
	return messages
}

func imagePart(photo []byte) openai.ChatMessagePart {
	return openai.ChatMessagePart{
		Type: openai.ChatMessagePartTypeImageURL,
		ImageURL: &openai.ChatMessageImageURL{
			URL: "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(photo),
		},
	}
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
