package tracker

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(filepath.Join(t.TempDir(), "tracker.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestTouchAndScan(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Touch(42))

	inactive, err := store.InactiveUsers(1)
	require.NoError(t, err)
	assert.Empty(t, inactive, "a freshly touched user is not inactive")

	inactive, err = store.InactiveUsers(0)
	require.NoError(t, err)
	require.Len(t, inactive, 1)
	assert.Equal(t, int64(42), inactive[0].TelegramID)
}

func TestInactiveUsersPastThreshold(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.touchAt(1, time.Now().UTC().AddDate(0, 0, -5)))
	require.NoError(t, store.touchAt(2, time.Now().UTC().AddDate(0, 0, -1)))

	inactive, err := store.InactiveUsers(3)
	require.NoError(t, err)
	require.Len(t, inactive, 1)
	assert.Equal(t, int64(1), inactive[0].TelegramID)
	assert.Equal(t, 5, inactive[0].Days)
}

func TestTouchUpdatesExistingRow(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.touchAt(7, time.Now().UTC().AddDate(0, 0, -10)))
	require.NoError(t, store.Touch(7))

	inactive, err := store.InactiveUsers(3)
	require.NoError(t, err)
	assert.Empty(t, inactive, "touching again resets the clock")
}

type fakeCompletion struct {
	reply string
	err   error
}

func (f *fakeCompletion) CreateChatCompletion(_ context.Context, _ openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.reply}},
		},
	}, nil
}

type fakeSender struct {
	sent []tgbotapi.MessageConfig
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, nil
}

func TestRemind(t *testing.T) {
	sender := &fakeSender{}
	r := newReminder(&fakeCompletion{reply: "三天沒消息，偷吃了什麼？😏"}, sender, "gpt-4o", zap.NewNop())

	require.NoError(t, r.Remind(context.Background(), InactiveUser{TelegramID: 42, Days: 3}))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, int64(42), sender.sent[0].ChatID)
	assert.Equal(t, "三天沒消息，偷吃了什麼？😏", sender.sent[0].Text)
}

func TestRemindFallsBackOnModelFailure(t *testing.T) {
	sender := &fakeSender{}
	r := newReminder(&fakeCompletion{err: assert.AnError}, sender, "gpt-4o", zap.NewNop())

	require.NoError(t, r.Remind(context.Background(), InactiveUser{TelegramID: 42, Days: 3}))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, fallbackReminder, sender.sent[0].Text)
}

func TestRunSweepsStore(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.touchAt(1, time.Now().UTC().AddDate(0, 0, -4)))
	require.NoError(t, store.touchAt(2, time.Now().UTC().AddDate(0, 0, -6)))
	require.NoError(t, store.Touch(3))

	sender := &fakeSender{}
	r := newReminder(&fakeCompletion{reply: "回來記錄飲食吧！"}, sender, "gpt-4o", zap.NewNop())

	require.NoError(t, r.Run(context.Background(), store, 3))
	assert.Len(t, sender.sent, 2, "only users past the threshold get a reminder")
}
