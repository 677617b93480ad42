package session

import (
	"testing"

	"github.com/lipoout/fiton-bot/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreGetOrCreate(t *testing.T) {
	store := NewMemoryStore()

	sess := store.GetOrCreate(42)
	require.NotNil(t, sess)
	assert.Equal(t, StateAwaitingGoal, sess.State)
	assert.Empty(t, sess.History)

	again := store.GetOrCreate(42)
	assert.Same(t, sess, again, "same user must get the same session")

	other := store.GetOrCreate(7)
	assert.NotSame(t, sess, other, "sessions are per user")
}

func TestMemoryStoreGetMissing(t *testing.T) {
	store := NewMemoryStore()
	_, ok := store.Get(1)
	assert.False(t, ok)
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemoryStore()
	store.GetOrCreate(42)
	store.Delete(42)
	_, ok := store.Get(42)
	assert.False(t, ok)
}

func TestSessionAppendOrder(t *testing.T) {
	sess := &Session{TelegramID: 1, State: StateChatting}
	sess.Append(models.RoleUser, "first")
	sess.Append(models.RoleAssistant, "second")

	require.Len(t, sess.History, 2)
	assert.Equal(t, models.ChatEntry{Role: models.RoleUser, Content: "first"}, sess.History[0])
	assert.Equal(t, models.ChatEntry{Role: models.RoleAssistant, Content: "second"}, sess.History[1])
}

func TestTakePendingClearsOnce(t *testing.T) {
	sess := &Session{TelegramID: 1, State: StateChatting}
	sess.Pending = &models.PendingSave{ID: "abc", TelegramID: 1}

	first := sess.TakePending()
	require.NotNil(t, first)
	assert.Equal(t, "abc", first.ID)

	assert.Nil(t, sess.TakePending(), "duplicate confirmation must see no pending context")
}

func TestReset(t *testing.T) {
	sess := &Session{TelegramID: 1, State: StateChatting}
	sess.Append(models.RoleUser, "hello")
	sess.Pending = &models.PendingSave{ID: "abc"}

	sess.Reset()

	assert.Equal(t, StateTerminated, sess.State)
	assert.Nil(t, sess.History)
	assert.Nil(t, sess.Pending)
}
