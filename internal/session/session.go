package session

import (
	"sync"

	"github.com/lipoout/fiton-bot/internal/models"
)

// State names the conversation phase a session is in.
type State string

const (
	StateAwaitingGoal State = "awaiting_goal"
	StateChatting     State = "chatting"
	StateTerminated   State = "terminated"
)

// Session is the per-user conversation record: current state, running chat
// history and the pending-save context, if any. A turn handler must hold the
// embedded mutex for the whole turn so history appends stay ordered.
type Session struct {
	sync.Mutex

	TelegramID int64
	State      State
	History    []models.ChatEntry
	Pending    *models.PendingSave
}

// Append adds one entry to the chat history. Caller holds the session lock.
func (s *Session) Append(role, content string) {
	s.History = append(s.History, models.ChatEntry{Role: role, Content: content})
}

// TakePending returns the pending-save context and clears it. The second
// call for the same analysis returns nil, which makes duplicate
// save-confirmation presses harmless. Caller holds the session lock.
func (s *Session) TakePending() *models.PendingSave {
	p := s.Pending
	s.Pending = nil
	return p
}

// Reset clears all per-session data. Caller holds the session lock.
func (s *Session) Reset() {
	s.State = StateTerminated
	s.History = nil
	s.Pending = nil
}

// Store holds sessions keyed by Telegram user ID.
type Store interface {
	Get(telegramID int64) (*Session, bool)
	GetOrCreate(telegramID int64) *Session
	Delete(telegramID int64)
}

// MemoryStore is the in-process Store implementation.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[int64]*Session)}
}

func (s *MemoryStore) Get(telegramID int64) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[telegramID]
	return sess, ok
}

func (s *MemoryStore) GetOrCreate(telegramID int64) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[telegramID]; ok {
		return sess
	}
	sess := &Session{
		TelegramID: telegramID,
		State:      StateAwaitingGoal,
	}
	s.sessions[telegramID] = sess
	return sess
}

func (s *MemoryStore) Delete(telegramID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, telegramID)
}
