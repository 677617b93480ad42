// Package tracker implements the standalone inactivity-reminder job: a
// local table of last interactions and a model-written nudge for users who
// stopped logging meals.
package tracker

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Store keeps one last-interaction timestamp per user in a local sqlite file.
type Store struct {
	db *sql.DB
}

func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open tracker database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize tracker schema: %w", err)
	}
	return store, nil
}

func (s *Store) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS users (
        telegram_id INTEGER PRIMARY KEY,
        last_interaction TEXT NOT NULL
    );
    `
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Touch records an interaction for the user right now.
func (s *Store) Touch(telegramID int64) error {
	return s.touchAt(telegramID, time.Now().UTC())
}

func (s *Store) touchAt(telegramID int64, at time.Time) error {
	_, err := s.db.Exec(`
        INSERT INTO users (telegram_id, last_interaction)
        VALUES (?, ?)
        ON CONFLICT(telegram_id) DO UPDATE SET last_interaction=excluded.last_interaction`,
		telegramID, at.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to record interaction: %w", err)
	}
	return nil
}

// InactiveUser pairs a user with how long they have been quiet.
type InactiveUser struct {
	TelegramID int64
	Days       int
}

// InactiveUsers returns every tracked user whose last interaction is at
// least thresholdDays old.
func (s *Store) InactiveUsers(thresholdDays int) ([]InactiveUser, error) {
	rows, err := s.db.Query(`SELECT telegram_id, last_interaction FROM users`)
	if err != nil {
		return nil, fmt.Errorf("failed to scan tracked users: %w", err)
	}
	defer rows.Close()

	now := time.Now().UTC()
	var inactive []InactiveUser
	for rows.Next() {
		var id int64
		var last string
		if err := rows.Scan(&id, &last); err != nil {
			return nil, fmt.Errorf("failed to scan tracker row: %w", err)
		}

		at, err := time.Parse(time.RFC3339, last)
		if err != nil {
			continue // unreadable rows are skipped, not fatal
		}
		days := int(now.Sub(at).Hours() / 24)
		if days >= thresholdDays {
			inactive = append(inactive, InactiveUser{TelegramID: id, Days: days})
		}
	}
	return inactive, rows.Err()
}
