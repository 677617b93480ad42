package models

import "time"

// Nutrition is the four-field record extracted from one meal analysis.
// Missing fields stay zero.
type Nutrition struct {
	Calories float64 `json:"calories"`
	Carbs    float64 `json:"carb"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
}

// Goal is the user's declared health goal.
type Goal string

const (
	GoalModerate    Goal = "Moderate"
	GoalFit         Goal = "Fit"
	GoalBodybuilder Goal = "Bodybuilder"
)

// Valid reports whether g is one of the known goals.
func (g Goal) Valid() bool {
	switch g {
	case GoalModerate, GoalFit, GoalBodybuilder:
		return true
	}
	return false
}

// Roles of chat history entries.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatEntry is one turn of the running conversation history.
type ChatEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// PendingSave bridges a photo analysis and the later save/discard answer.
// It lives on the session only between those two events.
type PendingSave struct {
	ID         string    `json:"id"`
	TelegramID int64     `json:"telegram_id"`
	Photo      []byte    `json:"photo"`
	Analysis   string    `json:"analysis"`
	Nutrition  Nutrition `json:"nutrition"`
	CreatedAt  time.Time `json:"created_at"`
}

// User mirrors the backend's user record.
type User struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Age        int    `json:"age"`
	Height     int    `json:"height"`
	Weight     int    `json:"weight"`
	TelegramID int64  `json:"telegram_id"`
	Goal       string `json:"goal"`
}

// FoodEntry is the payload stored against a user after a confirmed save.
type FoodEntry struct {
	UserID       int64   `json:"user_id"`
	FoodAnalysis string  `json:"food_analysis"`
	FoodPhoto    string  `json:"food_photo"`
	Calories     float64 `json:"calories"`
	Carb         float64 `json:"carb"`
	Protein      float64 `json:"protein"`
	Fat          float64 `json:"fat"`
}
