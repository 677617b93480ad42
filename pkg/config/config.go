package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Telegram TelegramConfig `mapstructure:"telegram"`
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	Backend  BackendConfig  `mapstructure:"backend"`
	Tracker  TrackerConfig  `mapstructure:"tracker"`
}

type TelegramConfig struct {
	Token string `mapstructure:"token"`
}

type OpenAIConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
}

type BackendConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

type TrackerConfig struct {
	DBPath        string `mapstructure:"db_path"`
	InactiveDays  int    `mapstructure:"inactive_days"`
	ReminderModel string `mapstructure:"reminder_model"`
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.max_tokens", 512)
	v.SetDefault("openai.temperature", 0.2)
	v.SetDefault("backend.base_url", "http://127.0.0.1:8000")
	v.SetDefault("tracker.db_path", "tracker.db")
	v.SetDefault("tracker.inactive_days", 3)
	v.SetDefault("tracker.reminder_model", "gpt-4o")

	// Enable environment variable support
	v.AutomaticEnv()

	// Read the config file
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Environment overrides for secrets
	if token := v.GetString("TELEGRAM_TOKEN"); token != "" {
		config.Telegram.Token = token
	}
	if apiKey := v.GetString("OPENAI_API_KEY"); apiKey != "" {
		config.OpenAI.APIKey = apiKey
	}
	if baseURL := v.GetString("BACKEND_URL"); baseURL != "" {
		config.Backend.BaseURL = baseURL
	}
	if dbPath := v.GetString("TRACKER_DB"); dbPath != "" {
		config.Tracker.DBPath = dbPath
	}

	// A bot without credentials cannot start
	if config.Telegram.Token == "" {
		return nil, fmt.Errorf("telegram token is not configured")
	}
	if config.OpenAI.APIKey == "" {
		return nil, fmt.Errorf("openai api key is not configured")
	}

	return &config, nil
}
