// Package backend talks to the external user/food-log HTTP service.
package backend

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/lipoout/fiton-bot/internal/models"
)

// ErrNotFound reports a 404 (or empty result) from a user lookup. Callers
// treat it as "proceed to create".
var ErrNotFound = errors.New("backend: not found")

type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    http.DefaultClient,
		logger:  logger,
	}
}

// GetUserByName looks a user up by their Telegram username.
func (c *Client) GetUserByName(ctx context.Context, name string) (*models.User, error) {
	return c.lookupUser(ctx, "name", name)
}

// GetUserByTelegramID looks a user up by their numeric Telegram ID.
func (c *Client) GetUserByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	return c.lookupUser(ctx, "telegram_id", strconv.FormatInt(telegramID, 10))
}

func (c *Client) lookupUser(ctx context.Context, key, value string) (*models.User, error) {
	url := fmt.Sprintf("%s/users/?%s=%s", c.baseURL, key, value)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build user lookup: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("user lookup failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotFound:
		return nil, ErrNotFound
	case http.StatusOK:
	default:
		return nil, fmt.Errorf("user lookup returned status %d", resp.StatusCode)
	}

	// The service answers lookups with a list; the first entry wins.
	var users []models.User
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		return nil, fmt.Errorf("failed to decode user lookup: %w", err)
	}
	if len(users) == 0 {
		return nil, ErrNotFound
	}
	return &users[0], nil
}

// CreateUser registers a new user record.
func (c *Client) CreateUser(ctx context.Context, user models.User) error {
	return c.post(ctx, c.baseURL+"/users/", user)
}

// UpdateGoal patches the user's goal, keyed by Telegram ID.
func (c *Client) UpdateGoal(ctx context.Context, telegramID int64, goal models.Goal) error {
	url := fmt.Sprintf("%s/users/?telegram_id=%d", c.baseURL, telegramID)
	body, err := json.Marshal(map[string]string{"goal": string(goal)})
	if err != nil {
		return fmt.Errorf("failed to encode goal update: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build goal update: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("goal update failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("goal update returned status %d", resp.StatusCode)
	}
	return nil
}

// SaveFood stores a confirmed meal: the raw analysis, the photo as base64
// and the four extracted nutrition fields.
func (c *Client) SaveFood(ctx context.Context, userID int64, photo []byte, analysis string, n models.Nutrition) error {
	entry := models.FoodEntry{
		UserID:       userID,
		FoodAnalysis: analysis,
		FoodPhoto:    base64.StdEncoding.EncodeToString(photo),
		Calories:     n.Calories,
		Carb:         n.Carbs,
		Protein:      n.Protein,
		Fat:          n.Fat,
	}
	return c.post(ctx, c.baseURL+"/foods/", entry)
}

func (c *Client) post(ctx context.Context, url string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", url, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request to %s returned status %d", url, resp.StatusCode)
	}
	return nil
}

// EnsureUser looks the user up by name and creates the record with default
// profile fields when the lookup says not-found.
func (c *Client) EnsureUser(ctx context.Context, name string, telegramID int64) error {
	_, err := c.GetUserByName(ctx, name)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}

	c.logger.Info("Creating backend user",
		zap.String("name", name),
		zap.Int64("telegram_id", telegramID))

	return c.CreateUser(ctx, models.User{
		Name:       name,
		TelegramID: telegramID,
		Goal:       "default",
	})
}
