// Package assistant calls the Twilio AI Assistant API for messages the
// keyword detector and menu machine could not resolve.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	apperrors "github.com/breaders/whatsapp-bot/internal/errors"
	"github.com/breaders/whatsapp-bot/internal/intent"
	"github.com/breaders/whatsapp-bot/internal/menu"
)

// ErrNotConfigured signals the assistant credentials are absent and the
// caller should fall back to canned replies.
var ErrNotConfigured = errors.New("assistant is not configured")

const (
	defaultBaseURL = "https://assistants.twilio.com"
	requestTimeout = 10 * time.Second

	// First-interaction messages shorter than this are treated as
	// greetings and answered with the welcome text without an API call.
	greetingRuneLimit = 10
)

// Config carries the Twilio Assistant credentials. BaseURL is
// overridable for tests and defaults to the public Twilio endpoint.
type Config struct {
	AccountSID  string
	AuthToken   string
	AssistantID string
	WebhookURL  string
	BaseURL     string
}

func (c Config) enabled() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.AssistantID != ""
}

// Query is one user message handed to the assistant, with the detector
// verdict attached as conversation context.
type Query struct {
	UserID           string
	Text             string
	Intent           string
	Confidence       float64
	FirstInteraction bool
}

// Client talks to the Twilio Assistant Messages endpoint behind a
// circuit breaker.
type Client struct {
	cfg     Config
	http    *http.Client
	breaker *apperrors.CircuitBreaker
	log     *slog.Logger
}

func NewClient(cfg Config, log *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if log == nil {
		log = slog.Default()
	}

	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: requestTimeout},
		breaker: apperrors.NewCircuitBreaker(apperrors.DefaultBreakerConfig()),
		log:     log,
	}
}

// Enabled reports whether assistant credentials are configured.
func (c *Client) Enabled() bool {
	return c.cfg.enabled()
}

// Respond answers the query. On a user's first interaction a simple
// greeting short-circuits to the welcome message without touching the
// API.
func (c *Client) Respond(ctx context.Context, q Query) (string, error) {
	if q.FirstInteraction && isSimpleGreeting(q.Text) {
		c.log.Info("first interaction greeting, sending welcome message",
			slog.String("user_id", q.UserID),
		)

		return menu.MsgBienvenida, nil
	}

	if !c.cfg.enabled() {
		return "", ErrNotConfigured
	}

	var reply string
	err := c.breaker.Call(func() error {
		var callErr error
		reply, callErr = c.send(ctx, q)
		return callErr
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrCircuitOpen) {
			return "", apperrors.NewAssistantError(err)
		}

		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return "", err
		}

		return "", apperrors.NewAssistantError(err)
	}

	return reply, nil
}

func (c *Client) send(ctx context.Context, q Query) (string, error) {
	payload := map[string]any{
		"identity":   c.identity(q),
		"session_id": "session_" + cleanPhone(q.UserID),
		"body":       q.Text,
	}
	if c.cfg.WebhookURL != "" {
		payload["webhook"] = c.cfg.WebhookURL
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal assistant payload: %w", err)
	}

	url := fmt.Sprintf("%s/v1/Assistants/%s/Messages", c.cfg.BaseURL, c.cfg.AssistantID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build assistant request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.cfg.AccountSID, c.cfg.AuthToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("call assistant: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read assistant response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("assistant returned status %d", resp.StatusCode)
	}

	reply, err := extractReply(raw)
	if err != nil {
		return "", err
	}

	return reply, nil
}

// identity encodes the phone plus the detector verdict so the
// assistant sees where the conversation stands.
func (c *Client) identity(q Query) string {
	phone := cleanPhone(q.UserID)
	if q.Intent == "" {
		return "phone:" + phone
	}

	contextJSON, err := json.Marshal(map[string]any{
		"intent":     q.Intent,
		"confidence": q.Confidence,
	})
	if err != nil {
		return "phone:" + phone
	}

	return fmt.Sprintf("phone:%s|context:%s", phone, contextJSON)
}

// extractReply handles the response shapes the Assistants API has been
// seen returning: a string "response", an object with "text", then
// "body", "content", and "message" fields, falling back to the raw
// payload.
func extractReply(raw []byte) (string, error) {
	var result map[string]json.RawMessage
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", fmt.Errorf("decode assistant response: %w", err)
	}

	if response, ok := result["response"]; ok {
		var text string
		if err := json.Unmarshal(response, &text); err == nil && text != "" {
			return text, nil
		}

		var nested struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(response, &nested); err == nil && nested.Text != "" {
			return nested.Text, nil
		}
	}

	for _, field := range []string{"body", "content", "message"} {
		value, ok := result[field]
		if !ok {
			continue
		}

		var text string
		if err := json.Unmarshal(value, &text); err == nil && text != "" {
			return text, nil
		}
	}

	return string(raw), nil
}

func isSimpleGreeting(text string) bool {
	normalized := strings.ToLower(strings.TrimSpace(text))
	return intent.IsGreeting(normalized) || utf8.RuneCountInString(normalized) < greetingRuneLimit
}

func cleanPhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			b.WriteRune(r)
		}
	}

	return b.String()
}
