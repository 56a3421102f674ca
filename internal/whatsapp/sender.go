package whatsapp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/breaders/whatsapp-bot/internal/errors"
)

const twilioAPIBaseURL = "https://api.twilio.com"

// SenderConfig carries the Twilio REST credentials for out-of-band
// sends (order confirmations, delivery updates).
type SenderConfig struct {
	AccountSID     string
	AuthToken      string
	WhatsAppNumber string
	BaseURL        string
}

// Sender posts messages to the Twilio Messages API.
type Sender struct {
	cfg  SenderConfig
	http *http.Client
	log  *slog.Logger
}

func NewSender(cfg SenderConfig, log *slog.Logger) *Sender {
	if cfg.BaseURL == "" {
		cfg.BaseURL = twilioAPIBaseURL
	}
	if log == nil {
		log = slog.Default()
	}

	return &Sender{
		cfg:  cfg,
		http: &http.Client{Timeout: 10 * time.Second},
		log:  log,
	}
}

// Send delivers one WhatsApp message and returns the Twilio message
// SID. Transient failures (network, 5xx) are retried with backoff;
// rejections are not.
func (s *Sender) Send(ctx context.Context, to, body string) (string, error) {
	if strings.TrimSpace(StripWhatsAppPrefix(to)) == "" {
		return "", apperrors.NewValidationError("send requires a recipient phone number")
	}

	var sid string

	err := apperrors.WithRetry(ctx, func() error {
		var attemptErr error
		sid, attemptErr = s.attempt(ctx, to, body)
		return attemptErr
	})
	if err != nil {
		return "", err
	}

	s.log.Info("whatsapp message sent",
		slog.String("to", StripWhatsAppPrefix(to)),
		slog.String("sid", sid),
	)

	return sid, nil
}

func (s *Sender) attempt(ctx context.Context, to, body string) (string, error) {
	form := url.Values{}
	form.Set("From", ensureWhatsAppPrefix(s.cfg.WhatsAppNumber))
	form.Set("To", ensureWhatsAppPrefix(to))
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", s.cfg.BaseURL, s.cfg.AccountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", apperrors.NewGatewayError(err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(s.cfg.AccountSID, s.cfg.AuthToken)

	resp, err := s.http.Do(req)
	if err != nil {
		return "", apperrors.NewGatewayError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", apperrors.NewGatewayError(err)
	}

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return "", &apperrors.AppError{
			Code:        "E310",
			Message:     fmt.Sprintf("WhatsApp gateway rejected the message: status %d", resp.StatusCode),
			UserMessage: "No pudimos enviar el mensaje, intentá de nuevo.",
			Severity:    apperrors.SeverityMedium,
			Retryable:   false,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", apperrors.NewGatewayError(fmt.Errorf("twilio returned status %d", resp.StatusCode))
	}

	var result struct {
		SID string `json:"sid"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", apperrors.NewGatewayError(fmt.Errorf("decode twilio response: %w", err))
	}

	return result.SID, nil
}

// SendOrderConfirmation notifies the customer that their order was
// taken.
func (s *Sender) SendOrderConfirmation(ctx context.Context, to, orderNumber string, totalAmount float64) (string, error) {
	body := fmt.Sprintf(
		"¡Tu pedido #%s está confirmado! 🎉\nTotal: $%.2f\nTe avisamos por acá cuando salga para tu casa.",
		orderNumber, totalAmount,
	)

	return s.Send(ctx, to, body)
}

// SendDeliveryUpdate notifies the customer of a status change.
func (s *Sender) SendDeliveryUpdate(ctx context.Context, to, orderNumber, status string) (string, error) {
	body := fmt.Sprintf(
		"Actualización de tu pedido #%s: %s.",
		orderNumber, status,
	)

	return s.Send(ctx, to, body)
}

func ensureWhatsAppPrefix(number string) string {
	if strings.HasPrefix(number, "whatsapp:") {
		return number
	}

	return "whatsapp:" + number
}
