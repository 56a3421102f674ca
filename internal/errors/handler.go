package errors

import (
	"context"
	"errors"
	"log/slog"

	"github.com/getsentry/sentry-go"

	"github.com/breaders/whatsapp-bot/pkg/logger"
)

const genericUserMessage = "Lo siento, ocurrió un error al procesar tu solicitud. Por favor, intentá nuevamente más tarde."

// Handler centralizes error logging, Sentry reporting, and the mapping
// to user-facing text.
type Handler struct {
	log           *slog.Logger
	sentryEnabled bool
}

func NewHandler(log *slog.Logger, sentryEnabled bool) *Handler {
	if log == nil {
		log = slog.Default()
	}

	return &Handler{
		log:           log,
		sentryEnabled: sentryEnabled,
	}
}

// Handle logs the error and returns the text to show the user plus
// whether the failed operation may be retried. Errors that are not
// AppErrors are treated as high-severity internals.
func (h *Handler) Handle(ctx context.Context, err error) (string, bool) {
	if err == nil {
		return "", false
	}

	if ctx == nil {
		ctx = context.Background()
	}

	appErr := h.classify(err)

	attrs := []slog.Attr{
		slog.String("code", appErr.Code),
		slog.String("message", appErr.Message),
		slog.String("severity", string(appErr.Severity)),
		slog.Bool("retryable", appErr.Retryable),
	}
	if correlationID := logger.CorrelationIDFromContext(ctx); correlationID != "" {
		attrs = append(attrs, slog.String("correlation_id", correlationID))
	}

	h.log.LogAttrs(ctx, slog.LevelError, "conversation error", attrs...)

	if h.sentryEnabled && (appErr.Severity == SeverityCritical || appErr.Severity == SeverityHigh) {
		reportToSentry(appErr, err)
	}

	userMessage := appErr.UserMessage
	if userMessage == "" {
		userMessage = genericUserMessage
	}

	return userMessage, appErr.Retryable
}

// classify normalizes arbitrary errors into an AppError so logging and
// reporting follow one path.
func (h *Handler) classify(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr != nil {
		return appErr
	}

	return &AppError{
		Code:      CodeInternal,
		Message:   err.Error(),
		Severity:  SeverityHigh,
		Retryable: false,
	}
}

func reportToSentry(appErr *AppError, cause error) {
	sentry.WithScope(func(scope *sentry.Scope) {
		if appErr.Code != "" {
			scope.SetTag("code", appErr.Code)
		}
		if appErr.Severity != "" {
			scope.SetTag("severity", string(appErr.Severity))
		}

		sentry.CaptureException(cause)
	})
}
