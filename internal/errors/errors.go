package errors

import "fmt"

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// CodeInternal classifies errors that reached the handler without an
// AppError wrapper.
const CodeInternal = "E900"

// AppError carries an operator-facing message alongside the canned
// Spanish text shown to the WhatsApp user.
type AppError struct {
	Code        string
	Message     string
	UserMessage string
	Severity    Severity
	Retryable   bool
	cause       error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.cause
}

func (e *AppError) Cause() error {
	return e.Unwrap()
}

func NewValidationError(msg string) *AppError {
	return &AppError{
		Code:        "E100",
		Message:     msg,
		UserMessage: "No pude interpretar los datos que enviaste. ¿Podrías revisarlos?",
		Severity:    SeverityLow,
		Retryable:   false,
	}
}

func NewDatabaseError(cause error) *AppError {
	var underlyingMsg string
	if cause != nil {
		underlyingMsg = cause.Error()
	}

	return &AppError{
		Code:        "E200",
		Message:     fmt.Sprintf("database error: %s", underlyingMsg),
		UserMessage: "Tenemos un problema temporal, intentá de nuevo en unos minutos.",
		Severity:    SeverityHigh,
		Retryable:   true,
		cause:       cause,
	}
}

func NewAssistantError(cause error) *AppError {
	return &AppError{
		Code:        "E300",
		Message:     "AI assistant error",
		UserMessage: "El asistente está temporalmente no disponible.",
		Severity:    SeverityMedium,
		Retryable:   true,
		cause:       cause,
	}
}

func NewGatewayError(cause error) *AppError {
	return &AppError{
		Code:        "E310",
		Message:     "WhatsApp gateway error",
		UserMessage: "No pudimos enviar el mensaje, intentá de nuevo.",
		Severity:    SeverityMedium,
		Retryable:   true,
		cause:       cause,
	}
}

func NewStateError(msg string) *AppError {
	return &AppError{
		Code:        "E400",
		Message:     msg,
		UserMessage: "Esa operación no está disponible en este punto de la conversación.",
		Severity:    SeverityMedium,
		Retryable:   false,
	}
}

func NewRateLimitError(retryAfter int) *AppError {
	return &AppError{
		Code:        "E500",
		Message:     fmt.Sprintf("rate limit exceeded: retry after %d seconds", retryAfter),
		UserMessage: fmt.Sprintf("Recibimos muchos mensajes seguidos. Probá de nuevo en %d segundos.", retryAfter),
		Severity:    SeverityLow,
		Retryable:   false,
	}
}
