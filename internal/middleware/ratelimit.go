package middleware

import (
	"log/slog"
	"math"
	"net/http"
	"time"

	apperrors "github.com/breaders/whatsapp-bot/internal/errors"
	"github.com/breaders/whatsapp-bot/internal/ratelimit"
	"github.com/breaders/whatsapp-bot/internal/whatsapp"
)

// RateLimit enforces a per-sender message budget on the webhook. A
// limiter failure lets the request through; dropping messages because
// Redis blinked would hurt more than a short burst.
func RateLimit(limiter ratelimit.Limiter, limit int, window time.Duration, log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseForm(); err != nil {
				next.ServeHTTP(w, r)
				return
			}

			sender := whatsapp.StripWhatsAppPrefix(r.PostFormValue("From"))
			if sender == "" {
				next.ServeHTTP(w, r)
				return
			}

			result, err := limiter.Allow(r.Context(), sender, limit, window)
			if err != nil {
				log.Warn("rate limiter error", slog.String("sender", sender), slog.Any("error", err))
				next.ServeHTTP(w, r)
				return
			}

			if !result.Allowed {
				retryAfter := int(math.Ceil(time.Until(result.ResetAt).Seconds()))
				if retryAfter < 1 {
					retryAfter = 1
				}

				log.Warn("rate limit exceeded", slog.String("sender", sender))
				_ = whatsapp.WriteTwiML(w, apperrors.NewRateLimitError(retryAfter).UserMessage)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
