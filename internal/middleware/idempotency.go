package middleware

import (
	"log/slog"
	"net/http"

	"github.com/breaders/whatsapp-bot/internal/idempotency"
	"github.com/breaders/whatsapp-bot/internal/whatsapp"
)

// Idempotency short-circuits redelivered webhooks. A seen MessageSid
// gets an empty TwiML response; the user already received the reply on
// the first delivery.
func Idempotency(deduper *idempotency.Deduper, log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		if deduper == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseForm(); err != nil {
				next.ServeHTTP(w, r)
				return
			}

			messageSid := r.PostFormValue("MessageSid")
			seen, err := deduper.Seen(r.Context(), messageSid)
			if err != nil {
				// Redis trouble must not drop the message.
				next.ServeHTTP(w, r)
				return
			}

			if seen {
				log.Info("duplicate webhook delivery skipped", slog.String("message_sid", messageSid))
				_ = whatsapp.WriteTwiML(w, "")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
