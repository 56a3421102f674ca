package whatsapp

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/breaders/whatsapp-bot/internal/menu"
	"github.com/breaders/whatsapp-bot/internal/repository"
)

// MsgCuerpoVacio answers webhook deliveries that carry no text (media
// only, reactions).
const MsgCuerpoVacio = "No pude entender tu mensaje. ¿Podés escribirlo de nuevo?"

// TurnProcessor resolves one inbound message to a reply.
type TurnProcessor interface {
	ProcessTurn(ctx context.Context, userID, text string) string
}

// WebhookHandler receives Twilio's inbound-message callbacks, runs the
// conversation turn, and answers TwiML.
type WebhookHandler struct {
	turns      TurnProcessor
	messageLog *repository.MessageLog
	log        *slog.Logger
}

// NewWebhookHandler builds the webhook handler. messageLog may be nil;
// message persistence is then skipped.
func NewWebhookHandler(turns TurnProcessor, messageLog *repository.MessageLog, log *slog.Logger) *WebhookHandler {
	if log == nil {
		log = slog.Default()
	}

	return &WebhookHandler{
		turns:      turns,
		messageLog: messageLog,
		log:        log,
	}
}

func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// A failed TwiML response makes Twilio show the user nothing, so
	// the handler converts every panic into a canned apology.
	defer func() {
		if rec := recover(); rec != nil {
			h.log.Error("panic in webhook handler", slog.Any("panic", rec))
			_ = WriteTwiML(w, menu.MsgError)
		}
	}()

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.log.Warn("unparseable webhook form", slog.String("error", err.Error()))
		_ = WriteTwiML(w, menu.MsgError)
		return
	}

	from := StripWhatsAppPrefix(r.PostFormValue("From"))
	body := strings.TrimSpace(r.PostFormValue("Body"))
	messageSid := r.PostFormValue("MessageSid")

	log := h.log.With(
		slog.String("from", from),
		slog.String("message_sid", messageSid),
	)
	log.Info("inbound message received")

	if body == "" {
		log.Warn("empty message body")
		_ = WriteTwiML(w, MsgCuerpoVacio)
		return
	}

	record := h.recordInbound(r.Context(), log, from, body, messageSid)

	reply := h.turns.ProcessTurn(r.Context(), from, body)

	if record != nil && reply != "" {
		if err := h.messageLog.RecordOutbound(r.Context(), record.ConversationID, reply); err != nil {
			log.Warn("outbound message not recorded", slog.String("error", err.Error()))
		}
	}

	if err := WriteTwiML(w, reply); err != nil {
		log.Error("twiml write failed", slog.String("error", err.Error()))
	}
}

// recordInbound persists the message when a message log is configured.
// Persistence failures never block the turn.
func (h *WebhookHandler) recordInbound(ctx context.Context, log *slog.Logger, from, body, messageSid string) *repository.TurnRecord {
	if h.messageLog == nil {
		return nil
	}

	record, err := h.messageLog.RecordInbound(ctx, from, body, messageSid)
	if err != nil {
		log.Warn("inbound message not recorded", slog.String("error", err.Error()))
		return nil
	}

	return record
}

// StripWhatsAppPrefix removes Twilio's channel prefix from a phone
// number.
func StripWhatsAppPrefix(number string) string {
	return strings.TrimPrefix(number, "whatsapp:")
}
