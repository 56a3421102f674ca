// Package conversation sequences one inbound WhatsApp message through
// menu navigation, intent detection, and the AI assistant fallback.
package conversation

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"sync/atomic"
	"time"

	"github.com/breaders/whatsapp-bot/internal/assistant"
	apperrors "github.com/breaders/whatsapp-bot/internal/errors"
	"github.com/breaders/whatsapp-bot/internal/intent"
	"github.com/breaders/whatsapp-bot/internal/menu"
	"github.com/breaders/whatsapp-bot/internal/state"
	"github.com/breaders/whatsapp-bot/pkg/metrics"
)

// DefaultIntentThreshold gates both keyword-intent handling and the
// confidence handed to the assistant.
const DefaultIntentThreshold = 0.5

// Responder is the AI assistant surface the orchestrator needs.
type Responder interface {
	Respond(ctx context.Context, q assistant.Query) (string, error)
	Enabled() bool
}

// Sessions reports whether a turn is the user's first interaction ever,
// which feeds the assistant's greeting shortcut. Implemented by the
// conversation repository; a nil Sessions means "never first".
type Sessions interface {
	IsFirstInteraction(ctx context.Context, userID string) (bool, error)
}

// intentReply maps a detected intent to its canned response and the
// menu state the conversation lands in.
type intentReply struct {
	message string
	next    state.State
}

var intentReplies = map[intent.Intent]intentReply{
	intent.IntentSaludo:            {menu.MsgBienvenida, state.StateMenuPrincipal},
	intent.IntentVerProductos:      {menu.MsgVerProductos, state.StateNavegandoProductos},
	intent.IntentHacerPedido:       {menu.MsgHacerPedido, state.StateHaciendoPedido},
	intent.IntentEstadoPedido:      {menu.MsgConsultarEstado, state.StateEstadoPedido},
	intent.IntentOfertasEspeciales: {menu.MsgOfertasEspeciales, state.StateOfertasEspeciales},
	intent.IntentAtencionCliente:   {menu.MsgAtencionCliente, state.StateAtencionCliente},
}

// interrogatives are the sentence-opening markers that make free text
// count as a question even without a question mark.
var interrogatives = map[string]struct{}{
	"que": {}, "qué": {},
	"como": {}, "cómo": {},
	"cuando": {}, "cuándo": {},
	"donde": {}, "dónde": {},
	"cual": {}, "cuál": {},
	"cuanto": {}, "cuánto": {},
	"cuanta": {}, "cuánta": {},
	"quien": {}, "quién": {},
}

// Orchestrator owns the precedence policy for a conversation turn.
type Orchestrator struct {
	store      state.Store
	machine    *menu.Machine
	detector   *intent.Detector
	assistant  Responder
	sessions   Sessions
	errHandler *apperrors.Handler
	log        *slog.Logger

	thresholdBits atomic.Uint64
}

func NewOrchestrator(
	store state.Store,
	machine *menu.Machine,
	detector *intent.Detector,
	responder Responder,
	sessions Sessions,
	errHandler *apperrors.Handler,
	log *slog.Logger,
) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}

	o := &Orchestrator{
		store:      store,
		machine:    machine,
		detector:   detector,
		assistant:  responder,
		sessions:   sessions,
		errHandler: errHandler,
		log:        log,
	}
	o.SetIntentThreshold(DefaultIntentThreshold)

	return o
}

// SetIntentThreshold swaps the confidence gate; safe to call from the
// config hot-reload callback while turns are in flight.
func (o *Orchestrator) SetIntentThreshold(threshold float64) {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultIntentThreshold
	}

	o.thresholdBits.Store(math.Float64bits(threshold))
}

func (o *Orchestrator) intentThreshold() float64 {
	return math.Float64frombits(o.thresholdBits.Load())
}

// ProcessTurn resolves one inbound message to the reply text. It never
// returns an error: every failure collapses into a canned apology.
func (o *Orchestrator) ProcessTurn(ctx context.Context, userID, text string) (reply string) {
	started := time.Now()
	path := "unhandled"

	defer func() {
		if r := recover(); r != nil {
			o.log.Error("panic during conversation turn",
				slog.String("user_id", userID),
				slog.Any("panic", r),
			)
			metrics.RecordError("panic", "critical")
			path = "panic"
			reply = menu.MsgError
		}

		metrics.RecordMessage(path, turnStatus(reply), time.Since(started))
		o.log.Info("turn resolved",
			slog.String("user_id", userID),
			slog.String("path", path),
		)
	}()

	current, err := o.store.Get(ctx, userID)
	if err != nil {
		return o.fail(ctx, err, &path, "state_error")
	}

	trimmed := strings.TrimSpace(text)

	// 1. Back navigation and 2. numeric options belong to the menu
	// machine; numeric input never falls through to intent or AI.
	if menu.IsBackCommand(trimmed) || isDigits(trimmed) {
		menuReply, handled, err := o.machine.Handle(ctx, userID, current, trimmed)
		if err != nil {
			return o.fail(ctx, err, &path, "menu_error")
		}
		if handled {
			path = "menu"
			return menuReply
		}
	}

	firstInteraction := o.isFirstInteraction(ctx, userID)
	detected, confidence := o.detector.Detect(trimmed)
	metrics.RecordIntentDetection(string(detected))

	// 3. Free-form questions go to the assistant before intents; users
	// often ask mid-menu and the rigid tree cannot answer them.
	if looksLikeQuestion(trimmed) && o.assistantEnabled() {
		if aiReply, ok := o.askAssistant(ctx, userID, trimmed, detected, confidence, firstInteraction); ok {
			path = "question_ai"
			return aiReply
		}
	}

	// 4. Keyword intent above the configured confidence gate.
	if canned, ok := intentReplies[detected]; ok && confidence >= o.intentThreshold() {
		if err := o.store.Set(ctx, userID, canned.next); err != nil {
			return o.fail(ctx, err, &path, "state_error")
		}

		path = "intent"
		o.log.Info("intent handled",
			slog.String("user_id", userID),
			slog.String("intent", string(detected)),
			slog.Float64("confidence", confidence),
		)

		return canned.message
	}

	// 5. The current state's default handler.
	menuReply, handled, err := o.machine.Handle(ctx, userID, current, trimmed)
	if err != nil {
		return o.fail(ctx, err, &path, "menu_error")
	}
	if handled {
		path = "state_default"
		return menuReply
	}

	// 6. Assistant, unconditionally.
	if aiReply, ok := o.askAssistant(ctx, userID, trimmed, detected, confidence, firstInteraction); ok {
		path = "ai_fallback"
		return aiReply
	}

	// 7. Self-heal: a user stuck outside the root gets pulled back.
	if current != state.Default {
		if err := o.store.Set(ctx, userID, state.Default); err != nil {
			return o.fail(ctx, err, &path, "state_error")
		}

		path = "force_root"
		return o.machine.RootMessage()
	}

	// 8. Nothing matched.
	path = "not_understood"
	return menu.MsgNoEntiendo
}

// askAssistant reduces every assistant failure to a recoverable miss.
func (o *Orchestrator) askAssistant(ctx context.Context, userID, text string, detected intent.Intent, confidence float64, firstInteraction bool) (string, bool) {
	if o.assistant == nil {
		return "", false
	}

	query := assistant.Query{
		UserID:           userID,
		Text:             text,
		Confidence:       confidence,
		FirstInteraction: firstInteraction,
	}
	if detected != intent.IntentDesconocido {
		query.Intent = string(detected)
	}

	reply, err := o.assistant.Respond(ctx, query)
	if err != nil {
		if errors.Is(err, assistant.ErrNotConfigured) {
			metrics.RecordAssistantRequest("not_configured")
			o.log.Warn("assistant not configured", slog.String("user_id", userID))
		} else {
			metrics.RecordAssistantRequest("error")
			o.log.Warn("assistant call failed",
				slog.String("user_id", userID),
				slog.String("error", err.Error()),
			)
		}

		return "", false
	}

	metrics.RecordAssistantRequest("ok")
	return reply, reply != ""
}

func (o *Orchestrator) assistantEnabled() bool {
	return o.assistant != nil && o.assistant.Enabled()
}

func (o *Orchestrator) isFirstInteraction(ctx context.Context, userID string) bool {
	if o.sessions == nil {
		return false
	}

	first, err := o.sessions.IsFirstInteraction(ctx, userID)
	if err != nil {
		o.log.Warn("first interaction lookup failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)

		return false
	}

	return first
}

// fail routes the error through the central handler and answers with
// its user-facing text.
func (o *Orchestrator) fail(ctx context.Context, err error, path *string, kind string) string {
	*path = kind
	metrics.RecordError(kind, string(apperrors.SeverityHigh))

	if o.errHandler != nil {
		userMessage, _ := o.errHandler.Handle(ctx, err)
		return userMessage
	}

	o.log.Error("turn failed", slog.String("error", err.Error()))
	return menu.MsgError
}

// looksLikeQuestion applies the cheap heuristic: a question mark
// anywhere, or a leading Spanish interrogative.
func looksLikeQuestion(text string) bool {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return false
	}

	if strings.Contains(normalized, "?") || strings.Contains(normalized, "¿") {
		return true
	}

	firstWord := normalized
	if idx := strings.IndexAny(normalized, " \t"); idx > 0 {
		firstWord = normalized[:idx]
	}

	_, ok := interrogatives[firstWord]
	return ok
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}

func turnStatus(reply string) string {
	if reply == menu.MsgError {
		return "error"
	}

	return "ok"
}
