// Package metrics exposes Prometheus collectors for conversation flow,
// state transitions, and upstream calls.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/breaders/whatsapp-bot/internal/state"
)

var (
	messagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whatsapp_messages_total",
			Help: "Total number of inbound WhatsApp messages labeled by resolution path and status",
		},
		[]string{"path", "status"},
	)
	turnDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "conversation_turn_duration_seconds",
			Help:    "Duration of a full conversation turn in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path"},
	)
	intentDetectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intent_detections_total",
			Help: "Total number of intent detections labeled by intent",
		},
		[]string{"intent"},
	)
	stateTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "state_transitions_total",
			Help: "Total number of conversation state transitions",
		},
		[]string{"from", "to"},
	)
	assistantRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_requests_total",
			Help: "Total number of AI assistant requests labeled by status",
		},
		[]string{"status"},
	)
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests labeled by path, method, and status",
		},
		[]string{"path", "method", "status"},
	)
	httpRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path"},
	)
	errorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Total number of errors split by type and severity",
		},
		[]string{"type", "severity"},
	)
)

func init() {
	state.RegisterTransitionRecorder(RecordStateTransition)
}

// RecordMessage increments the turn counter and records its duration.
func RecordMessage(path, status string, duration time.Duration) {
	if path == "" {
		path = "unknown"
	}
	if status == "" {
		status = "unknown"
	}

	messagesTotal.WithLabelValues(path, status).Inc()
	turnDurationSeconds.WithLabelValues(path).Observe(duration.Seconds())
}

// RecordIntentDetection tracks what the keyword detector resolved.
func RecordIntentDetection(intent string) {
	if intent == "" {
		intent = "unknown"
	}

	intentDetectionsTotal.WithLabelValues(intent).Inc()
}

// RecordStateTransition tracks menu state machine transitions.
func RecordStateTransition(from, to string) {
	if from == "" {
		from = "none"
	}
	if to == "" {
		to = "none"
	}

	stateTransitionsTotal.WithLabelValues(from, to).Inc()
}

// RecordAssistantRequest tracks AI assistant call outcomes.
func RecordAssistantRequest(status string) {
	if status == "" {
		status = "unknown"
	}

	assistantRequestsTotal.WithLabelValues(status).Inc()
}

// RecordHTTPRequest tracks one handled HTTP request.
func RecordHTTPRequest(path, method, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(path, method, status).Inc()
	httpRequestDurationSeconds.WithLabelValues(path).Observe(duration.Seconds())
}

// RecordError increments error counters with metadata.
func RecordError(errType, severity string) {
	if errType == "" {
		errType = "unknown"
	}
	if severity == "" {
		severity = "unknown"
	}

	errorsTotal.WithLabelValues(errType, severity).Inc()
}
