package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/breaders/whatsapp-bot/internal/errors"
	"github.com/breaders/whatsapp-bot/internal/menu"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(baseURL string) Config {
	return Config{
		AccountSID:  "AC123",
		AuthToken:   "token",
		AssistantID: "asst-1",
		BaseURL:     baseURL,
	}
}

func TestRespondFirstInteractionGreetingSkipsAPI(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), testLogger())

	tests := []struct {
		name string
		text string
	}{
		{name: "greeting word", text: "Hola, buenas tardes! Quería hacerles una consulta"},
		{name: "short message", text: "ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, err := client.Respond(context.Background(), Query{
				UserID:           "+5491155551234",
				Text:             tt.text,
				FirstInteraction: true,
			})

			require.NoError(t, err)
			assert.Equal(t, menu.MsgBienvenida, reply)
			assert.False(t, called)
		})
	}
}

func TestRespondNotConfigured(t *testing.T) {
	client := NewClient(Config{}, testLogger())

	_, err := client.Respond(context.Background(), Query{
		UserID: "+5491155551234",
		Text:   "quiero saber si hacen envíos a zona sur",
	})

	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestRespondSendsTwilioRequest(t *testing.T) {
	var gotPath, gotUser, gotPass string
	var gotPayload map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, gotPass, _ = r.BasicAuth()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"response":"Hacemos envíos a toda CABA."}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), testLogger())

	reply, err := client.Respond(context.Background(), Query{
		UserID:     "whatsapp:+5491155551234",
		Text:       "hacen envíos a zona sur?",
		Intent:     "atencion_cliente",
		Confidence: 0.62,
	})

	require.NoError(t, err)
	assert.Equal(t, "Hacemos envíos a toda CABA.", reply)
	assert.Equal(t, "/v1/Assistants/asst-1/Messages", gotPath)
	assert.Equal(t, "AC123", gotUser)
	assert.Equal(t, "token", gotPass)
	assert.Equal(t, "session_whatsapp5491155551234", gotPayload["session_id"])
	assert.Equal(t, "hacen envíos a zona sur?", gotPayload["body"])
	assert.Contains(t, gotPayload["identity"], "phone:whatsapp5491155551234")
	assert.Contains(t, gotPayload["identity"], `"intent":"atencion_cliente"`)
}

func TestRespondExtractsReplyShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "string response", body: `{"response":"hola"}`, want: "hola"},
		{name: "nested text", body: `{"response":{"text":"hola"}}`, want: "hola"},
		{name: "body field", body: `{"body":"hola"}`, want: "hola"},
		{name: "content field", body: `{"content":"hola"}`, want: "hola"},
		{name: "message field", body: `{"message":"hola"}`, want: "hola"},
		{name: "unknown shape falls back to raw", body: `{"other":"x"}`, want: `{"other":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(testConfig(server.URL), testLogger())

			reply, err := client.Respond(context.Background(), Query{
				UserID: "+5491155551234",
				Text:   "tienen milanesas veganas en el menú de hoy?",
			})

			require.NoError(t, err)
			assert.Equal(t, tt.want, reply)
		})
	}
}

func TestRespondUpstreamErrorIsRetryable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), testLogger())

	_, err := client.Respond(context.Background(), Query{
		UserID: "+5491155551234",
		Text:   "quiero saber el estado del pedido 12345",
	})

	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "E300", appErr.Code)
	assert.True(t, appErr.Retryable)
}

func TestRespondCircuitOpens(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), testLogger())

	query := Query{UserID: "+5491155551234", Text: "necesito hablar con una persona del local"}
	for i := 0; i < 10; i++ {
		_, err := client.Respond(context.Background(), query)
		require.Error(t, err)
	}

	assert.Equal(t, apperrors.BreakerOpen, client.breaker.State())

	_, err := client.Respond(context.Background(), query)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.ErrorIs(t, appErr.Unwrap(), apperrors.ErrCircuitOpen)
}
