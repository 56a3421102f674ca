package whatsapp

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breaders/whatsapp-bot/internal/menu"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeTurns struct {
	reply    string
	panics   bool
	lastUser string
	lastText string
}

func (f *fakeTurns) ProcessTurn(_ context.Context, userID, text string) string {
	f.lastUser = userID
	f.lastText = text
	if f.panics {
		panic("turn exploded")
	}

	return f.reply
}

func postWebhook(t *testing.T, handler http.Handler, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/webhook/whatsapp", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return rec
}

func TestWebhookRepliesTwiML(t *testing.T) {
	turns := &fakeTurns{reply: menu.MsgBienvenida}
	handler := NewWebhookHandler(turns, nil, testLogger())

	rec := postWebhook(t, handler, url.Values{
		"From":       {"whatsapp:+5491155551234"},
		"To":         {"whatsapp:+14155238886"},
		"Body":       {"Hola"},
		"MessageSid": {"SM123"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/xml")
	assert.Contains(t, rec.Body.String(), "<Response>")
	assert.Contains(t, rec.Body.String(), "Breaders")
	assert.Equal(t, "+5491155551234", turns.lastUser)
	assert.Equal(t, "Hola", turns.lastText)
}

func TestWebhookEmptyBody(t *testing.T) {
	turns := &fakeTurns{reply: "should not run"}
	handler := NewWebhookHandler(turns, nil, testLogger())

	rec := postWebhook(t, handler, url.Values{
		"From": {"whatsapp:+5491155551234"},
		"Body": {"   "},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), MsgCuerpoVacio)
	assert.Empty(t, turns.lastText)
}

func TestWebhookRejectsNonPost(t *testing.T) {
	handler := NewWebhookHandler(&fakeTurns{}, nil, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/webhook/whatsapp", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestWebhookRecoversFromPanic(t *testing.T) {
	handler := NewWebhookHandler(&fakeTurns{panics: true}, nil, testLogger())

	rec := postWebhook(t, handler, url.Values{
		"From": {"whatsapp:+5491155551234"},
		"Body": {"hola"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ocurrió un error")
}

func TestWriteTwiMLEscapes(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteTwiML(rec, `precios & "promos" <hoy>`))

	body := rec.Body.String()
	assert.Contains(t, body, "&amp;")
	assert.Contains(t, body, "&lt;hoy&gt;")
	assert.NotContains(t, body, "<hoy>")
}

func TestSenderSend(t *testing.T) {
	var gotPath, gotUser string
	var gotForm url.Values

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, _, _ = r.BasicAuth()
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"SM999"}`))
	}))
	defer server.Close()

	sender := NewSender(SenderConfig{
		AccountSID:     "AC123",
		AuthToken:      "token",
		WhatsAppNumber: "+14155238886",
		BaseURL:        server.URL,
	}, testLogger())

	sid, err := sender.SendOrderConfirmation(context.Background(), "+5491155551234", "1042", 8400)

	require.NoError(t, err)
	assert.Equal(t, "SM999", sid)
	assert.Equal(t, "/2010-04-01/Accounts/AC123/Messages.json", gotPath)
	assert.Equal(t, "AC123", gotUser)
	assert.Equal(t, "whatsapp:+14155238886", gotForm.Get("From"))
	assert.Equal(t, "whatsapp:+5491155551234", gotForm.Get("To"))
	assert.Contains(t, gotForm.Get("Body"), "#1042")
}

func TestSenderUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	sender := NewSender(SenderConfig{
		AccountSID:     "AC123",
		AuthToken:      "bad",
		WhatsAppNumber: "+14155238886",
		BaseURL:        server.URL,
	}, testLogger())

	_, err := sender.Send(context.Background(), "+5491155551234", "hola")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gateway")
}

func TestStripWhatsAppPrefix(t *testing.T) {
	assert.Equal(t, "+549", StripWhatsAppPrefix("whatsapp:+549"))
	assert.Equal(t, "+549", StripWhatsAppPrefix("+549"))
}
