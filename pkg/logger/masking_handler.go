package logger

import (
	"context"
	"log/slog"
	"strings"
)

// sensitiveKeys are attribute names whose values never reach the log
// output in clear text.
var sensitiveKeys = map[string]struct{}{
	"auth_token":     {},
	"account_sid":    {},
	"api_key":        {},
	"password":       {},
	"token":          {},
	"secret":         {},
	"authorization":  {},
	"sentry_dsn":     {},
	"database_url":   {},
	"redis_password": {},
}

const maskedValue = "***"

// MaskingHandler wraps another slog.Handler and replaces the values of
// sensitive attributes before they are written.
type MaskingHandler struct {
	inner slog.Handler
}

func NewMaskingHandler(inner slog.Handler) *MaskingHandler {
	return &MaskingHandler{inner: inner}
}

func (h *MaskingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *MaskingHandler) Handle(ctx context.Context, record slog.Record) error {
	masked := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	record.Attrs(func(attr slog.Attr) bool {
		masked.AddAttrs(maskAttr(attr))
		return true
	})

	return h.inner.Handle(ctx, masked)
}

func (h *MaskingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	maskedAttrs := make([]slog.Attr, 0, len(attrs))
	for _, attr := range attrs {
		maskedAttrs = append(maskedAttrs, maskAttr(attr))
	}

	return &MaskingHandler{inner: h.inner.WithAttrs(maskedAttrs)}
}

func (h *MaskingHandler) WithGroup(name string) slog.Handler {
	return &MaskingHandler{inner: h.inner.WithGroup(name)}
}

func maskAttr(attr slog.Attr) slog.Attr {
	if attr.Value.Kind() == slog.KindGroup {
		groupAttrs := attr.Value.Group()
		maskedGroup := make([]any, 0, len(groupAttrs))
		for _, groupAttr := range groupAttrs {
			maskedGroup = append(maskedGroup, maskAttr(groupAttr))
		}

		return slog.Group(attr.Key, maskedGroup...)
	}

	if isSensitiveKey(attr.Key) {
		return slog.String(attr.Key, maskedValue)
	}

	return attr
}

func isSensitiveKey(key string) bool {
	_, ok := sensitiveKeys[strings.ToLower(key)]
	return ok
}
