package logger

import (
	"context"
	"fmt"
	"log/slog"
)

// Notifier forwards a message to the operator chat.
type Notifier interface {
	SendMessage(msg string)
}

type telegramHandler struct {
	next     slog.Handler
	notifier Notifier
	level    slog.Level
}

// SetupTelegramHandler tees records at or above level to the notifier while
// keeping the original handler chain intact.
func SetupTelegramHandler(log *slog.Logger, notifier Notifier, level slog.Level) *slog.Logger {
	return slog.New(&telegramHandler{
		next:     log.Handler(),
		notifier: notifier,
		level:    level,
	})
}

func (h *telegramHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *telegramHandler) Handle(ctx context.Context, record slog.Record) error {
	if record.Level >= h.level && h.notifier != nil {
		text := fmt.Sprintf("[%s] %s", record.Level, record.Message)
		record.Attrs(func(a slog.Attr) bool {
			text += fmt.Sprintf("\n%s: %s", a.Key, a.Value)
			return true
		})
		h.notifier.SendMessage(text)
	}
	return h.next.Handle(ctx, record)
}

func (h *telegramHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &telegramHandler{next: h.next.WithAttrs(attrs), notifier: h.notifier, level: h.level}
}

func (h *telegramHandler) WithGroup(name string) slog.Handler {
	return &telegramHandler{next: h.next.WithGroup(name), notifier: h.notifier, level: h.level}
}
