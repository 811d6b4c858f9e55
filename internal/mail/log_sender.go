package mail

import (
	"context"
	"log/slog"
	"sync"
)

// LogSender records mail instead of delivering it. Used for local runs and
// tests; the last messages stay available through Sent.
type LogSender struct {
	mu   sync.Mutex
	sent []Message
}

func NewLogSender() *LogSender { return &LogSender{} }

func (l *LogSender) Send(ctx context.Context, msg Message) error {
	l.mu.Lock()
	l.sent = append(l.sent, msg)
	l.mu.Unlock()
	slog.InfoContext(ctx, "mail captured", "to", msg.To, "subject", msg.Subject)
	return nil
}

func (l *LogSender) Sent() []Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Message(nil), l.sent...)
}
