package notify

import (
	"context"
	"log/slog"
)

// LogSender writes messages to the structured log instead of delivering them.
// Used in demo mode and when no SMTP host is configured.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.logger.InfoContext(ctx, "notification (not delivered)",
		"to", msg.To,
		"subject", msg.Subject,
		"body_bytes", len(msg.Body),
		"attachments", len(msg.Attachments),
	)
	return nil
}
