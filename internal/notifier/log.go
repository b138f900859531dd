package notifier

import (
	"context"

	"library-lending-go/pkg/logger"
)

// LogSender writes notifications to the log instead of delivering them.
// Used in development and whenever SMTP is disabled.
type LogSender struct {
	log logger.Logger
}

func NewLog(log logger.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, to, subject, body string) error {
	s.log.Info("notifier: delivery suppressed, logging instead",
		"to", to, "subject", subject, "body_length", len(body))
	return nil
}
