package notify

import (
	"context"
	"log/slog"
)

// LogSMSSender records outgoing texts to the log instead of a carrier.
// Stands in until an SMS provider account is provisioned.
type LogSMSSender struct{}

// NewLogSMSSender creates the logging SMS sender
func NewLogSMSSender() *LogSMSSender {
	return &LogSMSSender{}
}

// SendSMS logs the message and reports success
func (s *LogSMSSender) SendSMS(ctx context.Context, to, body string) error {
	slog.Info("sms sent", "to", to, "length", len(body))
	return nil
}
