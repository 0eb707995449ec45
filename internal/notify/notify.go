package notify

import (
	"context"
	"log/slog"

	"familyhub/internal/models"
)

// EmailSender delivers a single email. Implementations are best-effort;
// callers never treat a send failure as fatal.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, text, html string) error
}

// SMSSender delivers a single text message, best-effort
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// Recipient is the delivery target for a notification: contact details plus
// the stored channel preference (email, sms, both, none)
type Recipient struct {
	Name       string
	Email      string
	Phone      string
	Preference string
}

// ChannelStatus records one channel's outcome
type ChannelStatus struct {
	Attempted bool
	Sent      bool
	Error     string
}

// Delivery is the per-channel result of a dispatch
type Delivery struct {
	Email ChannelStatus
	SMS   ChannelStatus
}

// Dispatcher fans a notification out to the recipient's preferred channels.
// Channels are attempted independently: one channel failing never blocks
// the other, and no failure propagates to the caller.
type Dispatcher struct {
	email EmailSender
	sms   SMSSender
}

// NewDispatcher creates a notification dispatcher
func NewDispatcher(email EmailSender, sms SMSSender) *Dispatcher {
	return &Dispatcher{email: email, sms: sms}
}

// Notify delivers a message per the recipient's preference and returns the
// per-channel outcome. It never returns an error; delivery problems are
// recorded in the result and logged.
func (d *Dispatcher) Notify(ctx context.Context, r Recipient, subject, text, html string) Delivery {
	var result Delivery

	wantEmail := r.Preference == models.NotifyEmail || r.Preference == models.NotifyBoth
	wantSMS := r.Preference == models.NotifySMS || r.Preference == models.NotifyBoth

	if wantEmail && r.Email != "" {
		result.Email.Attempted = true
		if err := d.email.SendEmail(ctx, r.Email, subject, text, html); err != nil {
			result.Email.Error = err.Error()
			slog.Warn("email delivery failed", "to", r.Email, "subject", subject, "error", err)
		} else {
			result.Email.Sent = true
		}
	}

	if wantSMS && r.Phone != "" {
		result.SMS.Attempted = true
		if err := d.sms.SendSMS(ctx, r.Phone, text); err != nil {
			result.SMS.Error = err.Error()
			slog.Warn("sms delivery failed", "to", r.Phone, "error", err)
		} else {
			result.SMS.Sent = true
		}
	}

	return result
}
