package notify

import (
	"context"
	"errors"
	"testing"

	"familyhub/internal/models"
)

type fakeEmailSender struct {
	calls []string
	err   error
}

func (f *fakeEmailSender) SendEmail(ctx context.Context, to, subject, text, html string) error {
	f.calls = append(f.calls, to)
	return f.err
}

type fakeSMSSender struct {
	calls []string
	err   error
}

func (f *fakeSMSSender) SendSMS(ctx context.Context, to, body string) error {
	f.calls = append(f.calls, to)
	return f.err
}

func TestNotifyChannelSelection(t *testing.T) {
	tests := []struct {
		name       string
		preference string
		wantEmail  bool
		wantSMS    bool
	}{
		{name: "email only", preference: models.NotifyEmail, wantEmail: true, wantSMS: false},
		{name: "sms only", preference: models.NotifySMS, wantEmail: false, wantSMS: true},
		{name: "both channels", preference: models.NotifyBoth, wantEmail: true, wantSMS: true},
		{name: "none", preference: models.NotifyNone, wantEmail: false, wantSMS: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email := &fakeEmailSender{}
			sms := &fakeSMSSender{}
			d := NewDispatcher(email, sms)

			recipient := Recipient{
				Name:       "Pat",
				Email:      "pat@example.com",
				Phone:      "+15551234567",
				Preference: tt.preference,
			}
			result := d.Notify(context.Background(), recipient, "Hello", "body", "")

			if result.Email.Attempted != tt.wantEmail {
				t.Errorf("email attempted = %v, want %v", result.Email.Attempted, tt.wantEmail)
			}
			if result.SMS.Attempted != tt.wantSMS {
				t.Errorf("sms attempted = %v, want %v", result.SMS.Attempted, tt.wantSMS)
			}
			if tt.wantEmail && len(email.calls) != 1 {
				t.Errorf("email sender called %d times, want 1", len(email.calls))
			}
			if tt.wantSMS && len(sms.calls) != 1 {
				t.Errorf("sms sender called %d times, want 1", len(sms.calls))
			}
		})
	}
}

func TestNotifyEmailFailureDoesNotBlockSMS(t *testing.T) {
	email := &fakeEmailSender{err: errors.New("ses unavailable")}
	sms := &fakeSMSSender{}
	d := NewDispatcher(email, sms)

	recipient := Recipient{
		Email:      "pat@example.com",
		Phone:      "+15551234567",
		Preference: models.NotifyBoth,
	}
	result := d.Notify(context.Background(), recipient, "Hello", "body", "")

	if result.Email.Sent {
		t.Error("email should not be marked sent")
	}
	if result.Email.Error == "" {
		t.Error("email error should be recorded")
	}
	if !result.SMS.Sent {
		t.Error("sms should still be sent when email fails")
	}
	if len(sms.calls) != 1 {
		t.Errorf("sms sender called %d times, want 1", len(sms.calls))
	}
}

func TestNotifySkipsMissingContactDetails(t *testing.T) {
	email := &fakeEmailSender{}
	sms := &fakeSMSSender{}
	d := NewDispatcher(email, sms)

	// Preference says both, but no phone on record
	recipient := Recipient{
		Email:      "pat@example.com",
		Preference: models.NotifyBoth,
	}
	result := d.Notify(context.Background(), recipient, "Hello", "body", "")

	if !result.Email.Attempted {
		t.Error("email should be attempted")
	}
	if result.SMS.Attempted {
		t.Error("sms should not be attempted without a phone number")
	}
}
