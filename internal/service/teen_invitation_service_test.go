package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"familyhub/internal/models"
)

func wrongCode(code string) string {
	if code == "000000" {
		return "000001"
	}
	return "000000"
}

func TestSendTeenInvitation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p1 := env.addParent(t, "Pat Smith", "pat@example.com", "Smith")

	inv, err := env.teenInvitations.SendTeenInvitation(ctx, p1.ID, "Riley", "riley@example.com", "+15551234567", models.AccountRoleTeen)
	if err != nil {
		t.Fatalf("SendTeenInvitation() error = %v", err)
	}
	if inv.Status != models.TeenInvitationStatusPending {
		t.Errorf("status = %q, want pending", inv.Status)
	}
	if len(inv.Code) != 6 || strings.Trim(inv.Code, "0123456789") != "" {
		t.Errorf("code = %q, want 6 decimal digits", inv.Code)
	}
	if inv.MaxAttempts != 5 {
		t.Errorf("maxAttempts = %d, want 5", inv.MaxAttempts)
	}
	until := time.Until(inv.ExpiresAt)
	if until < 29*time.Minute || until > 30*time.Minute {
		t.Errorf("expiry %v from now, want ~30 minutes", until)
	}

	// Email and phone both provided: both channels attempted
	if len(env.email.sent) != 1 {
		t.Errorf("email count = %d, want 1", len(env.email.sent))
	}
	if len(env.sms.sent) != 1 {
		t.Errorf("sms count = %d, want 1", len(env.sms.sent))
	}
}

func TestSendTeenInvitationValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p1 := env.addParent(t, "Pat Smith", "pat@example.com", "Smith")

	if _, err := env.teenInvitations.SendTeenInvitation(ctx, p1.ID, "Riley", "riley@example.com", "", "adult"); KindOf(err) != KindValidation {
		t.Errorf("bad role error kind = %v, want KindValidation", KindOf(err))
	}
	if _, err := env.teenInvitations.SendTeenInvitation(ctx, p1.ID, "Riley", "", "", models.AccountRoleTeen); KindOf(err) != KindValidation {
		t.Errorf("missing contact error kind = %v, want KindValidation", KindOf(err))
	}
}

func TestVerifyCodeHappyPathAfterWrongGuesses(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p1 := env.addParent(t, "Pat Smith", "pat@example.com", "Smith")

	inv, err := env.teenInvitations.SendTeenInvitation(ctx, p1.ID, "Riley", "riley@example.com", "", models.AccountRoleTeen)
	if err != nil {
		t.Fatalf("SendTeenInvitation() error = %v", err)
	}

	// Three wrong guesses, each consuming a persisted attempt
	for i := 0; i < 3; i++ {
		if _, err := env.teenInvitations.VerifyCode("riley@example.com", wrongCode(inv.Code)); KindOf(err) != KindValidation {
			t.Fatalf("wrong guess %d error kind = %v, want KindValidation", i+1, KindOf(err))
		}
	}

	verified, err := env.teenInvitations.VerifyCode("riley@example.com", inv.Code)
	if err != nil {
		t.Fatalf("correct code error = %v", err)
	}
	if verified.Status != models.TeenInvitationStatusVerified {
		t.Errorf("status = %q, want verified", verified.Status)
	}
	if verified.AttemptCount != 4 {
		t.Errorf("attemptCount = %d, want 4", verified.AttemptCount)
	}
	if verified.VerifiedAt == nil {
		t.Error("verifiedAt should be stamped")
	}
}

func TestVerifyCodeRateLimitedOnSixthAttempt(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p1 := env.addParent(t, "Pat Smith", "pat@example.com", "Smith")

	inv, err := env.teenInvitations.SendTeenInvitation(ctx, p1.ID, "Riley", "riley@example.com", "", models.AccountRoleTeen)
	if err != nil {
		t.Fatalf("SendTeenInvitation() error = %v", err)
	}

	for i := 0; i < 5; i++ {
		if _, err := env.teenInvitations.VerifyCode("riley@example.com", wrongCode(inv.Code)); KindOf(err) != KindValidation {
			t.Fatalf("wrong guess %d error kind = %v, want KindValidation", i+1, KindOf(err))
		}
	}

	// Sixth attempt trips the cap even with the right code
	_, err = env.teenInvitations.VerifyCode("riley@example.com", inv.Code)
	if KindOf(err) != KindRateLimited {
		t.Fatalf("sixth attempt error kind = %v, want KindRateLimited", KindOf(err))
	}

	// And the invitation is simultaneously expired
	stored, _ := env.teenInvitations.invitations.GetTeenInvitationByID(inv.ID)
	if stored.Status != models.TeenInvitationStatusExpired {
		t.Errorf("status = %q, want expired", stored.Status)
	}
}

func TestVerifyCodeExpired(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p1 := env.addParent(t, "Pat Smith", "pat@example.com", "Smith")

	inv, err := env.teenInvitations.SendTeenInvitation(ctx, p1.ID, "Riley", "riley@example.com", "", models.AccountRoleTeen)
	if err != nil {
		t.Fatalf("SendTeenInvitation() error = %v", err)
	}

	if _, err := env.db.Exec(`UPDATE teen_invitations SET expires_at = ? WHERE id = ?`,
		time.Now().Add(-time.Minute), inv.ID); err != nil {
		t.Fatalf("failed to backdate invitation: %v", err)
	}

	_, err = env.teenInvitations.VerifyCode("riley@example.com", inv.Code)
	if KindOf(err) != KindExpired {
		t.Fatalf("expired code error kind = %v, want KindExpired", KindOf(err))
	}

	stored, _ := env.teenInvitations.invitations.GetTeenInvitationByID(inv.ID)
	if stored.Status != models.TeenInvitationStatusExpired {
		t.Errorf("status = %q, want expired persisted", stored.Status)
	}
}

func TestRegisterTeen(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p1 := env.addParent(t, "Pat Smith", "pat@example.com", "Smith")

	inv, err := env.teenInvitations.SendTeenInvitation(ctx, p1.ID, "Riley", "riley@example.com", "", models.AccountRoleTeen)
	if err != nil {
		t.Fatalf("SendTeenInvitation() error = %v", err)
	}

	// Registration requires a verified code
	if _, err := env.teenInvitations.RegisterTeen(ctx, "riley@example.com", inv.Code, "Riley Smith", "", "password123", 15); KindOf(err) != KindInvalidState {
		t.Fatalf("register-before-verify error kind = %v, want KindInvalidState", KindOf(err))
	}

	if _, err := env.teenInvitations.VerifyCode("riley@example.com", inv.Code); err != nil {
		t.Fatalf("VerifyCode() error = %v", err)
	}

	// Age outside the invitation's bracket is a hard error
	if _, err := env.teenInvitations.RegisterTeen(ctx, "riley@example.com", inv.Code, "Riley Smith", "", "password123", 10); KindOf(err) != KindValidation {
		t.Fatalf("age mismatch error kind = %v, want KindValidation", KindOf(err))
	}

	teen, err := env.teenInvitations.RegisterTeen(ctx, "riley@example.com", inv.Code, "Riley Smith", "", "password123", 15)
	if err != nil {
		t.Fatalf("RegisterTeen() error = %v", err)
	}
	if teen.ParentID != p1.ID {
		t.Errorf("teen parent = %s, want %s", teen.ParentID, p1.ID)
	}
	if teen.AccountRole != models.AccountRoleTeen {
		t.Errorf("account role = %q, want teen", teen.AccountRole)
	}

	// The invitation is consumed
	stored, _ := env.teenInvitations.invitations.GetTeenInvitationByID(inv.ID)
	if stored.Status != models.TeenInvitationStatusUsed {
		t.Errorf("status = %q, want used", stored.Status)
	}

	// A second registration cannot reuse the code
	if _, err := env.teenInvitations.RegisterTeen(ctx, "riley@example.com", inv.Code, "Riley Smith", "", "password123", 15); err == nil {
		t.Error("reusing a used invitation should fail")
	}
}

func TestVerifyCodeReportsConsumedInvitation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p1 := env.addParent(t, "Pat Smith", "pat@example.com", "Smith")

	inv, err := env.teenInvitations.SendTeenInvitation(ctx, p1.ID, "Riley", "riley@example.com", "", models.AccountRoleTeen)
	if err != nil {
		t.Fatalf("SendTeenInvitation() error = %v", err)
	}
	if _, err := env.teenInvitations.VerifyCode("riley@example.com", inv.Code); err != nil {
		t.Fatalf("VerifyCode() error = %v", err)
	}
	if _, err := env.teenInvitations.RegisterTeen(ctx, "riley@example.com", inv.Code, "Riley Smith", "", "password123", 15); err != nil {
		t.Fatalf("RegisterTeen() error = %v", err)
	}

	// A consumed code reports the conflict, not a generic not-found
	if _, err := env.teenInvitations.VerifyCode("riley@example.com", inv.Code); KindOf(err) != KindConflict {
		t.Errorf("verify-after-use error kind = %v, want KindConflict", KindOf(err))
	}
	if _, err := env.teenInvitations.RegisterTeen(ctx, "riley@example.com", inv.Code, "Riley Smith", "", "password123", 15); KindOf(err) != KindConflict {
		t.Errorf("register-after-use error kind = %v, want KindConflict", KindOf(err))
	}

	// A contact that never had an invitation still reads as not-found
	if _, err := env.teenInvitations.VerifyCode("nobody@example.com", inv.Code); KindOf(err) != KindNotFound {
		t.Errorf("unknown contact error kind = %v, want KindNotFound", KindOf(err))
	}
}

func TestResendCodeResetsAttemptsAndExpiry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p1 := env.addParent(t, "Pat Smith", "pat@example.com", "Smith")
	p2 := env.addParent(t, "Jo Jones", "jo@example.com", "Jones")

	inv, err := env.teenInvitations.SendTeenInvitation(ctx, p1.ID, "Riley", "riley@example.com", "", models.AccountRoleTeen)
	if err != nil {
		t.Fatalf("SendTeenInvitation() error = %v", err)
	}

	for i := 0; i < 2; i++ {
		env.teenInvitations.VerifyCode("riley@example.com", wrongCode(inv.Code))
	}

	// Only the issuing parent may resend
	if _, err := env.teenInvitations.ResendCode(ctx, inv.ID, p2.ID); KindOf(err) != KindForbidden {
		t.Errorf("other-parent resend error kind = %v, want KindForbidden", KindOf(err))
	}

	fresh, err := env.teenInvitations.ResendCode(ctx, inv.ID, p1.ID)
	if err != nil {
		t.Fatalf("ResendCode() error = %v", err)
	}
	if fresh.AttemptCount != 0 {
		t.Errorf("attemptCount = %d, want reset to 0", fresh.AttemptCount)
	}
	if fresh.Status != models.TeenInvitationStatusPending {
		t.Errorf("status = %q, want pending", fresh.Status)
	}
	if fresh.Code == inv.Code {
		t.Error("resend should regenerate the code")
	}
}
