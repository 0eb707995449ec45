package service

import (
	"context"
	"errors"
	"testing"

	"familyhub/internal/models"
)

func TestSendMessageInApp(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p1 := env.addParent(t, "Pat Smith", "pat@example.com", "Smith")
	child := env.addChild(t, p1.ID, "Sam")

	sender := models.MemberRef{Kind: models.KindParent, ID: p1.ID}
	recipient := models.MemberRef{Kind: models.KindChild, ID: child.ID}

	msg, err := env.messages.SendMessage(ctx, sender, recipient, "Dinner", "Pasta tonight", models.DeliveryInApp)
	if err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	if len(env.email.sent) != 0 || len(env.sms.sent) != 0 {
		t.Error("in-app delivery should not touch outbound channels")
	}

	inbox, err := env.messages.ListInbox(recipient)
	if err != nil {
		t.Fatalf("ListInbox() error = %v", err)
	}
	if len(inbox) != 1 || inbox[0].ID != msg.ID {
		t.Errorf("inbox = %v, want the sent message", inbox)
	}
}

func TestSendMessageOutsideFamilyForbidden(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p1 := env.addParent(t, "Pat Smith", "pat@example.com", "Smith")
	p2 := env.addParent(t, "Jo Jones", "jo@example.com", "Jones")
	otherChild := env.addChild(t, p2.ID, "Alex")

	sender := models.MemberRef{Kind: models.KindParent, ID: p1.ID}
	recipient := models.MemberRef{Kind: models.KindChild, ID: otherChild.ID}

	_, err := env.messages.SendMessage(ctx, sender, recipient, "", "hi", models.DeliveryInApp)
	if KindOf(err) != KindForbidden {
		t.Fatalf("cross-family send error kind = %v, want KindForbidden", KindOf(err))
	}

	// After a merge the same send succeeds
	env.mergeParents(t, p1, p2)
	if _, err := env.messages.SendMessage(ctx, sender, recipient, "", "hi", models.DeliveryInApp); err != nil {
		t.Errorf("post-merge send error = %v", err)
	}
}

func TestSendMessagePartialChannelFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p1 := env.addParent(t, "Pat Smith", "pat@example.com", "Smith")
	p2 := env.addParent(t, "Jo Jones", "jo@example.com", "Jones")
	env.mergeParents(t, p1, p2)

	// Give the recipient a phone so SMS can be attempted
	p2.Phone = "+15551234567"
	if err := env.parents.UpdateProfile(p2); err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}

	env.email.err = errors.New("ses down")

	sender := models.MemberRef{Kind: models.KindParent, ID: p1.ID}
	recipient := models.MemberRef{Kind: models.KindParent, ID: p2.ID}

	msg, err := env.messages.SendMessage(ctx, sender, recipient, "Hello", "body", models.DeliveryAll)
	if err != nil {
		t.Fatalf("SendMessage() error = %v, channel failure must not fail the send", err)
	}
	if msg.EmailSent {
		t.Error("email should be marked failed")
	}
	if msg.EmailError == "" {
		t.Error("email error should be recorded")
	}
	if !msg.SMSSent {
		t.Error("sms should succeed independently")
	}

	// Persisted status matches
	stored, _ := env.messages.messages.GetMessageByID(msg.ID)
	if stored.EmailSent || stored.EmailError == "" || !stored.SMSSent {
		t.Errorf("persisted delivery status = %+v, want email failed and sms sent", stored)
	}
}

func TestSendMessageRecordsContactLookupFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// A parent ref with no backing record passes membership resolution
	// (an unknown actor degrades to itself) but has no contact details,
	// the same shape as a recipient deleted mid-send. The stored copy
	// must still be created, with the failure on the outbound channels.
	ghost := models.MemberRef{Kind: models.KindParent, ID: "gone-parent"}

	msg, err := env.messages.SendMessage(ctx, ghost, ghost, "Hello", "body", models.DeliveryAll)
	if err != nil {
		t.Fatalf("SendMessage() error = %v, contact lookup failure must not fail the send", err)
	}
	if msg.EmailSent || msg.SMSSent {
		t.Error("no channel can have been attempted without contact details")
	}
	if msg.EmailError == "" || msg.SMSError == "" {
		t.Errorf("channel errors = %q/%q, want the lookup failure recorded on both", msg.EmailError, msg.SMSError)
	}
	if len(env.email.sent) != 0 || len(env.sms.sent) != 0 {
		t.Error("no outbound delivery should have been made")
	}

	// The in-app copy exists with the persisted delivery status
	stored, err := env.messages.messages.GetMessageByID(msg.ID)
	if err != nil {
		t.Fatalf("GetMessageByID() error = %v", err)
	}
	if stored == nil {
		t.Fatal("stored message copy should exist")
	}
	if stored.EmailError == "" || stored.SMSError == "" {
		t.Errorf("persisted channel errors = %q/%q, want the lookup failure", stored.EmailError, stored.SMSError)
	}
}

func TestTeenSenderScopedToOwnFamily(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p1 := env.addParent(t, "Pat Smith", "pat@example.com", "Smith")
	p2 := env.addParent(t, "Jo Jones", "jo@example.com", "Jones")

	teen, err := env.teens.CreateTeen(&models.Teen{
		ParentID:    p1.ID,
		Name:        "Riley",
		Email:       "riley@example.com",
		AccountRole: models.AccountRoleTeen,
		Age:         15,
	})
	if err != nil {
		t.Fatalf("CreateTeen() error = %v", err)
	}

	sender := models.MemberRef{Kind: models.KindTeen, ID: teen.ID}

	// Teen can message its own parent
	if _, err := env.messages.SendMessage(ctx, sender, models.MemberRef{Kind: models.KindParent, ID: p1.ID}, "", "hi", models.DeliveryInApp); err != nil {
		t.Errorf("teen-to-parent send error = %v", err)
	}
	// But not an unmerged household
	if _, err := env.messages.SendMessage(ctx, sender, models.MemberRef{Kind: models.KindParent, ID: p2.ID}, "", "hi", models.DeliveryInApp); KindOf(err) != KindForbidden {
		t.Errorf("teen cross-family send error kind = %v, want KindForbidden", KindOf(err))
	}
}

func TestMarkReadAndUnreadCount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p1 := env.addParent(t, "Pat Smith", "pat@example.com", "Smith")
	p2 := env.addParent(t, "Jo Jones", "jo@example.com", "Jones")
	env.mergeParents(t, p1, p2)

	sender := models.MemberRef{Kind: models.KindParent, ID: p1.ID}
	recipient := models.MemberRef{Kind: models.KindParent, ID: p2.ID}

	first, err := env.messages.SendMessage(ctx, sender, recipient, "", "one", models.DeliveryInApp)
	if err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	if _, err := env.messages.SendMessage(ctx, sender, recipient, "", "two", models.DeliveryInApp); err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}

	count, err := env.messages.UnreadCount(recipient)
	if err != nil {
		t.Fatalf("UnreadCount() error = %v", err)
	}
	if count != 2 {
		t.Errorf("unread = %d, want 2", count)
	}

	// Only the recipient may mark read
	if _, err := env.messages.MarkRead(first.ID, sender); KindOf(err) != KindForbidden {
		t.Errorf("sender MarkRead() error kind = %v, want KindForbidden", KindOf(err))
	}

	read, err := env.messages.MarkRead(first.ID, recipient)
	if err != nil {
		t.Fatalf("MarkRead() error = %v", err)
	}
	if !read.Read {
		t.Error("message should be flagged read")
	}

	count, err = env.messages.UnreadCount(recipient)
	if err != nil {
		t.Fatalf("UnreadCount() error = %v", err)
	}
	if count != 1 {
		t.Errorf("unread after read = %d, want 1", count)
	}
}

func TestDeleteMessage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p1 := env.addParent(t, "Pat Smith", "pat@example.com", "Smith")
	p2 := env.addParent(t, "Jo Jones", "jo@example.com", "Jones")
	env.mergeParents(t, p1, p2)

	sender := models.MemberRef{Kind: models.KindParent, ID: p1.ID}
	recipient := models.MemberRef{Kind: models.KindParent, ID: p2.ID}

	msg, err := env.messages.SendMessage(ctx, sender, recipient, "", "hi", models.DeliveryInApp)
	if err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}

	// A third party cannot delete
	p3 := env.addParent(t, "Lee Brown", "lee@example.com", "Brown")
	if err := env.messages.DeleteMessage(msg.ID, models.MemberRef{Kind: models.KindParent, ID: p3.ID}); KindOf(err) != KindForbidden {
		t.Errorf("third-party delete error kind = %v, want KindForbidden", KindOf(err))
	}

	if err := env.messages.DeleteMessage(msg.ID, recipient); err != nil {
		t.Fatalf("DeleteMessage() error = %v", err)
	}

	inbox, _ := env.messages.ListInbox(recipient)
	if len(inbox) != 0 {
		t.Error("soft-deleted message should leave the inbox")
	}
}
