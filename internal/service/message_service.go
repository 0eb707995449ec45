package service

import (
	"context"

	"familyhub/internal/models"
	"familyhub/internal/notify"
	"familyhub/internal/repository"
)

// MessageService sends messages between family members, pushing them out
// over email/SMS per the chosen delivery method with per-channel tracking
type MessageService struct {
	family     *FamilyService
	parents    *repository.ParentRepository
	teens      *repository.TeenRepository
	children   *repository.ChildRepository
	messages   *repository.MessageRepository
	dispatcher *notify.Dispatcher
}

// NewMessageService creates a new message service
func NewMessageService(family *FamilyService, parents *repository.ParentRepository, teens *repository.TeenRepository, children *repository.ChildRepository, messages *repository.MessageRepository, dispatcher *notify.Dispatcher) *MessageService {
	return &MessageService{
		family:     family,
		parents:    parents,
		teens:      teens,
		children:   children,
		messages:   messages,
		dispatcher: dispatcher,
	}
}

// actorParentID maps a sender to the parent whose family scope authorizes
// it. Children have no login and cannot send.
func (s *MessageService) actorParentID(actor models.MemberRef) (string, error) {
	switch actor.Kind {
	case models.KindParent:
		return actor.ID, nil
	case models.KindTeen:
		teen, err := s.teens.GetTeenByID(actor.ID)
		if err != nil {
			return "", err
		}
		if teen == nil {
			return "", NotFound("sender not found")
		}
		return teen.ParentID, nil
	default:
		return "", Forbidden("this account type cannot send messages")
	}
}

// contactFor resolves a member's delivery details from its record
func (s *MessageService) contactFor(ref models.MemberRef) (notify.Recipient, error) {
	switch ref.Kind {
	case models.KindParent:
		p, err := s.parents.GetParentByID(ref.ID)
		if err != nil {
			return notify.Recipient{}, err
		}
		if p == nil {
			return notify.Recipient{}, NotFound("recipient not found")
		}
		return notify.Recipient{Name: p.Name, Email: p.Email, Phone: p.Phone}, nil
	case models.KindTeen:
		t, err := s.teens.GetTeenByID(ref.ID)
		if err != nil {
			return notify.Recipient{}, err
		}
		if t == nil {
			return notify.Recipient{}, NotFound("recipient not found")
		}
		return notify.Recipient{Name: t.Name, Email: t.Email, Phone: t.Phone}, nil
	case models.KindChild:
		c, err := s.children.GetChildByID(ref.ID)
		if err != nil {
			return notify.Recipient{}, err
		}
		if c == nil {
			return notify.Recipient{}, NotFound("recipient not found")
		}
		return notify.Recipient{Name: c.Name, Email: c.NotificationEmail, Phone: c.NotificationPhone}, nil
	default:
		return notify.Recipient{}, Validation("unknown recipient kind")
	}
}

// preferenceForMethod maps a delivery method to the channels to attempt
func preferenceForMethod(method string) string {
	switch method {
	case models.DeliveryEmail:
		return models.NotifyEmail
	case models.DeliverySMS:
		return models.NotifySMS
	case models.DeliveryAll:
		return models.NotifyBoth
	default:
		return models.NotifyNone
	}
}

// SendMessage stores a message and dispatches the outbound channels the
// delivery method names. Channel failures are recorded on the message and
// never fail the send: the in-app copy always exists.
func (s *MessageService) SendMessage(ctx context.Context, sender, recipient models.MemberRef, subject, body, deliveryMethod string) (*models.Message, error) {
	if body == "" {
		return nil, Validation("message body is required")
	}
	if !recipient.Kind.Valid() {
		return nil, Validation("unknown recipient kind")
	}
	switch deliveryMethod {
	case "", models.DeliveryInApp, models.DeliverySMS, models.DeliveryEmail, models.DeliveryAll:
	default:
		return nil, Validation("delivery method must be in-app, sms, email, or all")
	}

	scopeParentID, err := s.actorParentID(sender)
	if err != nil {
		return nil, err
	}

	ok, err := s.family.CanSeeMember(scopeParentID, recipient)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, Forbidden("recipient is not in your family")
	}

	msg, err := s.messages.CreateMessage(&models.Message{
		Sender:         sender,
		Recipient:      recipient,
		Subject:        subject,
		Body:           body,
		DeliveryMethod: deliveryMethod,
	})
	if err != nil {
		return nil, err
	}

	if msg.DeliveryMethod != models.DeliveryInApp {
		pref := preferenceForMethod(msg.DeliveryMethod)
		contact, cerr := s.contactFor(recipient)
		if cerr != nil {
			// The stored copy already exists; a contact lookup failure is a
			// channel failure, recorded like any other delivery error
			if pref == models.NotifyEmail || pref == models.NotifyBoth {
				msg.EmailError = cerr.Error()
			}
			if pref == models.NotifySMS || pref == models.NotifyBoth {
				msg.SMSError = cerr.Error()
			}
		} else {
			contact.Preference = pref
			delivery := s.dispatcher.Notify(ctx, contact, subject, body, "")
			msg.EmailSent = delivery.Email.Sent
			msg.EmailError = delivery.Email.Error
			msg.SMSSent = delivery.SMS.Sent
			msg.SMSError = delivery.SMS.Error
		}

		if err := s.messages.UpdateDeliveryStatus(msg.ID, msg.EmailSent, msg.EmailError, msg.SMSSent, msg.SMSError); err != nil {
			return nil, err
		}
	}

	return msg, nil
}

// ListInbox retrieves the messages addressed to a member
func (s *MessageService) ListInbox(ref models.MemberRef) ([]models.Message, error) {
	return s.messages.ListMessagesForRecipient(ref)
}

// ListSent retrieves the messages a member sent
func (s *MessageService) ListSent(ref models.MemberRef) ([]models.Message, error) {
	return s.messages.ListMessagesFromSender(ref)
}

// MarkRead flags a message as read. Only the recipient may mark.
func (s *MessageService) MarkRead(messageID string, actor models.MemberRef) (*models.Message, error) {
	msg, err := s.messages.GetMessageByID(messageID)
	if err != nil {
		return nil, err
	}
	if msg == nil || msg.Deleted {
		return nil, NotFound("message not found")
	}
	if msg.Recipient != actor {
		return nil, Forbidden("only the recipient can mark a message read")
	}
	if !msg.Read {
		if err := s.messages.MarkRead(messageID); err != nil {
			return nil, err
		}
		msg.Read = true
	}
	return msg, nil
}

// UnreadCount returns the number of unread messages in a member's inbox
func (s *MessageService) UnreadCount(actor models.MemberRef) (int, error) {
	return s.messages.CountUnread(actor)
}

// DeleteMessage soft-deletes a message. Only the sender or recipient may
// delete.
func (s *MessageService) DeleteMessage(messageID string, actor models.MemberRef) error {
	msg, err := s.messages.GetMessageByID(messageID)
	if err != nil {
		return err
	}
	if msg == nil || msg.Deleted {
		return NotFound("message not found")
	}
	if msg.Sender != actor && msg.Recipient != actor {
		return Forbidden("message belongs to another member")
	}
	return s.messages.SoftDeleteMessage(messageID)
}
