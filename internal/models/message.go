package models

import "time"

// Delivery method values for messages
const (
	DeliveryInApp = "in-app"
	DeliverySMS   = "sms"
	DeliveryEmail = "email"
	DeliveryAll   = "all"
)

// Message is a note from one family member to another, optionally pushed
// out over email and/or SMS with per-channel delivery tracking
type Message struct {
	ID             string    `json:"id"`
	Sender         MemberRef `json:"sender"`
	Recipient      MemberRef `json:"recipient"`
	Subject        string    `json:"subject,omitempty"`
	Body           string    `json:"body"`
	DeliveryMethod string    `json:"deliveryMethod"`
	EmailSent      bool      `json:"emailSent"`
	EmailError     string    `json:"emailError,omitempty"`
	SMSSent        bool      `json:"smsSent"`
	SMSError       string    `json:"smsError,omitempty"`
	Read           bool      `json:"read"`
	Deleted        bool      `json:"-"`
	CreatedAt      time.Time `json:"createdAt"`
}
