package models

import "time"

// Invitation status values
const (
	InvitationStatusPending  = "pending"
	InvitationStatusAccepted = "accepted"
	InvitationStatusDeclined = "declined"
	InvitationStatusExpired  = "expired"
)

// InvitationExpiry is how long a parent invitation stays valid
const InvitationExpiry = 7 * 24 * time.Hour

// Invitation is a token-based offer from one parent to link households
// with another parent, delivered by email
type Invitation struct {
	ID           string     `json:"id"`
	Token        string     `json:"token"`
	InviterID    string     `json:"inviterId"`
	InvitedEmail string     `json:"invitedEmail"`
	ProposedRole string     `json:"proposedRole"`
	FamilyName   string     `json:"familyName"`
	Status       string     `json:"status"`
	ExpiresAt    time.Time  `json:"expiresAt"`
	AcceptedAt   *time.Time `json:"acceptedAt,omitempty"`
	AcceptedBy   *string    `json:"acceptedBy,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	InviterName  string     `json:"inviterName,omitempty"` // Populated via JOIN
}

// IsExpired checks if the invitation is past its deadline
func (i *Invitation) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}

// IsPending reports whether the invitation can still be accepted or declined
func (i *Invitation) IsPending() bool {
	return i.Status == InvitationStatusPending
}
