package models

import "time"

// TeenInvitation status values
const (
	TeenInvitationStatusPending  = "pending"
	TeenInvitationStatusVerified = "verified"
	TeenInvitationStatusUsed     = "used"
	TeenInvitationStatusExpired  = "expired"
)

// TeenInvitationExpiry is how long a code stays valid after issue or resend
const TeenInvitationExpiry = 30 * time.Minute

// TeenInvitationMaxAttempts is the verification-attempt cap per code
const TeenInvitationMaxAttempts = 5

// TeenInvitation is a 6-digit-code offer for a minor to create a dependent
// account under the issuing parent
type TeenInvitation struct {
	ID           string     `json:"id"`
	ParentID     string     `json:"parentId"`
	Code         string     `json:"-"`
	Name         string     `json:"name"`
	Email        string     `json:"email,omitempty"`
	Phone        string     `json:"phone,omitempty"`
	AccountRole  string     `json:"accountRole"`
	Status       string     `json:"status"`
	AttemptCount int        `json:"attemptCount"`
	MaxAttempts  int        `json:"maxAttempts"`
	ExpiresAt    time.Time  `json:"expiresAt"`
	VerifiedAt   *time.Time `json:"verifiedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// IsExpired checks if the code is past its deadline
func (t *TeenInvitation) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}

// AttemptsExhausted reports whether the verification-attempt cap is reached
func (t *TeenInvitation) AttemptsExhausted() bool {
	return t.AttemptCount >= t.MaxAttempts
}
