package models

import "time"

// Role values for parent accounts
const (
	RoleParent = "parent"
	RoleAdmin  = "admin"
)

// ParentRole values describe the parent's position in the household
const (
	ParentRoleMom    = "mom"
	ParentRoleDad    = "dad"
	ParentRoleParent = "parent"
)

// Notification preference values
const (
	NotifyEmail = "email"
	NotifySMS   = "sms"
	NotifyBoth  = "both"
	NotifyNone  = "none"
)

// Parent represents a household administrator account
type Parent struct {
	ID                     string    `json:"id"`
	Name                   string    `json:"name"`
	Email                  string    `json:"email"`
	FamilyName             string    `json:"familyName"`
	Phone                  string    `json:"phone,omitempty"`
	PasswordHash           string    `json:"-"`
	GoogleID               string    `json:"-"`
	Role                   string    `json:"role"`
	ParentRole             string    `json:"parentRole"`
	NotificationPreference string    `json:"notificationPreference"`
	FamilyMembers          []string  `json:"familyMembers"` // Parent IDs of merged households
	CreatedAt              time.Time `json:"createdAt"`
	UpdatedAt              time.Time `json:"updatedAt"`
}

// HasFamilyMember reports whether the other parent's household is linked
func (p *Parent) HasFamilyMember(parentID string) bool {
	for _, id := range p.FamilyMembers {
		if id == parentID {
			return true
		}
	}
	return false
}

// UsesExternalAuth reports whether the account authenticates via Google
// rather than a local password
func (p *Parent) UsesExternalAuth() bool {
	return p.GoogleID != ""
}
