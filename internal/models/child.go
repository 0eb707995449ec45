package models

import "time"

// Child represents a non-login family-member profile. Children cannot
// authenticate; they exist for display and notification delivery.
type Child struct {
	ID                     string    `json:"id"`
	FamilyID               string    `json:"familyId"` // owning parent
	Name                   string    `json:"name"`
	Age                    int       `json:"age"`
	NotificationEmail      string    `json:"notificationEmail,omitempty"`
	NotificationPhone      string    `json:"notificationPhone,omitempty"`
	NotificationPreference string    `json:"notificationPreference"`
	ParentIDs              []string  `json:"parentIds"` // co-parents added by merges
	CreatedAt              time.Time `json:"createdAt"`
	UpdatedAt              time.Time `json:"updatedAt"`
}

// HasParent reports whether the given parent is linked to this child
func (c *Child) HasParent(parentID string) bool {
	if c.FamilyID == parentID {
		return true
	}
	for _, id := range c.ParentIDs {
		if id == parentID {
			return true
		}
	}
	return false
}
