package models

import "time"

// VaultEntry is a stored credential owned by one parent. SharedWith is a
// concrete snapshot computed at write time; when SharedWithAll is set the
// snapshot covers the owner's resolved family at that moment and is NOT
// re-evaluated as the family grows.
type VaultEntry struct {
	ID            string      `json:"id"`
	CreatedBy     string      `json:"createdBy"`
	Title         string      `json:"title"`
	Username      string      `json:"username,omitempty"`
	Password      string      `json:"password,omitempty"`
	URL           string      `json:"url,omitempty"`
	Notes         string      `json:"notes,omitempty"`
	SharedWithAll bool        `json:"sharedWithAll"`
	SharedWith    []MemberRef `json:"sharedWith"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// VisibleTo reports whether the entry is visible to the given member
func (v *VaultEntry) VisibleTo(ref MemberRef) bool {
	if ref.Kind == KindParent && ref.ID == v.CreatedBy {
		return true
	}
	return ContainsMember(v.SharedWith, ref)
}
