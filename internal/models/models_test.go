package models

import (
	"testing"
	"time"
)

func TestInvitationIsExpired(t *testing.T) {
	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{
			name:      "future expiration",
			expiresAt: time.Now().Add(24 * time.Hour),
			want:      false,
		},
		{
			name:      "just expired",
			expiresAt: time.Now().Add(-1 * time.Second),
			want:      true,
		},
		{
			name:      "expired last week",
			expiresAt: time.Now().Add(-7 * 24 * time.Hour),
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := Invitation{
				Token:     "abc123",
				Status:    InvitationStatusPending,
				ExpiresAt: tt.expiresAt,
			}
			if got := inv.IsExpired(); got != tt.want {
				t.Errorf("Invitation.IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAccountRoleForAge(t *testing.T) {
	tests := []struct {
		name string
		age  int
		want string
	}{
		{name: "too young", age: 7, want: ""},
		{name: "youngest child", age: 8, want: AccountRoleChild},
		{name: "oldest child", age: 12, want: AccountRoleChild},
		{name: "youngest teen", age: 13, want: AccountRoleTeen},
		{name: "oldest teen", age: 17, want: AccountRoleTeen},
		{name: "youngest young adult", age: 18, want: AccountRoleYoungAdult},
		{name: "oldest young adult", age: 25, want: AccountRoleYoungAdult},
		{name: "too old", age: 26, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AccountRoleForAge(tt.age); got != tt.want {
				t.Errorf("AccountRoleForAge(%d) = %q, want %q", tt.age, got, tt.want)
			}
		})
	}
}

func TestTeenInvitationAttemptsExhausted(t *testing.T) {
	tests := []struct {
		name         string
		attemptCount int
		want         bool
	}{
		{name: "no attempts", attemptCount: 0, want: false},
		{name: "under cap", attemptCount: 4, want: false},
		{name: "at cap", attemptCount: 5, want: true},
		{name: "over cap", attemptCount: 6, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := TeenInvitation{
				Code:         "482913",
				AttemptCount: tt.attemptCount,
				MaxAttempts:  TeenInvitationMaxAttempts,
			}
			if got := inv.AttemptsExhausted(); got != tt.want {
				t.Errorf("TeenInvitation.AttemptsExhausted() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParentHasFamilyMember(t *testing.T) {
	p := Parent{
		ID:            "p1",
		FamilyMembers: []string{"p2", "p3"},
	}

	if !p.HasFamilyMember("p2") {
		t.Error("expected p2 to be a family member")
	}
	if p.HasFamilyMember("p4") {
		t.Error("did not expect p4 to be a family member")
	}
	if p.HasFamilyMember("p1") {
		t.Error("a parent is not its own family member entry")
	}
}

func TestChildHasParent(t *testing.T) {
	c := Child{
		ID:        "c1",
		FamilyID:  "p1",
		ParentIDs: []string{"p2"},
	}

	if !c.HasParent("p1") {
		t.Error("expected owning parent to be linked")
	}
	if !c.HasParent("p2") {
		t.Error("expected co-parent to be linked")
	}
	if c.HasParent("p3") {
		t.Error("did not expect unrelated parent to be linked")
	}
}

func TestVaultEntryVisibleTo(t *testing.T) {
	entry := VaultEntry{
		ID:        "v1",
		CreatedBy: "p1",
		SharedWith: []MemberRef{
			{Kind: KindParent, ID: "p2"},
			{Kind: KindTeen, ID: "t1"},
		},
	}

	tests := []struct {
		name string
		ref  MemberRef
		want bool
	}{
		{name: "owner", ref: MemberRef{Kind: KindParent, ID: "p1"}, want: true},
		{name: "shared parent", ref: MemberRef{Kind: KindParent, ID: "p2"}, want: true},
		{name: "shared teen", ref: MemberRef{Kind: KindTeen, ID: "t1"}, want: true},
		{name: "unshared parent", ref: MemberRef{Kind: KindParent, ID: "p3"}, want: false},
		{name: "same id different kind", ref: MemberRef{Kind: KindChild, ID: "t1"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := entry.VisibleTo(tt.ref); got != tt.want {
				t.Errorf("VaultEntry.VisibleTo(%v) = %v, want %v", tt.ref, got, tt.want)
			}
		})
	}
}
