package service

import (
	"testing"

	"familyhub/internal/models"
)

func TestVaultShareWithAllSnapshot(t *testing.T) {
	env := newTestEnv(t)
	p1 := env.addParent(t, "Pat Smith", "pat@example.com", "Smith")
	p2 := env.addParent(t, "Jo Jones", "jo@example.com", "Jones")
	c1 := env.addChild(t, p1.ID, "Sam")
	c2 := env.addChild(t, p1.ID, "Alex")
	env.mergeParents(t, p1, p2)

	entry, err := env.vault.CreateEntry(p1.ID, &models.VaultEntry{
		Title:         "Streaming login",
		Username:      "family",
		Password:      "hunter2",
		SharedWithAll: true,
	})
	if err != nil {
		t.Fatalf("CreateEntry() error = %v", err)
	}

	// Snapshot contains exactly self, merged parent, and both children
	want := []models.MemberRef{
		{Kind: models.KindParent, ID: p1.ID},
		{Kind: models.KindParent, ID: p2.ID},
		{Kind: models.KindChild, ID: c1.ID},
		{Kind: models.KindChild, ID: c2.ID},
	}
	if len(entry.SharedWith) != len(want) {
		t.Fatalf("snapshot size = %d, want %d", len(entry.SharedWith), len(want))
	}
	for _, ref := range want {
		if !models.ContainsMember(entry.SharedWith, ref) {
			t.Errorf("snapshot missing %v", ref)
		}
	}

	// A child added later does not retroactively appear
	c3 := env.addChild(t, p1.ID, "Casey")
	stored, err := env.vault.GetEntry(entry.ID, models.MemberRef{Kind: models.KindParent, ID: p1.ID})
	if err != nil {
		t.Fatalf("GetEntry() error = %v", err)
	}
	if models.ContainsMember(stored.SharedWith, models.MemberRef{Kind: models.KindChild, ID: c3.ID}) {
		t.Error("snapshot must not grow until the entry is re-saved")
	}

	// Re-saving with sharedWithAll refreshes the snapshot
	stored.SharedWithAll = true
	updated, err := env.vault.UpdateEntry(p1.ID, stored)
	if err != nil {
		t.Fatalf("UpdateEntry() error = %v", err)
	}
	if !models.ContainsMember(updated.SharedWith, models.MemberRef{Kind: models.KindChild, ID: c3.ID}) {
		t.Error("re-save should pick up the new child")
	}
}

func TestVaultVisibility(t *testing.T) {
	env := newTestEnv(t)
	p1 := env.addParent(t, "Pat Smith", "pat@example.com", "Smith")
	p2 := env.addParent(t, "Jo Jones", "jo@example.com", "Jones")

	entry, err := env.vault.CreateEntry(p1.ID, &models.VaultEntry{
		Title: "Bank login",
		SharedWith: []models.MemberRef{
			{Kind: models.KindParent, ID: p2.ID},
		},
	})
	if err != nil {
		t.Fatalf("CreateEntry() error = %v", err)
	}

	// Owner and explicitly shared parent can read
	if _, err := env.vault.GetEntry(entry.ID, models.MemberRef{Kind: models.KindParent, ID: p1.ID}); err != nil {
		t.Errorf("owner GetEntry() error = %v", err)
	}
	if _, err := env.vault.GetEntry(entry.ID, models.MemberRef{Kind: models.KindParent, ID: p2.ID}); err != nil {
		t.Errorf("shared GetEntry() error = %v", err)
	}

	// A stranger cannot
	p3 := env.addParent(t, "Lee Brown", "lee@example.com", "Brown")
	if _, err := env.vault.GetEntry(entry.ID, models.MemberRef{Kind: models.KindParent, ID: p3.ID}); KindOf(err) != KindForbidden {
		t.Errorf("stranger GetEntry() error kind = %v, want KindForbidden", KindOf(err))
	}

	// Only the owner may update or delete
	entry.Title = "Bank login v2"
	if _, err := env.vault.UpdateEntry(p2.ID, entry); KindOf(err) != KindForbidden {
		t.Errorf("non-owner UpdateEntry() error kind = %v, want KindForbidden", KindOf(err))
	}
	if err := env.vault.DeleteEntry(entry.ID, p2.ID); KindOf(err) != KindForbidden {
		t.Errorf("non-owner DeleteEntry() error kind = %v, want KindForbidden", KindOf(err))
	}
	if err := env.vault.DeleteEntry(entry.ID, p1.ID); err != nil {
		t.Errorf("owner DeleteEntry() error = %v", err)
	}
}

func TestVaultListEntries(t *testing.T) {
	env := newTestEnv(t)
	p1 := env.addParent(t, "Pat Smith", "pat@example.com", "Smith")
	p2 := env.addParent(t, "Jo Jones", "jo@example.com", "Jones")

	if _, err := env.vault.CreateEntry(p1.ID, &models.VaultEntry{Title: "Own entry"}); err != nil {
		t.Fatalf("CreateEntry() error = %v", err)
	}
	if _, err := env.vault.CreateEntry(p2.ID, &models.VaultEntry{
		Title:      "Shared entry",
		SharedWith: []models.MemberRef{{Kind: models.KindParent, ID: p1.ID}},
	}); err != nil {
		t.Fatalf("CreateEntry() error = %v", err)
	}
	if _, err := env.vault.CreateEntry(p2.ID, &models.VaultEntry{Title: "Private entry"}); err != nil {
		t.Fatalf("CreateEntry() error = %v", err)
	}

	entries, err := env.vault.ListEntries(models.MemberRef{Kind: models.KindParent, ID: p1.ID})
	if err != nil {
		t.Fatalf("ListEntries() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("visible entries = %d, want 2", len(entries))
	}
	for _, e := range entries {
		if e.Title == "Private entry" {
			t.Error("unshared entry must not be visible")
		}
	}
}
