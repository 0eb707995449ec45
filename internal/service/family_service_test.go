package service

import (
	"testing"

	"familyhub/internal/models"
)

func TestResolveFamilyParentIDsUnknownActor(t *testing.T) {
	env := newTestEnv(t)

	// Unknown actor resolves to just itself, never errors
	ids, err := env.family.ResolveFamilyParentIDs("no-such-parent")
	if err != nil {
		t.Fatalf("ResolveFamilyParentIDs() error = %v", err)
	}
	if len(ids) != 1 || ids[0] != "no-such-parent" {
		t.Errorf("resolved set = %v, want just the actor", ids)
	}
}

func TestResolveFamilyParentIDsIncludesMergedHouseholds(t *testing.T) {
	env := newTestEnv(t)
	p1 := env.addParent(t, "Pat Smith", "pat@example.com", "Smith")
	p2 := env.addParent(t, "Jo Jones", "jo@example.com", "Jones")
	env.mergeParents(t, p1, p2)

	ids, err := env.family.ResolveFamilyParentIDs(p1.ID)
	if err != nil {
		t.Fatalf("ResolveFamilyParentIDs() error = %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("resolved set size = %d, want 2", len(ids))
	}
	found := map[string]bool{}
	for _, id := range ids {
		found[id] = true
	}
	if !found[p1.ID] || !found[p2.ID] {
		t.Errorf("resolved set = %v, want both parents", ids)
	}
}

func TestResolveFamilyParentIDsNoTransitiveClosure(t *testing.T) {
	env := newTestEnv(t)
	a := env.addParent(t, "A", "a@example.com", "A")
	b := env.addParent(t, "B", "b@example.com", "B")
	c := env.addParent(t, "C", "c@example.com", "C")

	env.mergeParents(t, a, b)
	env.mergeParents(t, b, c)

	// A merged with B and B merged with C, but the closure is one hop:
	// A must not see C
	ids, err := env.family.ResolveFamilyParentIDs(a.ID)
	if err != nil {
		t.Fatalf("ResolveFamilyParentIDs() error = %v", err)
	}
	for _, id := range ids {
		if id == c.ID {
			t.Error("A should not resolve C without a direct merge")
		}
	}

	// B, having merged with both, sees everyone
	ids, err = env.family.ResolveFamilyParentIDs(b.ID)
	if err != nil {
		t.Fatalf("ResolveFamilyParentIDs() error = %v", err)
	}
	if len(ids) != 3 {
		t.Errorf("B resolved set size = %d, want 3", len(ids))
	}
}

func TestResolveFamilyMemberIDsCoversTeensAndChildren(t *testing.T) {
	env := newTestEnv(t)
	p1 := env.addParent(t, "Pat Smith", "pat@example.com", "Smith")
	p2 := env.addParent(t, "Jo Jones", "jo@example.com", "Jones")
	child := env.addChild(t, p2.ID, "Alex")

	teen, err := env.teens.CreateTeen(&models.Teen{
		ParentID:    p2.ID,
		Name:        "Riley",
		Email:       "riley@example.com",
		AccountRole: models.AccountRoleTeen,
		Age:         15,
	})
	if err != nil {
		t.Fatalf("CreateTeen() error = %v", err)
	}

	env.mergeParents(t, p1, p2)

	refs, err := env.family.ResolveFamilyMemberIDs(p1.ID)
	if err != nil {
		t.Fatalf("ResolveFamilyMemberIDs() error = %v", err)
	}

	want := []models.MemberRef{
		{Kind: models.KindParent, ID: p1.ID},
		{Kind: models.KindParent, ID: p2.ID},
		{Kind: models.KindTeen, ID: teen.ID},
		{Kind: models.KindChild, ID: child.ID},
	}
	for _, ref := range want {
		if !models.ContainsMember(refs, ref) {
			t.Errorf("resolved members missing %v", ref)
		}
	}
	if len(refs) != len(want) {
		t.Errorf("resolved member count = %d, want %d", len(refs), len(want))
	}
}

func TestChildAuthorization(t *testing.T) {
	env := newTestEnv(t)
	p1 := env.addParent(t, "Pat Smith", "pat@example.com", "Smith")
	p2 := env.addParent(t, "Jo Jones", "jo@example.com", "Jones")
	child := env.addChild(t, p1.ID, "Sam")

	// Owner sees the child
	if _, err := env.family.GetChild(p1.ID, child.ID); err != nil {
		t.Errorf("owner GetChild() error = %v", err)
	}

	// Unmerged parent does not
	if _, err := env.family.GetChild(p2.ID, child.ID); KindOf(err) != KindForbidden {
		t.Errorf("unmerged GetChild() error kind = %v, want KindForbidden", KindOf(err))
	}

	env.mergeParents(t, p1, p2)

	// Merged parent now sees the child
	if _, err := env.family.GetChild(p2.ID, child.ID); err != nil {
		t.Errorf("merged GetChild() error = %v", err)
	}

	// Deleting stays restricted to the owner
	if err := env.family.DeleteChild(p2.ID, child.ID); KindOf(err) != KindForbidden {
		t.Errorf("co-parent DeleteChild() error kind = %v, want KindForbidden", KindOf(err))
	}
}
