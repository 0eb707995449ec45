package service

import (
	"fmt"

	"familyhub/internal/models"
	"familyhub/internal/repository"
)

// FamilyService resolves household membership and manages child profiles.
// Membership resolution is the sole authorization primitive: every
// ownership check for children, events, vault entries, and messages asks
// whether the target's owning parent is in the actor's resolved set.
type FamilyService struct {
	parents  *repository.ParentRepository
	teens    *repository.TeenRepository
	children *repository.ChildRepository
}

// NewFamilyService creates a new family service
func NewFamilyService(parents *repository.ParentRepository, teens *repository.TeenRepository, children *repository.ChildRepository) *FamilyService {
	return &FamilyService{parents: parents, teens: teens, children: children}
}

// ResolveFamilyParentIDs returns the actor plus the parents of every
// household merged with the actor's. The set is one hop only: if A merged
// with B and B merged with C, A does not see C unless A also merged with C
// directly. TODO: confirm with product whether the closure should become
// transitive; keeping the recorded one-hop behavior until then.
func (s *FamilyService) ResolveFamilyParentIDs(actorParentID string) ([]string, error) {
	parent, err := s.parents.GetParentByID(actorParentID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve family: %w", err)
	}
	if parent == nil {
		// Unknown actor resolves to just itself rather than failing
		return []string{actorParentID}, nil
	}

	ids := []string{actorParentID}
	seen := map[string]bool{actorParentID: true}
	for _, id := range parent.FamilyMembers {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	return ids, nil
}

// ResolveFamilyMemberIDs returns every member the actor has visibility
// into: the resolved parent set plus all teens and children those parents
// own
func (s *FamilyService) ResolveFamilyMemberIDs(actorParentID string) ([]models.MemberRef, error) {
	parentIDs, err := s.ResolveFamilyParentIDs(actorParentID)
	if err != nil {
		return nil, err
	}

	var refs []models.MemberRef
	seen := make(map[models.MemberRef]bool)
	add := func(ref models.MemberRef) {
		if !seen[ref] {
			seen[ref] = true
			refs = append(refs, ref)
		}
	}

	for _, id := range parentIDs {
		add(models.MemberRef{Kind: models.KindParent, ID: id})
	}

	teens, err := s.teens.ListTeensByParents(parentIDs)
	if err != nil {
		return nil, err
	}
	for _, t := range teens {
		add(models.MemberRef{Kind: models.KindTeen, ID: t.ID})
	}

	children, err := s.children.ListChildrenByFamilies(parentIDs)
	if err != nil {
		return nil, err
	}
	for _, c := range children {
		add(models.MemberRef{Kind: models.KindChild, ID: c.ID})
	}

	return refs, nil
}

// CanSeeParent reports whether the target parent is inside the actor's
// resolved family
func (s *FamilyService) CanSeeParent(actorParentID, targetParentID string) (bool, error) {
	ids, err := s.ResolveFamilyParentIDs(actorParentID)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == targetParentID {
			return true, nil
		}
	}
	return false, nil
}

// CanSeeMember reports whether the target member is inside the actor's
// resolved family
func (s *FamilyService) CanSeeMember(actorParentID string, target models.MemberRef) (bool, error) {
	refs, err := s.ResolveFamilyMemberIDs(actorParentID)
	if err != nil {
		return false, err
	}
	return models.ContainsMember(refs, target), nil
}

// ListFamilyParents returns the parent records of the actor's resolved family
func (s *FamilyService) ListFamilyParents(actorParentID string) ([]models.Parent, error) {
	ids, err := s.ResolveFamilyParentIDs(actorParentID)
	if err != nil {
		return nil, err
	}
	return s.parents.ListParentsByIDs(ids)
}

// ListFamilyTeens returns the teens visible to the actor
func (s *FamilyService) ListFamilyTeens(actorParentID string) ([]models.Teen, error) {
	ids, err := s.ResolveFamilyParentIDs(actorParentID)
	if err != nil {
		return nil, err
	}
	return s.teens.ListTeensByParents(ids)
}

// ListFamilyChildren returns the children visible to the actor
func (s *FamilyService) ListFamilyChildren(actorParentID string) ([]models.Child, error) {
	ids, err := s.ResolveFamilyParentIDs(actorParentID)
	if err != nil {
		return nil, err
	}
	return s.children.ListChildrenByFamilies(ids)
}

// AddChild creates a child profile under the actor's household
func (s *FamilyService) AddChild(actorParentID string, child *models.Child) (*models.Child, error) {
	if child.Name == "" {
		return nil, Validation("child name is required")
	}
	child.FamilyID = actorParentID
	return s.children.CreateChild(child)
}

// GetChild retrieves a child the actor is authorized to see
func (s *FamilyService) GetChild(actorParentID, childID string) (*models.Child, error) {
	child, err := s.children.GetChildByID(childID)
	if err != nil {
		return nil, err
	}
	if child == nil {
		return nil, NotFound("child not found")
	}

	ok, err := s.CanSeeParent(actorParentID, child.FamilyID)
	if err != nil {
		return nil, err
	}
	if !ok && !child.HasParent(actorParentID) {
		return nil, Forbidden("child belongs to another family")
	}

	return child, nil
}

// UpdateChild updates a child the actor is authorized to see
func (s *FamilyService) UpdateChild(actorParentID string, child *models.Child) error {
	existing, err := s.GetChild(actorParentID, child.ID)
	if err != nil {
		return err
	}
	if child.Name == "" {
		return Validation("child name is required")
	}
	child.FamilyID = existing.FamilyID
	return s.children.UpdateChild(child)
}

// DeleteChild removes a child profile. Only the owning parent may delete.
func (s *FamilyService) DeleteChild(actorParentID, childID string) error {
	child, err := s.children.GetChildByID(childID)
	if err != nil {
		return err
	}
	if child == nil {
		return NotFound("child not found")
	}
	if child.FamilyID != actorParentID {
		return Forbidden("only the owning parent can delete a child profile")
	}
	return s.children.DeleteChild(childID)
}
