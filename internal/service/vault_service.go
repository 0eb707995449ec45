package service

import (
	"familyhub/internal/models"
	"familyhub/internal/repository"
)

// VaultService manages password-vault entries. Share-with-all is a snapshot
// taken at write time: the resolved family at that moment is materialized
// into the share set and is NOT re-evaluated as the family grows. Re-saving
// the entry with sharedWithAll set refreshes the snapshot.
type VaultService struct {
	family *FamilyService
	vault  *repository.VaultRepository
}

// NewVaultService creates a new vault service
func NewVaultService(family *FamilyService, vault *repository.VaultRepository) *VaultService {
	return &VaultService{family: family, vault: vault}
}

// ExpandToAll computes the full member set of the owner's resolved family,
// the snapshot stored for share-with-all resources
func (s *VaultService) ExpandToAll(ownerParentID string) ([]models.MemberRef, error) {
	return s.family.ResolveFamilyMemberIDs(ownerParentID)
}

// resolveShares applies snapshot semantics to a written entry: when
// sharedWithAll is set the explicit set is overwritten with the expansion
func (s *VaultService) resolveShares(entry *models.VaultEntry) error {
	if !entry.SharedWithAll {
		return nil
	}
	refs, err := s.ExpandToAll(entry.CreatedBy)
	if err != nil {
		return err
	}
	entry.SharedWith = refs
	return nil
}

// CreateEntry creates a vault entry owned by the actor
func (s *VaultService) CreateEntry(actorParentID string, entry *models.VaultEntry) (*models.VaultEntry, error) {
	if entry.Title == "" {
		return nil, Validation("entry title is required")
	}
	entry.CreatedBy = actorParentID
	if err := s.resolveShares(entry); err != nil {
		return nil, err
	}
	return s.vault.CreateEntry(entry)
}

// GetEntry retrieves an entry the member is authorized to see
func (s *VaultService) GetEntry(entryID string, actor models.MemberRef) (*models.VaultEntry, error) {
	entry, err := s.vault.GetEntryByID(entryID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, NotFound("vault entry not found")
	}
	if !entry.VisibleTo(actor) {
		return nil, Forbidden("vault entry is not shared with you")
	}
	return entry, nil
}

// ListEntries retrieves the entries visible to a member
func (s *VaultService) ListEntries(actor models.MemberRef) ([]models.VaultEntry, error) {
	return s.vault.ListEntriesVisibleTo(actor)
}

// UpdateEntry updates an entry. Only the owner may update; a re-save with
// sharedWithAll refreshes the share snapshot.
func (s *VaultService) UpdateEntry(actorParentID string, entry *models.VaultEntry) (*models.VaultEntry, error) {
	existing, err := s.vault.GetEntryByID(entry.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, NotFound("vault entry not found")
	}
	if existing.CreatedBy != actorParentID {
		return nil, Forbidden("only the owner can update a vault entry")
	}
	if entry.Title == "" {
		return nil, Validation("entry title is required")
	}

	entry.CreatedBy = existing.CreatedBy
	if err := s.resolveShares(entry); err != nil {
		return nil, err
	}
	if err := s.vault.UpdateEntry(entry); err != nil {
		return nil, err
	}
	return s.vault.GetEntryByID(entry.ID)
}

// DeleteEntry removes an entry. Only the owner may delete.
func (s *VaultService) DeleteEntry(entryID, actorParentID string) error {
	entry, err := s.vault.GetEntryByID(entryID)
	if err != nil {
		return err
	}
	if entry == nil {
		return NotFound("vault entry not found")
	}
	if entry.CreatedBy != actorParentID {
		return Forbidden("only the owner can delete a vault entry")
	}
	return s.vault.DeleteEntry(entryID)
}
