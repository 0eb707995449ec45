package handlers

import (
	"net/http"

	"familyhub/internal/models"
	"familyhub/internal/service"
)

// VaultHandler handles shared credential vault endpoints
type VaultHandler struct {
	vaultService *service.VaultService
}

// NewVaultHandler creates a new vault handler
func NewVaultHandler(vaultService *service.VaultService) *VaultHandler {
	return &VaultHandler{vaultService: vaultService}
}

// CreateEntry stores a credential owned by the authenticated parent
func (h *VaultHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())

	var entry models.VaultEntry
	if err := decodeJSON(r, &entry); err != nil {
		writeError(w, err)
		return
	}

	created, err := h.vaultService.CreateEntry(actor.ID, &entry)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListEntries returns entries visible to the authenticated account
func (h *VaultHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())

	entries, err := h.vaultService.ListEntries(actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// GetEntry returns one entry the account can see
func (h *VaultHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())

	entry, err := h.vaultService.GetEntry(r.PathValue("id"), actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// UpdateEntry rewrites an entry. Only the owner may update; a re-save
// with sharedWithAll recomputes the share snapshot.
func (h *VaultHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())

	var entry models.VaultEntry
	if err := decodeJSON(r, &entry); err != nil {
		writeError(w, err)
		return
	}
	entry.ID = r.PathValue("id")

	updated, err := h.vaultService.UpdateEntry(actor.ID, &entry)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteEntry removes an entry the actor owns
func (h *VaultHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())

	if err := h.vaultService.DeleteEntry(r.PathValue("id"), actor.ID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
