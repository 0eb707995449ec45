package handlers

import (
	"net/http"

	"familyhub/internal/models"
	"familyhub/internal/repository"
	"familyhub/internal/service"
	"familyhub/internal/validation"
)

// FamilyHandler handles profile, household, and child-profile requests
type FamilyHandler struct {
	familyService *service.FamilyService
	parents       *repository.ParentRepository
}

// NewFamilyHandler creates a new family handler
func NewFamilyHandler(familyService *service.FamilyService, parents *repository.ParentRepository) *FamilyHandler {
	return &FamilyHandler{familyService: familyService, parents: parents}
}

// GetProfile returns the authenticated parent's account
func (h *FamilyHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())

	parent, err := h.parents.GetParentByID(actor.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	if parent == nil {
		writeError(w, service.NotFound("account not found"))
		return
	}
	writeJSON(w, http.StatusOK, parent)
}

// UpdateProfile updates the authenticated parent's profile fields
func (h *FamilyHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())

	var req struct {
		Name                   string `json:"name"`
		FamilyName             string `json:"familyName"`
		Phone                  string `json:"phone"`
		ParentRole             string `json:"parentRole"`
		NotificationPreference string `json:"notificationPreference"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := validation.ValidateName(req.Name); err != nil {
		writeError(w, service.Validation(err.Error()))
		return
	}
	if req.Phone != "" {
		if err := validation.ValidatePhone(req.Phone); err != nil {
			writeError(w, service.Validation(err.Error()))
			return
		}
	}
	if req.NotificationPreference != "" {
		if err := validation.ValidateNotificationPreference(req.NotificationPreference); err != nil {
			writeError(w, service.Validation(err.Error()))
			return
		}
	}

	parent, err := h.parents.GetParentByID(actor.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	if parent == nil {
		writeError(w, service.NotFound("account not found"))
		return
	}

	parent.Name = req.Name
	parent.FamilyName = req.FamilyName
	parent.Phone = req.Phone
	if req.ParentRole != "" {
		parent.ParentRole = req.ParentRole
	}
	if req.NotificationPreference != "" {
		parent.NotificationPreference = req.NotificationPreference
	}

	if err := h.parents.UpdateProfile(parent); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, parent)
}

// ListFamily returns every account and profile visible to the parent
func (h *FamilyHandler) ListFamily(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())

	parents, err := h.familyService.ListFamilyParents(actor.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	teens, err := h.familyService.ListFamilyTeens(actor.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	children, err := h.familyService.ListFamilyChildren(actor.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"parents":  parents,
		"teens":    teens,
		"children": children,
	})
}

// CreateChild adds a child profile to the parent's household
func (h *FamilyHandler) CreateChild(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())

	var child models.Child
	if err := decodeJSON(r, &child); err != nil {
		writeError(w, err)
		return
	}

	created, err := h.familyService.AddChild(actor.ID, &child)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListChildren returns the children visible to the parent
func (h *FamilyHandler) ListChildren(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())

	children, err := h.familyService.ListFamilyChildren(actor.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, children)
}

// GetChild returns one child profile
func (h *FamilyHandler) GetChild(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())

	child, err := h.familyService.GetChild(actor.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, child)
}

// UpdateChild updates a child profile
func (h *FamilyHandler) UpdateChild(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())

	var child models.Child
	if err := decodeJSON(r, &child); err != nil {
		writeError(w, err)
		return
	}
	child.ID = r.PathValue("id")

	if err := h.familyService.UpdateChild(actor.ID, &child); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, child)
}

// DeleteChild removes a child profile
func (h *FamilyHandler) DeleteChild(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())

	if err := h.familyService.DeleteChild(actor.ID, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
