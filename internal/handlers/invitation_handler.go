package handlers

import (
	"net/http"

	"familyhub/internal/repository"
	"familyhub/internal/service"
)

// InvitationHandler handles parent invitation endpoints
type InvitationHandler struct {
	invitationService *service.InvitationService
	parents           *repository.ParentRepository
}

// NewInvitationHandler creates a new invitation handler
func NewInvitationHandler(invitationService *service.InvitationService, parents *repository.ParentRepository) *InvitationHandler {
	return &InvitationHandler{invitationService: invitationService, parents: parents}
}

// SendInvitation invites another parent into the household by email
func (h *InvitationHandler) SendInvitation(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())

	var req struct {
		Email        string `json:"email"`
		ProposedRole string `json:"proposedRole"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	inv, err := h.invitationService.SendInvitation(r.Context(), actor.ID, req.Email, req.ProposedRole)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, inv)
}

// ListSentInvitations returns invitations the actor issued
func (h *InvitationHandler) ListSentInvitations(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())

	invs, err := h.invitationService.ListSentInvitations(actor.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invs)
}

// ListReceivedInvitations returns invitations addressed to the actor's email
func (h *InvitationHandler) ListReceivedInvitations(w http.ResponseWriter, r *http.Request) {
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

	invs, err := h.invitationService.ListReceivedInvitations(parent.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invs)
}

// AcceptInvitation redeems an invitation token. The route is public:
// the invited person may not have an account yet, and in that case the
// response directs them to register first.
func (h *InvitationHandler) AcceptInvitation(w http.ResponseWriter, r *http.Request) {
	result, err := h.invitationService.AcceptInvitation(r.Context(), r.PathValue("token"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// DeclineInvitation declines a pending invitation by token
func (h *InvitationHandler) DeclineInvitation(w http.ResponseWriter, r *http.Request) {
	inv, err := h.invitationService.DeclineInvitation(r.PathValue("token"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

// CancelInvitation withdraws a pending invitation the actor issued
func (h *InvitationHandler) CancelInvitation(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())

	if err := h.invitationService.CancelInvitation(r.PathValue("id"), actor.ID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
