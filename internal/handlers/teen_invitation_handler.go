package handlers

import (
	"net/http"

	"familyhub/internal/service"
)

// TeenInvitationHandler handles teen/young-adult invitation endpoints
type TeenInvitationHandler struct {
	teenInvitationService *service.TeenInvitationService
}

// NewTeenInvitationHandler creates a new teen invitation handler
func NewTeenInvitationHandler(teenInvitationService *service.TeenInvitationService) *TeenInvitationHandler {
	return &TeenInvitationHandler{teenInvitationService: teenInvitationService}
}

// SendTeenInvitation issues a verification code to a teen or young adult
func (h *TeenInvitationHandler) SendTeenInvitation(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())

	var req struct {
		Name        string `json:"name"`
		Email       string `json:"email"`
		Phone       string `json:"phone"`
		AccountRole string `json:"accountRole"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	inv, err := h.teenInvitationService.SendTeenInvitation(r.Context(), actor.ID, req.Name, req.Email, req.Phone, req.AccountRole)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, inv)
}

// VerifyCode checks a verification code against the invitation on file
// for the given contact. Public: the teen has no account yet.
func (h *TeenInvitationHandler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Contact string `json:"contact"`
		Code    string `json:"code"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	inv, err := h.teenInvitationService.VerifyCode(req.Contact, req.Code)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

// RegisterTeen completes registration against a verified invitation
func (h *TeenInvitationHandler) RegisterTeen(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Contact  string `json:"contact"`
		Code     string `json:"code"`
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Age      int    `json:"age"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	teen, err := h.teenInvitationService.RegisterTeen(r.Context(), req.Contact, req.Code, req.Name, req.Email, req.Password, req.Age)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, teen)
}

// ResendCode regenerates and redelivers the verification code
func (h *TeenInvitationHandler) ResendCode(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())

	inv, err := h.teenInvitationService.ResendCode(r.Context(), r.PathValue("id"), actor.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

// CancelTeenInvitation withdraws an invitation the actor issued
func (h *TeenInvitationHandler) CancelTeenInvitation(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())

	if err := h.teenInvitationService.CancelTeenInvitation(r.PathValue("id"), actor.ID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// ListTeenInvitations returns invitations the actor issued
func (h *TeenInvitationHandler) ListTeenInvitations(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())

	invs, err := h.teenInvitationService.ListTeenInvitations(actor.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invs)
}
