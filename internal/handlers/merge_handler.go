package handlers

import (
	"net/http"

	"familyhub/internal/service"
)

// MergeHandler handles family merge request endpoints
type MergeHandler struct {
	mergeService *service.MergeService
}

// NewMergeHandler creates a new merge handler
func NewMergeHandler(mergeService *service.MergeService) *MergeHandler {
	return &MergeHandler{mergeService: mergeService}
}

// SendMergeRequest proposes linking the actor's household with another
// parent's, addressed by email
func (h *MergeHandler) SendMergeRequest(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())

	var req struct {
		RecipientEmail string `json:"recipientEmail"`
		Message        string `json:"message"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	request, err := h.mergeService.SendMergeRequest(r.Context(), actor.ID, req.RecipientEmail, req.Message)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, request)
}

// ListMergeRequests returns requests the actor sent or received
func (h *MergeHandler) ListMergeRequests(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())

	requests, err := h.mergeService.ListMergeRequests(actor.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

// GetMergeRequest returns one merge request the actor participates in
func (h *MergeHandler) GetMergeRequest(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())

	request, err := h.mergeService.GetMergeRequest(r.PathValue("id"), actor.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, request)
}

type mergeResponseRequest struct {
	Message string `json:"message"`
}

// ApproveMergeRequest accepts a pending request and links the households
func (h *MergeHandler) ApproveMergeRequest(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())

	var req mergeResponseRequest
	if err := decodeJSONOptional(r, &req); err != nil {
		writeError(w, err)
		return
	}

	request, err := h.mergeService.ApproveMergeRequest(r.Context(), r.PathValue("id"), actor.ID, req.Message)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, request)
}

// RejectMergeRequest declines a pending request
func (h *MergeHandler) RejectMergeRequest(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())

	var req mergeResponseRequest
	if err := decodeJSONOptional(r, &req); err != nil {
		writeError(w, err)
		return
	}

	request, err := h.mergeService.RejectMergeRequest(r.Context(), r.PathValue("id"), actor.ID, req.Message)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, request)
}

// CancelMergeRequest withdraws a pending request the actor sent
func (h *MergeHandler) CancelMergeRequest(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())

	request, err := h.mergeService.CancelMergeRequest(r.PathValue("id"), actor.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, request)
}
