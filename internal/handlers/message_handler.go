package handlers

import (
	"net/http"

	"familyhub/internal/models"
	"familyhub/internal/service"
)

// MessageHandler handles family messaging endpoints
type MessageHandler struct {
	messageService *service.MessageService
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(messageService *service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// SendMessage sends a message from the authenticated account to another
// family member
func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())

	var req struct {
		Recipient      models.MemberRef `json:"recipient"`
		Subject        string           `json:"subject"`
		Body           string           `json:"body"`
		DeliveryMethod string           `json:"deliveryMethod"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.DeliveryMethod == "" {
		req.DeliveryMethod = models.DeliveryInApp
	}

	msg, err := h.messageService.SendMessage(r.Context(), actor, req.Recipient, req.Subject, req.Body, req.DeliveryMethod)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

// ListInbox returns messages addressed to the authenticated account
func (h *MessageHandler) ListInbox(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())

	msgs, err := h.messageService.ListInbox(actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

// ListSent returns messages the authenticated account sent
func (h *MessageHandler) ListSent(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())

	msgs, err := h.messageService.ListSent(actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

// MarkRead marks a received message as read
func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())

	msg, err := h.messageService.MarkRead(r.PathValue("id"), actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

// UnreadCount returns the number of unread messages in the inbox
func (h *MessageHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())

	count, err := h.messageService.UnreadCount(actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"unread": count})
}

// DeleteMessage soft-deletes a message the actor sent or received
func (h *MessageHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())

	if err := h.messageService.DeleteMessage(r.PathValue("id"), actor); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
