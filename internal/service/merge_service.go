package service

import (
	"context"
	"fmt"

	"familyhub/internal/database"
	"familyhub/internal/models"
	"familyhub/internal/notify"
	"familyhub/internal/repository"
)

// MergeService runs the household merge workflow: a directed request from
// one parent to another that, on approval, links the two households
// symmetrically
type MergeService struct {
	db         *database.DB
	parents    *repository.ParentRepository
	children   *repository.ChildRepository
	events     *repository.EventRepository
	requests   *repository.MergeRequestRepository
	dispatcher *notify.Dispatcher
}

// NewMergeService creates a new merge service
func NewMergeService(db *database.DB, parents *repository.ParentRepository, children *repository.ChildRepository, events *repository.EventRepository, requests *repository.MergeRequestRepository, dispatcher *notify.Dispatcher) *MergeService {
	return &MergeService{
		db:         db,
		parents:    parents,
		children:   children,
		events:     events,
		requests:   requests,
		dispatcher: dispatcher,
	}
}

// SendMergeRequest creates a pending merge request from the requester to
// the parent registered under the recipient email
func (s *MergeService) SendMergeRequest(ctx context.Context, requesterID, recipientEmail, message string) (*models.MergeRequest, error) {
	requester, err := s.parents.GetParentByID(requesterID)
	if err != nil {
		return nil, err
	}
	if requester == nil {
		return nil, NotFound("requester not found")
	}
	if requester.Email == recipientEmail {
		return nil, Validation("cannot send a merge request to yourself")
	}

	recipient, err := s.parents.GetParentByEmail(recipientEmail)
	if err != nil {
		return nil, err
	}
	if recipient == nil {
		return nil, NotFound("no parent account found for that email")
	}

	pending, err := s.requests.HasPendingBetween(requesterID, recipient.ID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, Conflict("a merge request between these families is already pending")
	}

	merged, err := s.requests.HasCompletedBetween(requesterID, recipient.ID)
	if err != nil {
		return nil, err
	}
	if merged {
		return nil, Conflict("these families are already merged")
	}

	req, err := s.requests.CreateMergeRequest(requesterID, recipient.ID, message)
	if err != nil {
		return nil, err
	}

	subject := fmt.Sprintf("%s wants to merge families", requester.Name)
	text := fmt.Sprintf("%s (family %s) has asked to merge families with you.", requester.Name, requester.FamilyName)
	if message != "" {
		text += "\n\nMessage: " + message
	}
	s.dispatcher.Notify(ctx, recipientForParent(recipient), subject, text, "")

	return req, nil
}

// ApproveMergeRequest approves a pending request as its recipient and runs
// the merge. The status transition, family linking, and audit record commit
// as one unit: a failed merge rolls the approval back.
func (s *MergeService) ApproveMergeRequest(ctx context.Context, requestID, recipientID, responseMessage string) (*models.MergeRequest, error) {
	req, err := s.requests.GetMergeRequestByID(requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, NotFound("merge request not found")
	}
	if req.RecipientID != recipientID {
		return nil, Forbidden("only the recipient can approve a merge request")
	}
	if !req.IsPending() {
		return nil, InvalidState(fmt.Sprintf("merge request is %s, not pending", req.Status))
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Conditional update serializes racing approvals: the loser sees zero
	// rows affected and backs off
	ok, err := s.requests.TransitionStatus(tx, requestID, models.MergeStatusPending, models.MergeStatusApproved, responseMessage)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, InvalidState("merge request is no longer pending")
	}

	result, err := s.mergeFamilies(tx, req.RequesterID, req.RecipientID)
	if err != nil {
		return nil, err
	}

	if err := s.requests.MarkCompleted(tx, requestID, result); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit merge: %w", err)
	}

	requester, err := s.parents.GetParentByID(req.RequesterID)
	if err == nil && requester != nil {
		recipient, _ := s.parents.GetParentByID(recipientID)
		recipientName := "the other family"
		if recipient != nil {
			recipientName = recipient.Name
		}
		subject := "Your merge request was approved"
		text := fmt.Sprintf("%s approved your merge request. %d children and %d events are now shared.",
			recipientName, len(result.ChildIDs), len(result.EventIDs))
		if responseMessage != "" {
			text += "\n\nMessage: " + responseMessage
		}
		s.dispatcher.Notify(ctx, recipientForParent(requester), subject, text, "")
	}

	return s.requests.GetMergeRequestByID(requestID)
}

// mergeFamilies symmetrically and idempotently links two households:
// each parent gains the other as a family member, and each parent becomes
// a co-parent of the other's children. Returns the affected child and
// event IDs for audit.
func (s *MergeService) mergeFamilies(tx database.DBTX, parentA, parentB string) (models.MergeResult, error) {
	var result models.MergeResult

	if err := s.parents.AddFamilyMember(tx, parentA, parentB); err != nil {
		return result, err
	}
	if err := s.parents.AddFamilyMember(tx, parentB, parentA); err != nil {
		return result, err
	}

	childrenA, err := s.children.ListChildIDsByFamily(tx, parentA)
	if err != nil {
		return result, err
	}
	for _, childID := range childrenA {
		if err := s.children.AddCoParent(tx, childID, parentB); err != nil {
			return result, err
		}
		result.ChildIDs = append(result.ChildIDs, childID)
	}

	childrenB, err := s.children.ListChildIDsByFamily(tx, parentB)
	if err != nil {
		return result, err
	}
	for _, childID := range childrenB {
		if err := s.children.AddCoParent(tx, childID, parentA); err != nil {
			return result, err
		}
		result.ChildIDs = append(result.ChildIDs, childID)
	}

	eventsA, err := s.events.ListEventIDsByCreator(tx, parentA)
	if err != nil {
		return result, err
	}
	result.EventIDs = append(result.EventIDs, eventsA...)

	eventsB, err := s.events.ListEventIDsByCreator(tx, parentB)
	if err != nil {
		return result, err
	}
	result.EventIDs = append(result.EventIDs, eventsB...)

	return result, nil
}

// RejectMergeRequest rejects a pending request as its recipient
func (s *MergeService) RejectMergeRequest(ctx context.Context, requestID, recipientID, responseMessage string) (*models.MergeRequest, error) {
	req, err := s.requests.GetMergeRequestByID(requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, NotFound("merge request not found")
	}
	if req.RecipientID != recipientID {
		return nil, Forbidden("only the recipient can reject a merge request")
	}
	if !req.IsPending() {
		return nil, InvalidState(fmt.Sprintf("merge request is %s, not pending", req.Status))
	}

	ok, err := s.requests.TransitionStatus(s.db, requestID, models.MergeStatusPending, models.MergeStatusRejected, responseMessage)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, InvalidState("merge request is no longer pending")
	}

	requester, err := s.parents.GetParentByID(req.RequesterID)
	if err == nil && requester != nil {
		subject := "Your merge request was declined"
		text := "Your request to merge families was declined."
		if responseMessage != "" {
			text += "\n\nMessage: " + responseMessage
		}
		s.dispatcher.Notify(ctx, recipientForParent(requester), subject, text, "")
	}

	return s.requests.GetMergeRequestByID(requestID)
}

// CancelMergeRequest withdraws a pending request as its requester.
// No notification goes out.
func (s *MergeService) CancelMergeRequest(requestID, requesterID string) (*models.MergeRequest, error) {
	req, err := s.requests.GetMergeRequestByID(requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, NotFound("merge request not found")
	}
	if req.RequesterID != requesterID {
		return nil, Forbidden("only the requester can cancel a merge request")
	}
	if !req.IsPending() {
		return nil, InvalidState(fmt.Sprintf("merge request is %s, not pending", req.Status))
	}

	ok, err := s.requests.TransitionStatus(s.db, requestID, models.MergeStatusPending, models.MergeStatusCancelled, "")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, InvalidState("merge request is no longer pending")
	}

	return s.requests.GetMergeRequestByID(requestID)
}

// GetMergeRequest retrieves a request visible to either side
func (s *MergeService) GetMergeRequest(requestID, actorParentID string) (*models.MergeRequest, error) {
	req, err := s.requests.GetMergeRequestByID(requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, NotFound("merge request not found")
	}
	if req.RequesterID != actorParentID && req.RecipientID != actorParentID {
		return nil, Forbidden("merge request belongs to another family")
	}
	return req, nil
}

// ListMergeRequests retrieves the requests the actor sent or received
func (s *MergeService) ListMergeRequests(actorParentID string) ([]models.MergeRequest, error) {
	return s.requests.ListMergeRequestsForParent(actorParentID)
}

// recipientForParent builds a notification target from a parent's stored
// contact details and preference
func recipientForParent(p *models.Parent) notify.Recipient {
	return notify.Recipient{
		Name:       p.Name,
		Email:      p.Email,
		Phone:      p.Phone,
		Preference: p.NotificationPreference,
	}
}
