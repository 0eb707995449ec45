package service

import (
	"context"
	"fmt"
	"time"

	"familyhub/internal/database"
	"familyhub/internal/models"
	"familyhub/internal/notify"
	"familyhub/internal/repository"
	"familyhub/internal/security"
)

// InvitationService runs the parent-to-parent invitation workflow: a
// token-based, email-delivered offer to link two households
type InvitationService struct {
	db          *database.DB
	parents     *repository.ParentRepository
	invitations *repository.InvitationRepository
	dispatcher  *notify.Dispatcher
	appBaseURL  string
}

// NewInvitationService creates a new invitation service
func NewInvitationService(db *database.DB, parents *repository.ParentRepository, invitations *repository.InvitationRepository, dispatcher *notify.Dispatcher, appBaseURL string) *InvitationService {
	return &InvitationService{
		db:          db,
		parents:     parents,
		invitations: invitations,
		dispatcher:  dispatcher,
		appBaseURL:  appBaseURL,
	}
}

// AcceptResult is the outcome of accepting an invitation. When the invited
// email has no account yet, MustRegister is set and the client resumes the
// accept after signup using the carried token.
type AcceptResult struct {
	MustRegister bool               `json:"mustRegister"`
	Token        string             `json:"token,omitempty"`
	ProposedRole string             `json:"proposedRole,omitempty"`
	FamilyName   string             `json:"familyName,omitempty"`
	Invitation   *models.Invitation `json:"invitation,omitempty"`
}

// SendInvitation creates a pending invitation and emails the token link.
// Email delivery is best-effort: a send failure never fails the creation,
// the invitation stays visible in-app.
func (s *InvitationService) SendInvitation(ctx context.Context, inviterID, invitedEmail, proposedRole string) (*models.Invitation, error) {
	inviter, err := s.parents.GetParentByID(inviterID)
	if err != nil {
		return nil, err
	}
	if inviter == nil {
		return nil, NotFound("inviter not found")
	}
	if inviter.Email == invitedEmail {
		return nil, Validation("cannot invite yourself")
	}

	active, err := s.invitations.HasActivePending(inviterID, invitedEmail)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, Conflict("an invitation for this email is already pending")
	}

	token, err := security.GenerateToken()
	if err != nil {
		return nil, err
	}

	if proposedRole == "" {
		proposedRole = models.ParentRoleParent
	}

	inv, err := s.invitations.CreateInvitation(&models.Invitation{
		Token:        token,
		InviterID:    inviterID,
		InvitedEmail: invitedEmail,
		ProposedRole: proposedRole,
		FamilyName:   inviter.FamilyName,
		ExpiresAt:    time.Now().Add(models.InvitationExpiry),
	})
	if err != nil {
		return nil, err
	}

	link := fmt.Sprintf("%s/invitations/accept?token=%s", s.appBaseURL, token)
	subject := fmt.Sprintf("%s invited you to join the %s family", inviter.Name, inviter.FamilyName)
	text := fmt.Sprintf("%s has invited you to join the %s family on FamilyHub.\n\nAccept the invitation:\n%s\n\nThis invitation expires in 7 days.",
		inviter.Name, inviter.FamilyName, link)
	s.dispatcher.Notify(ctx, notify.Recipient{
		Email:      invitedEmail,
		Preference: models.NotifyEmail,
	}, subject, text, "")

	return inv, nil
}

// loadPending fetches an invitation by token, persisting lazy expiry: a
// stale pending invitation is marked expired before any further processing
func (s *InvitationService) loadPending(token string) (*models.Invitation, error) {
	inv, err := s.invitations.GetInvitationByToken(token)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, NotFound("invitation not found")
	}
	if inv.IsPending() && inv.IsExpired() {
		if err := s.invitations.MarkExpired(inv.ID); err != nil {
			return nil, err
		}
		return nil, Expired("invitation has expired")
	}
	if !inv.IsPending() {
		return nil, InvalidState(fmt.Sprintf("invitation is %s, not pending", inv.Status))
	}
	return inv, nil
}

// AcceptInvitation accepts a pending invitation. If no account exists for
// the invited email, the caller gets a must-register result instead of a
// placeholder account. Otherwise both households are linked symmetrically
// and the invited parent takes on the proposed role and family label.
func (s *InvitationService) AcceptInvitation(ctx context.Context, token string) (*AcceptResult, error) {
	inv, err := s.loadPending(token)
	if err != nil {
		return nil, err
	}

	invited, err := s.parents.GetParentByEmail(inv.InvitedEmail)
	if err != nil {
		return nil, err
	}
	if invited == nil {
		return &AcceptResult{
			MustRegister: true,
			Token:        inv.Token,
			ProposedRole: inv.ProposedRole,
			FamilyName:   inv.FamilyName,
		}, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	ok, err := s.invitations.MarkAccepted(tx, inv.ID, invited.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, InvalidState("invitation is no longer pending")
	}

	// Same symmetric, idempotent linking a merge approval performs
	if err := s.parents.AddFamilyMember(tx, inv.InviterID, invited.ID); err != nil {
		return nil, err
	}
	if err := s.parents.AddFamilyMember(tx, invited.ID, inv.InviterID); err != nil {
		return nil, err
	}

	// Role and family label land in the same unit as the accept itself:
	// a partial accept must not be observable
	if err := s.parents.SetRoleAndFamily(tx, invited.ID, inv.ProposedRole, inv.FamilyName); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit invitation accept: %w", err)
	}

	inviter, err := s.parents.GetParentByID(inv.InviterID)
	if err == nil && inviter != nil {
		subject := fmt.Sprintf("%s accepted your invitation", invited.Name)
		text := fmt.Sprintf("%s has joined the %s family.", invited.Name, inv.FamilyName)
		s.dispatcher.Notify(ctx, recipientForParent(inviter), subject, text, "")
	}

	accepted, err := s.invitations.GetInvitationByID(inv.ID)
	if err != nil {
		return nil, err
	}
	return &AcceptResult{Invitation: accepted}, nil
}

// DeclineInvitation declines a pending invitation
func (s *InvitationService) DeclineInvitation(token string) (*models.Invitation, error) {
	inv, err := s.loadPending(token)
	if err != nil {
		return nil, err
	}

	ok, err := s.invitations.TransitionStatus(s.db, inv.ID, models.InvitationStatusPending, models.InvitationStatusDeclined)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, InvalidState("invitation is no longer pending")
	}

	return s.invitations.GetInvitationByID(inv.ID)
}

// CancelInvitation hard-deletes a pending invitation. Only the inviter may
// cancel.
func (s *InvitationService) CancelInvitation(invitationID, inviterID string) error {
	inv, err := s.invitations.GetInvitationByID(invitationID)
	if err != nil {
		return err
	}
	if inv == nil {
		return NotFound("invitation not found")
	}
	if inv.InviterID != inviterID {
		return Forbidden("only the inviter can cancel an invitation")
	}
	if !inv.IsPending() {
		return InvalidState(fmt.Sprintf("invitation is %s, not pending", inv.Status))
	}

	ok, err := s.invitations.DeletePendingInvitation(invitationID)
	if err != nil {
		return err
	}
	if !ok {
		return InvalidState("invitation is no longer pending")
	}
	return nil
}

// ListSentInvitations retrieves the invitations a parent has sent
func (s *InvitationService) ListSentInvitations(inviterID string) ([]models.Invitation, error) {
	return s.invitations.ListInvitationsByInviter(inviterID)
}

// ListReceivedInvitations retrieves the invitations addressed to an email
func (s *InvitationService) ListReceivedInvitations(email string) ([]models.Invitation, error) {
	return s.invitations.ListInvitationsByEmail(email)
}
