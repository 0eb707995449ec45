package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"familyhub/internal/models"
	"familyhub/internal/notify"
	"familyhub/internal/repository"
	"familyhub/internal/security"
	"familyhub/internal/validation"
)

// TeenInvitationService runs the code-based workflow for minors joining a
// household: a parent issues a 6-digit code, the minor verifies it, then
// registers a dependent account
type TeenInvitationService struct {
	parents     *repository.ParentRepository
	teens       *repository.TeenRepository
	invitations *repository.TeenInvitationRepository
	dispatcher  *notify.Dispatcher
}

// NewTeenInvitationService creates a new teen invitation service
func NewTeenInvitationService(parents *repository.ParentRepository, teens *repository.TeenRepository, invitations *repository.TeenInvitationRepository, dispatcher *notify.Dispatcher) *TeenInvitationService {
	return &TeenInvitationService{
		parents:     parents,
		teens:       teens,
		invitations: invitations,
		dispatcher:  dispatcher,
	}
}

// SendTeenInvitation issues a code invitation and delivers the code to the
// minor's email and/or phone
func (s *TeenInvitationService) SendTeenInvitation(ctx context.Context, parentID, name, email, phone, accountRole string) (*models.TeenInvitation, error) {
	parent, err := s.parents.GetParentByID(parentID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, NotFound("parent not found")
	}

	switch accountRole {
	case models.AccountRoleChild, models.AccountRoleTeen, models.AccountRoleYoungAdult:
	default:
		return nil, Validation("account role must be child, teen, or young-adult")
	}
	if email == "" && phone == "" {
		return nil, Validation("an email or phone number is required")
	}
	if email != "" {
		if err := validation.ValidateEmail(email); err != nil {
			return nil, Validation(err.Error())
		}
	}

	code, err := security.GenerateCode()
	if err != nil {
		return nil, err
	}

	inv, err := s.invitations.CreateTeenInvitation(&models.TeenInvitation{
		ParentID:    parentID,
		Code:        code,
		Name:        name,
		Email:       email,
		Phone:       phone,
		AccountRole: accountRole,
		ExpiresAt:   time.Now().Add(models.TeenInvitationExpiry),
	})
	if err != nil {
		return nil, err
	}

	s.deliverCode(ctx, inv, parent)

	return inv, nil
}

func (s *TeenInvitationService) deliverCode(ctx context.Context, inv *models.TeenInvitation, parent *models.Parent) {
	pref := models.NotifyBoth
	if inv.Email == "" {
		pref = models.NotifySMS
	} else if inv.Phone == "" {
		pref = models.NotifyEmail
	}

	subject := fmt.Sprintf("Your %s family invitation code", parent.FamilyName)
	text := fmt.Sprintf("%s invited you to join the %s family on FamilyHub.\n\nYour verification code is: %s\n\nThe code expires in 30 minutes.",
		parent.Name, parent.FamilyName, inv.Code)
	s.dispatcher.Notify(ctx, notify.Recipient{
		Name:       inv.Name,
		Email:      inv.Email,
		Phone:      inv.Phone,
		Preference: pref,
	}, subject, text, "")
}

// activeInvitationForContact loads the newest live invitation for a contact.
// When none is live, the newest invitation of any status decides the error:
// a consumed code reports the conflict instead of hiding as not-found.
func (s *TeenInvitationService) activeInvitationForContact(contact string) (*models.TeenInvitation, error) {
	inv, err := s.invitations.GetActiveByContact(contact)
	if err != nil {
		return nil, err
	}
	if inv != nil {
		return inv, nil
	}

	latest, err := s.invitations.GetLatestByContact(contact)
	if err != nil {
		return nil, err
	}
	if latest != nil && latest.Status == models.TeenInvitationStatusUsed {
		return nil, Conflict("invitation code has already been used")
	}
	return nil, NotFound("no active invitation for this contact")
}

// VerifyCode checks a submitted code against the active invitation for the
// contact. Every guess consumes an attempt, persisted before comparison, so
// repeated wrong guesses are rate-limited even across failures.
func (s *TeenInvitationService) VerifyCode(contact, code string) (*models.TeenInvitation, error) {
	inv, err := s.activeInvitationForContact(contact)
	if err != nil {
		return nil, err
	}

	if inv.IsExpired() {
		if err := s.invitations.MarkExpired(inv.ID); err != nil {
			return nil, err
		}
		return nil, Expired("verification code has expired")
	}

	if inv.Status == models.TeenInvitationStatusVerified {
		return nil, InvalidState("code has already been verified")
	}

	if inv.AttemptsExhausted() {
		if err := s.invitations.MarkExpired(inv.ID); err != nil {
			return nil, err
		}
		return nil, RateLimited("maximum verification attempts exceeded")
	}

	if err := s.invitations.IncrementAttempts(inv.ID); err != nil {
		return nil, err
	}

	if subtle.ConstantTimeCompare([]byte(inv.Code), []byte(code)) != 1 {
		return nil, Validation("invalid verification code")
	}

	ok, err := s.invitations.MarkVerified(inv.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, InvalidState("invitation is no longer pending")
	}

	return s.invitations.GetTeenInvitationByID(inv.ID)
}

// RegisterTeen creates the dependent account from a verified invitation.
// The applicant's age must fall inside the bracket the invitation declared;
// a mismatch is a hard error, never silently corrected.
func (s *TeenInvitationService) RegisterTeen(ctx context.Context, contact, code, name, email, password string, age int) (*models.Teen, error) {
	inv, err := s.activeInvitationForContact(contact)
	if err != nil {
		return nil, err
	}
	if inv.Status != models.TeenInvitationStatusVerified {
		return nil, InvalidState("invitation code has not been verified")
	}
	if subtle.ConstantTimeCompare([]byte(inv.Code), []byte(code)) != 1 {
		return nil, Validation("invalid verification code")
	}
	if inv.IsExpired() {
		if err := s.invitations.MarkExpired(inv.ID); err != nil {
			return nil, err
		}
		return nil, Expired("invitation has expired")
	}

	if err := validation.ValidateAgeForRole(age, inv.AccountRole); err != nil {
		return nil, Validation(err.Error())
	}
	if err := validation.ValidateName(name); err != nil {
		return nil, Validation(err.Error())
	}
	if email == "" {
		email = inv.Email
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, Validation(err.Error())
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, Validation(err.Error())
	}

	existing, err := s.teens.GetTeenByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, Conflict("an account with this email already exists")
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, err
	}

	// One-time use: the conditional update stops two racing registrations
	// from both consuming the same code
	ok, err := s.invitations.TransitionStatus(inv.ID, models.TeenInvitationStatusVerified, models.TeenInvitationStatusUsed)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, InvalidState("invitation has already been used")
	}

	teen, err := s.teens.CreateTeen(&models.Teen{
		ParentID:     inv.ParentID,
		Name:         name,
		Email:        email,
		Phone:        inv.Phone,
		PasswordHash: hash,
		AccountRole:  inv.AccountRole,
		Age:          age,
	})
	if err != nil {
		return nil, err
	}

	parent, perr := s.parents.GetParentByID(inv.ParentID)
	if perr == nil && parent != nil {
		subject := fmt.Sprintf("%s joined your family", teen.Name)
		text := fmt.Sprintf("%s has created their account and joined the %s family.", teen.Name, parent.FamilyName)
		s.dispatcher.Notify(ctx, recipientForParent(parent), subject, text, "")
	}

	return teen, nil
}

// ResendCode regenerates the code on an invitation the parent issued:
// fresh code, attempts back to zero, status back to pending, expiry extended
func (s *TeenInvitationService) ResendCode(ctx context.Context, invitationID, parentID string) (*models.TeenInvitation, error) {
	inv, err := s.invitations.GetTeenInvitationByID(invitationID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, NotFound("invitation not found")
	}
	if inv.ParentID != parentID {
		return nil, Forbidden("only the issuing parent can resend an invitation")
	}
	if inv.Status == models.TeenInvitationStatusUsed {
		return nil, InvalidState("invitation has already been used")
	}

	code, err := security.GenerateCode()
	if err != nil {
		return nil, err
	}
	if err := s.invitations.Regenerate(invitationID, code, time.Now().Add(models.TeenInvitationExpiry)); err != nil {
		return nil, err
	}

	fresh, err := s.invitations.GetTeenInvitationByID(invitationID)
	if err != nil {
		return nil, err
	}

	parent, perr := s.parents.GetParentByID(parentID)
	if perr == nil && parent != nil {
		s.deliverCode(ctx, fresh, parent)
	}

	return fresh, nil
}

// CancelTeenInvitation removes an invitation the parent issued
func (s *TeenInvitationService) CancelTeenInvitation(invitationID, parentID string) error {
	inv, err := s.invitations.GetTeenInvitationByID(invitationID)
	if err != nil {
		return err
	}
	if inv == nil {
		return NotFound("invitation not found")
	}
	if inv.ParentID != parentID {
		return Forbidden("only the issuing parent can cancel an invitation")
	}
	if inv.Status == models.TeenInvitationStatusUsed {
		return InvalidState("invitation has already been used")
	}

	return s.invitations.DeleteTeenInvitation(invitationID)
}

// ListTeenInvitations retrieves the code invitations a parent issued
func (s *TeenInvitationService) ListTeenInvitations(parentID string) ([]models.TeenInvitation, error) {
	return s.invitations.ListTeenInvitationsByParent(parentID)
}
