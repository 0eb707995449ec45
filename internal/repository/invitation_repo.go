package repository

import (
	"database/sql"
	"fmt"
	"time"

	"familyhub/internal/database"
	"familyhub/internal/models"

	"github.com/google/uuid"
)

// InvitationRepository handles database operations for parent-to-parent
// invitations
type InvitationRepository struct {
	db *database.DB
}

// NewInvitationRepository creates a new invitation repository
func NewInvitationRepository(db *database.DB) *InvitationRepository {
	return &InvitationRepository{db: db}
}

// CreateInvitation inserts a new pending invitation
func (r *InvitationRepository) CreateInvitation(inv *models.Invitation) (*models.Invitation, error) {
	now := time.Now()
	inv.ID = uuid.NewString()
	inv.Status = models.InvitationStatusPending
	inv.CreatedAt = now
	inv.UpdatedAt = now

	query := `
		INSERT INTO invitations (id, token, inviter_id, invited_email, proposed_role, family_name, status, expires_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query,
		inv.ID, inv.Token, inv.InviterID, inv.InvitedEmail, inv.ProposedRole,
		inv.FamilyName, inv.Status, inv.ExpiresAt, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}

	return inv, nil
}

const invitationColumns = `i.id, i.token, i.inviter_id, i.invited_email, i.proposed_role, i.family_name, i.status, i.expires_at, i.accepted_at, i.accepted_by, i.created_at, i.updated_at, COALESCE(p.name, '')`

func scanInvitationRow(scan func(dest ...interface{}) error) (*models.Invitation, error) {
	inv := &models.Invitation{}
	err := scan(
		&inv.ID, &inv.Token, &inv.InviterID, &inv.InvitedEmail, &inv.ProposedRole,
		&inv.FamilyName, &inv.Status, &inv.ExpiresAt, &inv.AcceptedAt, &inv.AcceptedBy,
		&inv.CreatedAt, &inv.UpdatedAt, &inv.InviterName,
	)
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// GetInvitationByToken retrieves an invitation by its token
func (r *InvitationRepository) GetInvitationByToken(token string) (*models.Invitation, error) {
	query := `
		SELECT ` + invitationColumns + `
		FROM invitations i
		LEFT JOIN parents p ON i.inviter_id = p.id
		WHERE i.token = ?
	`
	inv, err := scanInvitationRow(r.db.QueryRow(query, token).Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}
	return inv, nil
}

// GetInvitationByID retrieves an invitation by ID
func (r *InvitationRepository) GetInvitationByID(id string) (*models.Invitation, error) {
	query := `
		SELECT ` + invitationColumns + `
		FROM invitations i
		LEFT JOIN parents p ON i.inviter_id = p.id
		WHERE i.id = ?
	`
	inv, err := scanInvitationRow(r.db.QueryRow(query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}
	return inv, nil
}

// HasActivePending reports whether a non-expired pending invitation already
// exists for the inviter and email
func (r *InvitationRepository) HasActivePending(inviterID, invitedEmail string) (bool, error) {
	query := `
		SELECT COUNT(*) FROM invitations
		WHERE inviter_id = ? AND invited_email = ? AND status = ? AND expires_at > ?
	`
	var count int
	err := r.db.QueryRow(query, inviterID, invitedEmail, models.InvitationStatusPending, time.Now()).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check pending invitations: %w", err)
	}
	return count > 0, nil
}

// TransitionStatus atomically moves an invitation from one status to another.
// Returns false when the invitation was not in the expected status.
func (r *InvitationRepository) TransitionStatus(tx database.DBTX, id, fromStatus, toStatus string) (bool, error) {
	query := `UPDATE invitations SET status = ?, updated_at = ? WHERE id = ? AND status = ?`
	result, err := tx.Exec(query, toStatus, time.Now(), id, fromStatus)
	if err != nil {
		return false, fmt.Errorf("failed to transition invitation: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return affected == 1, nil
}

// MarkAccepted atomically accepts a pending invitation, stamping who
// accepted it and when
func (r *InvitationRepository) MarkAccepted(tx database.DBTX, id, acceptedBy string) (bool, error) {
	query := `
		UPDATE invitations
		SET status = ?, accepted_at = ?, accepted_by = ?, updated_at = ?
		WHERE id = ? AND status = ?
	`
	now := time.Now()
	result, err := tx.Exec(query, models.InvitationStatusAccepted, now, acceptedBy, now, id, models.InvitationStatusPending)
	if err != nil {
		return false, fmt.Errorf("failed to accept invitation: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return affected == 1, nil
}

// MarkExpired persists lazy-expiry detection so later reads agree
func (r *InvitationRepository) MarkExpired(id string) error {
	query := `UPDATE invitations SET status = ?, updated_at = ? WHERE id = ? AND status = ?`
	_, err := r.db.Exec(query, models.InvitationStatusExpired, time.Now(), id, models.InvitationStatusPending)
	if err != nil {
		return fmt.Errorf("failed to expire invitation: %w", err)
	}
	return nil
}

// ListInvitationsByInviter retrieves all invitations sent by a parent
func (r *InvitationRepository) ListInvitationsByInviter(inviterID string) ([]models.Invitation, error) {
	query := `
		SELECT ` + invitationColumns + `
		FROM invitations i
		LEFT JOIN parents p ON i.inviter_id = p.id
		WHERE i.inviter_id = ?
		ORDER BY i.created_at DESC
	`
	return r.listInvitations(query, inviterID)
}

// ListInvitationsByEmail retrieves all invitations addressed to an email
func (r *InvitationRepository) ListInvitationsByEmail(email string) ([]models.Invitation, error) {
	query := `
		SELECT ` + invitationColumns + `
		FROM invitations i
		LEFT JOIN parents p ON i.inviter_id = p.id
		WHERE i.invited_email = ?
		ORDER BY i.created_at DESC
	`
	return r.listInvitations(query, email)
}

func (r *InvitationRepository) listInvitations(query string, args ...interface{}) ([]models.Invitation, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	defer rows.Close()

	var invitations []models.Invitation
	for rows.Next() {
		inv, err := scanInvitationRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		invitations = append(invitations, *inv)
	}

	return invitations, rows.Err()
}

// DeletePendingInvitation hard-deletes an invitation only while it is still
// pending. Returns false when the invitation had already left the pending
// status.
func (r *InvitationRepository) DeletePendingInvitation(id string) (bool, error) {
	query := `DELETE FROM invitations WHERE id = ? AND status = ?`
	result, err := r.db.Exec(query, id, models.InvitationStatusPending)
	if err != nil {
		return false, fmt.Errorf("failed to delete invitation: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return affected == 1, nil
}
