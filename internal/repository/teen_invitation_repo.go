package repository

import (
	"database/sql"
	"fmt"
	"time"

	"familyhub/internal/database"
	"familyhub/internal/models"

	"github.com/google/uuid"
)

// TeenInvitationRepository handles database operations for code-based
// minor-account invitations
type TeenInvitationRepository struct {
	db *database.DB
}

// NewTeenInvitationRepository creates a new teen invitation repository
func NewTeenInvitationRepository(db *database.DB) *TeenInvitationRepository {
	return &TeenInvitationRepository{db: db}
}

const teenInvitationColumns = `id, parent_id, code, name, email, phone, account_role, status, attempt_count, max_attempts, expires_at, verified_at, created_at, updated_at`

// CreateTeenInvitation inserts a new pending code invitation
func (r *TeenInvitationRepository) CreateTeenInvitation(inv *models.TeenInvitation) (*models.TeenInvitation, error) {
	now := time.Now()
	inv.ID = uuid.NewString()
	inv.Status = models.TeenInvitationStatusPending
	inv.MaxAttempts = models.TeenInvitationMaxAttempts
	inv.CreatedAt = now
	inv.UpdatedAt = now

	query := `
		INSERT INTO teen_invitations (id, parent_id, code, name, email, phone, account_role, status, attempt_count, max_attempts, expires_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query,
		inv.ID, inv.ParentID, inv.Code, inv.Name, inv.Email, inv.Phone, inv.AccountRole,
		inv.Status, inv.AttemptCount, inv.MaxAttempts, inv.ExpiresAt, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create teen invitation: %w", err)
	}

	return inv, nil
}

func scanTeenInvitation(row *sql.Row) (*models.TeenInvitation, error) {
	inv := &models.TeenInvitation{}
	err := row.Scan(
		&inv.ID, &inv.ParentID, &inv.Code, &inv.Name, &inv.Email, &inv.Phone,
		&inv.AccountRole, &inv.Status, &inv.AttemptCount, &inv.MaxAttempts,
		&inv.ExpiresAt, &inv.VerifiedAt, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get teen invitation: %w", err)
	}
	return inv, nil
}

// GetTeenInvitationByID retrieves a teen invitation by ID
func (r *TeenInvitationRepository) GetTeenInvitationByID(id string) (*models.TeenInvitation, error) {
	query := `SELECT ` + teenInvitationColumns + ` FROM teen_invitations WHERE id = ?`
	return scanTeenInvitation(r.db.QueryRow(query, id))
}

// GetActiveByContact retrieves the most recent non-terminal invitation for
// an email or phone. Verification looks invitations up by contact, then
// compares the submitted code against the stored one.
func (r *TeenInvitationRepository) GetActiveByContact(contact string) (*models.TeenInvitation, error) {
	query := `
		SELECT ` + teenInvitationColumns + `
		FROM teen_invitations
		WHERE (email = ? OR phone = ?) AND status IN (?, ?)
		ORDER BY created_at DESC
		LIMIT 1
	`
	return scanTeenInvitation(r.db.QueryRow(query, contact, contact,
		models.TeenInvitationStatusPending, models.TeenInvitationStatusVerified))
}

// GetLatestByContact retrieves the most recent invitation for an email or
// phone regardless of status. Used to report why no active invitation exists
// for a contact that did have one.
func (r *TeenInvitationRepository) GetLatestByContact(contact string) (*models.TeenInvitation, error) {
	query := `
		SELECT ` + teenInvitationColumns + `
		FROM teen_invitations
		WHERE email = ? OR phone = ?
		ORDER BY created_at DESC
		LIMIT 1
	`
	return scanTeenInvitation(r.db.QueryRow(query, contact, contact))
}

// IncrementAttempts persists a consumed verification attempt. Failed guesses
// count even when the operation later errors, which is what rate-limits
// brute-forcing the code.
func (r *TeenInvitationRepository) IncrementAttempts(id string) error {
	query := `UPDATE teen_invitations SET attempt_count = attempt_count + 1, updated_at = ? WHERE id = ?`
	_, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to increment attempts: %w", err)
	}
	return nil
}

// TransitionStatus atomically moves an invitation from one status to another.
// Returns false when the invitation was not in the expected status.
func (r *TeenInvitationRepository) TransitionStatus(id, fromStatus, toStatus string) (bool, error) {
	query := `UPDATE teen_invitations SET status = ?, updated_at = ? WHERE id = ? AND status = ?`
	result, err := r.db.Exec(query, toStatus, time.Now(), id, fromStatus)
	if err != nil {
		return false, fmt.Errorf("failed to transition teen invitation: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return affected == 1, nil
}

// MarkVerified atomically moves a pending invitation to verified, stamping
// the verification time
func (r *TeenInvitationRepository) MarkVerified(id string) (bool, error) {
	query := `
		UPDATE teen_invitations
		SET status = ?, verified_at = ?, updated_at = ?
		WHERE id = ? AND status = ?
	`
	now := time.Now()
	result, err := r.db.Exec(query, models.TeenInvitationStatusVerified, now, now, id, models.TeenInvitationStatusPending)
	if err != nil {
		return false, fmt.Errorf("failed to verify teen invitation: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return affected == 1, nil
}

// MarkExpired persists expiry regardless of current non-terminal status
func (r *TeenInvitationRepository) MarkExpired(id string) error {
	query := `UPDATE teen_invitations SET status = ?, updated_at = ? WHERE id = ? AND status IN (?, ?)`
	_, err := r.db.Exec(query, models.TeenInvitationStatusExpired, time.Now(), id,
		models.TeenInvitationStatusPending, models.TeenInvitationStatusVerified)
	if err != nil {
		return fmt.Errorf("failed to expire teen invitation: %w", err)
	}
	return nil
}

// Regenerate resets an invitation with a fresh code: attempts back to zero,
// status back to pending, expiry extended
func (r *TeenInvitationRepository) Regenerate(id, code string, expiresAt time.Time) error {
	query := `
		UPDATE teen_invitations
		SET code = ?, attempt_count = 0, status = ?, expires_at = ?, verified_at = NULL, updated_at = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(query, code, models.TeenInvitationStatusPending, expiresAt, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to regenerate teen invitation: %w", err)
	}
	return nil
}

// ListTeenInvitationsByParent retrieves all code invitations a parent issued
func (r *TeenInvitationRepository) ListTeenInvitationsByParent(parentID string) ([]models.TeenInvitation, error) {
	query := `SELECT ` + teenInvitationColumns + ` FROM teen_invitations WHERE parent_id = ? ORDER BY created_at DESC`
	rows, err := r.db.Query(query, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teen invitations: %w", err)
	}
	defer rows.Close()

	var invitations []models.TeenInvitation
	for rows.Next() {
		var inv models.TeenInvitation
		err := rows.Scan(
			&inv.ID, &inv.ParentID, &inv.Code, &inv.Name, &inv.Email, &inv.Phone,
			&inv.AccountRole, &inv.Status, &inv.AttemptCount, &inv.MaxAttempts,
			&inv.ExpiresAt, &inv.VerifiedAt, &inv.CreatedAt, &inv.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		invitations = append(invitations, inv)
	}

	return invitations, rows.Err()
}

// DeleteTeenInvitation removes a code invitation
func (r *TeenInvitationRepository) DeleteTeenInvitation(id string) error {
	query := `DELETE FROM teen_invitations WHERE id = ?`
	_, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete teen invitation: %w", err)
	}
	return nil
}
