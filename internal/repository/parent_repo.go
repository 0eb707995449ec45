package repository

import (
	"database/sql"
	"fmt"
	"time"

	"familyhub/internal/database"
	"familyhub/internal/models"

	"github.com/google/uuid"
)

// ParentRepository handles database operations for parent accounts and
// their household links
type ParentRepository struct {
	db *database.DB
}

// NewParentRepository creates a new parent repository
func NewParentRepository(db *database.DB) *ParentRepository {
	return &ParentRepository{db: db}
}

// CreateParent inserts a new parent account
func (r *ParentRepository) CreateParent(p *models.Parent) (*models.Parent, error) {
	now := time.Now()
	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Role == "" {
		p.Role = models.RoleParent
	}
	if p.ParentRole == "" {
		p.ParentRole = models.ParentRoleParent
	}
	if p.NotificationPreference == "" {
		p.NotificationPreference = models.NotifyEmail
	}

	query := `
		INSERT INTO parents (id, name, email, family_name, phone, password_hash, google_id, role, parent_role, notification_preference, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query,
		p.ID, p.Name, p.Email, p.FamilyName, p.Phone, p.PasswordHash, p.GoogleID,
		p.Role, p.ParentRole, p.NotificationPreference, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create parent: %w", err)
	}

	return p, nil
}

const parentColumns = `id, name, email, family_name, phone, password_hash, google_id, role, parent_role, notification_preference, created_at, updated_at`

func scanParent(row *sql.Row) (*models.Parent, error) {
	p := &models.Parent{}
	err := row.Scan(
		&p.ID, &p.Name, &p.Email, &p.FamilyName, &p.Phone, &p.PasswordHash,
		&p.GoogleID, &p.Role, &p.ParentRole, &p.NotificationPreference,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get parent: %w", err)
	}
	return p, nil
}

// GetParentByID retrieves a parent with its family-member links loaded
func (r *ParentRepository) GetParentByID(id string) (*models.Parent, error) {
	query := `SELECT ` + parentColumns + ` FROM parents WHERE id = ?`
	p, err := scanParent(r.db.QueryRow(query, id))
	if err != nil || p == nil {
		return p, err
	}

	members, err := r.GetFamilyMemberIDs(id)
	if err != nil {
		return nil, err
	}
	p.FamilyMembers = members

	return p, nil
}

// GetParentByEmail retrieves a parent by email address
func (r *ParentRepository) GetParentByEmail(email string) (*models.Parent, error) {
	query := `SELECT ` + parentColumns + ` FROM parents WHERE email = ?`
	p, err := scanParent(r.db.QueryRow(query, email))
	if err != nil || p == nil {
		return p, err
	}

	members, err := r.GetFamilyMemberIDs(p.ID)
	if err != nil {
		return nil, err
	}
	p.FamilyMembers = members

	return p, nil
}

// GetParentByGoogleID retrieves a parent by external-auth identity
func (r *ParentRepository) GetParentByGoogleID(googleID string) (*models.Parent, error) {
	query := `SELECT ` + parentColumns + ` FROM parents WHERE google_id = ?`
	return scanParent(r.db.QueryRow(query, googleID))
}

// UpdateProfile updates the editable identity fields of a parent
func (r *ParentRepository) UpdateProfile(p *models.Parent) error {
	query := `
		UPDATE parents
		SET name = ?, family_name = ?, phone = ?, parent_role = ?, notification_preference = ?, updated_at = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(query, p.Name, p.FamilyName, p.Phone, p.ParentRole, p.NotificationPreference, time.Now(), p.ID)
	if err != nil {
		return fmt.Errorf("failed to update parent: %w", err)
	}
	return nil
}

// UpdatePassword replaces the stored password hash
func (r *ParentRepository) UpdatePassword(id, passwordHash string) error {
	query := `UPDATE parents SET password_hash = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.Exec(query, passwordHash, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// SetRoleAndFamily applies the role and family label an invitation proposed
func (r *ParentRepository) SetRoleAndFamily(tx database.DBTX, id, parentRole, familyName string) error {
	query := `UPDATE parents SET parent_role = ?, family_name = ?, updated_at = ? WHERE id = ?`
	_, err := tx.Exec(query, parentRole, familyName, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update parent role: %w", err)
	}
	return nil
}

// GetFamilyMemberIDs returns the parent IDs of households linked to the
// given parent
func (r *ParentRepository) GetFamilyMemberIDs(parentID string) ([]string, error) {
	query := `SELECT member_id FROM family_members WHERE parent_id = ?`
	rows, err := r.db.Query(query, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get family members: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// AddFamilyMember links one household to another in a single direction.
// Idempotent: linking an already-linked pair is a no-op.
func (r *ParentRepository) AddFamilyMember(tx database.DBTX, parentID, memberID string) error {
	var count int
	check := `SELECT COUNT(*) FROM family_members WHERE parent_id = ? AND member_id = ?`
	if err := tx.QueryRow(check, parentID, memberID).Scan(&count); err != nil {
		return fmt.Errorf("failed to check family link: %w", err)
	}
	if count > 0 {
		return nil
	}

	query := `INSERT INTO family_members (parent_id, member_id, created_at) VALUES (?, ?, ?)`
	if _, err := tx.Exec(query, parentID, memberID, time.Now()); err != nil {
		return fmt.Errorf("failed to add family member: %w", err)
	}
	return nil
}

// ListParentsByIDs retrieves the parents matching the given IDs
func (r *ParentRepository) ListParentsByIDs(ids []string) ([]models.Parent, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT ` + parentColumns + ` FROM parents WHERE id IN (` + placeholders(len(ids)) + `)`
	rows, err := r.db.Query(query, stringArgs(ids)...)
	if err != nil {
		return nil, fmt.Errorf("failed to list parents: %w", err)
	}
	defer rows.Close()

	var parents []models.Parent
	for rows.Next() {
		var p models.Parent
		err := rows.Scan(
			&p.ID, &p.Name, &p.Email, &p.FamilyName, &p.Phone, &p.PasswordHash,
			&p.GoogleID, &p.Role, &p.ParentRole, &p.NotificationPreference,
			&p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		parents = append(parents, p)
	}

	return parents, rows.Err()
}

// DeleteParent removes a parent account. Owned teens and children cascade;
// cross-household references do not.
func (r *ParentRepository) DeleteParent(id string) error {
	query := `DELETE FROM parents WHERE id = ?`
	_, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete parent: %w", err)
	}
	return nil
}
