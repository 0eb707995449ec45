package repository

import (
	"database/sql"
	"fmt"
	"time"

	"familyhub/internal/database"
	"familyhub/internal/models"

	"github.com/google/uuid"
)

// TeenRepository handles database operations for dependent accounts
type TeenRepository struct {
	db *database.DB
}

// NewTeenRepository creates a new teen repository
func NewTeenRepository(db *database.DB) *TeenRepository {
	return &TeenRepository{db: db}
}

const teenColumns = `id, parent_id, name, email, phone, password_hash, account_role, age, notification_preference, created_at, updated_at`

// CreateTeen inserts a new dependent account
func (r *TeenRepository) CreateTeen(t *models.Teen) (*models.Teen, error) {
	now := time.Now()
	t.ID = uuid.NewString()
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.NotificationPreference == "" {
		t.NotificationPreference = models.NotifyEmail
	}

	query := `
		INSERT INTO teens (id, parent_id, name, email, phone, password_hash, account_role, age, notification_preference, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query,
		t.ID, t.ParentID, t.Name, t.Email, t.Phone, t.PasswordHash,
		t.AccountRole, t.Age, t.NotificationPreference, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create teen: %w", err)
	}

	return t, nil
}

func scanTeen(row *sql.Row) (*models.Teen, error) {
	t := &models.Teen{}
	err := row.Scan(
		&t.ID, &t.ParentID, &t.Name, &t.Email, &t.Phone, &t.PasswordHash,
		&t.AccountRole, &t.Age, &t.NotificationPreference, &t.CreatedAt, &t.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get teen: %w", err)
	}
	return t, nil
}

// GetTeenByID retrieves a teen by ID
func (r *TeenRepository) GetTeenByID(id string) (*models.Teen, error) {
	query := `SELECT ` + teenColumns + ` FROM teens WHERE id = ?`
	return scanTeen(r.db.QueryRow(query, id))
}

// GetTeenByEmail retrieves a teen by email address
func (r *TeenRepository) GetTeenByEmail(email string) (*models.Teen, error) {
	query := `SELECT ` + teenColumns + ` FROM teens WHERE email = ?`
	return scanTeen(r.db.QueryRow(query, email))
}

// ListTeensByParents retrieves all teens owned by any of the given parents
func (r *TeenRepository) ListTeensByParents(parentIDs []string) ([]models.Teen, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}

	query := `SELECT ` + teenColumns + ` FROM teens WHERE parent_id IN (` + placeholders(len(parentIDs)) + `) ORDER BY name`
	rows, err := r.db.Query(query, stringArgs(parentIDs)...)
	if err != nil {
		return nil, fmt.Errorf("failed to list teens: %w", err)
	}
	defer rows.Close()

	var teens []models.Teen
	for rows.Next() {
		var t models.Teen
		err := rows.Scan(
			&t.ID, &t.ParentID, &t.Name, &t.Email, &t.Phone, &t.PasswordHash,
			&t.AccountRole, &t.Age, &t.NotificationPreference, &t.CreatedAt, &t.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		teens = append(teens, t)
	}

	return teens, rows.Err()
}

// UpdatePassword replaces the stored password hash
func (r *TeenRepository) UpdatePassword(id, passwordHash string) error {
	query := `UPDATE teens SET password_hash = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.Exec(query, passwordHash, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// DeleteTeen removes a dependent account
func (r *TeenRepository) DeleteTeen(id string) error {
	query := `DELETE FROM teens WHERE id = ?`
	_, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete teen: %w", err)
	}
	return nil
}
