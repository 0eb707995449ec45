package repository

import (
	"database/sql"
	"fmt"
	"time"

	"familyhub/internal/database"
	"familyhub/internal/models"

	"github.com/google/uuid"
)

// ChildRepository handles database operations for non-login child profiles
type ChildRepository struct {
	db *database.DB
}

// NewChildRepository creates a new child repository
func NewChildRepository(db *database.DB) *ChildRepository {
	return &ChildRepository{db: db}
}

const childColumns = `id, family_id, name, age, notification_email, notification_phone, notification_preference, created_at, updated_at`

// CreateChild inserts a new child profile
func (r *ChildRepository) CreateChild(c *models.Child) (*models.Child, error) {
	now := time.Now()
	c.ID = uuid.NewString()
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.NotificationPreference == "" {
		c.NotificationPreference = models.NotifyNone
	}

	query := `
		INSERT INTO children (id, family_id, name, age, notification_email, notification_phone, notification_preference, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query,
		c.ID, c.FamilyID, c.Name, c.Age, c.NotificationEmail, c.NotificationPhone,
		c.NotificationPreference, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create child: %w", err)
	}

	return c, nil
}

// GetChildByID retrieves a child with its co-parent links loaded
func (r *ChildRepository) GetChildByID(id string) (*models.Child, error) {
	query := `SELECT ` + childColumns + ` FROM children WHERE id = ?`
	c := &models.Child{}
	err := r.db.QueryRow(query, id).Scan(
		&c.ID, &c.FamilyID, &c.Name, &c.Age, &c.NotificationEmail,
		&c.NotificationPhone, &c.NotificationPreference, &c.CreatedAt, &c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get child: %w", err)
	}

	parentIDs, err := r.getCoParentIDs(r.db, c.ID)
	if err != nil {
		return nil, err
	}
	c.ParentIDs = parentIDs

	return c, nil
}

func (r *ChildRepository) getCoParentIDs(tx database.DBTX, childID string) ([]string, error) {
	query := `SELECT parent_id FROM child_parents WHERE child_id = ?`
	rows, err := tx.Query(query, childID)
	if err != nil {
		return nil, fmt.Errorf("failed to get co-parents: %w", err)
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

// ListChildrenByFamilies retrieves all children owned by or co-parented by
// any of the given parents
func (r *ChildRepository) ListChildrenByFamilies(parentIDs []string) ([]models.Child, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}

	ph := placeholders(len(parentIDs))
	query := `
		SELECT DISTINCT c.id, c.family_id, c.name, c.age, c.notification_email, c.notification_phone, c.notification_preference, c.created_at, c.updated_at
		FROM children c
		LEFT JOIN child_parents cp ON cp.child_id = c.id
		WHERE c.family_id IN (` + ph + `) OR cp.parent_id IN (` + ph + `)
		ORDER BY c.name
	`
	args := append(stringArgs(parentIDs), stringArgs(parentIDs)...)
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list children: %w", err)
	}
	defer rows.Close()

	var children []models.Child
	for rows.Next() {
		var c models.Child
		err := rows.Scan(
			&c.ID, &c.FamilyID, &c.Name, &c.Age, &c.NotificationEmail,
			&c.NotificationPhone, &c.NotificationPreference, &c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		children = append(children, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range children {
		parentIDs, err := r.getCoParentIDs(r.db, children[i].ID)
		if err != nil {
			return nil, err
		}
		children[i].ParentIDs = parentIDs
	}

	return children, nil
}

// ListChildIDsByFamily returns the IDs of children directly owned by a parent
func (r *ChildRepository) ListChildIDsByFamily(tx database.DBTX, parentID string) ([]string, error) {
	query := `SELECT id FROM children WHERE family_id = ?`
	rows, err := tx.Query(query, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list child ids: %w", err)
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

// AddCoParent links an additional parent to a child. Idempotent.
func (r *ChildRepository) AddCoParent(tx database.DBTX, childID, parentID string) error {
	var count int
	check := `SELECT COUNT(*) FROM child_parents WHERE child_id = ? AND parent_id = ?`
	if err := tx.QueryRow(check, childID, parentID).Scan(&count); err != nil {
		return fmt.Errorf("failed to check co-parent link: %w", err)
	}
	if count > 0 {
		return nil
	}

	query := `INSERT INTO child_parents (child_id, parent_id) VALUES (?, ?)`
	if _, err := tx.Exec(query, childID, parentID); err != nil {
		return fmt.Errorf("failed to add co-parent: %w", err)
	}
	return nil
}

// UpdateChild updates a child's editable fields
func (r *ChildRepository) UpdateChild(c *models.Child) error {
	query := `
		UPDATE children
		SET name = ?, age = ?, notification_email = ?, notification_phone = ?, notification_preference = ?, updated_at = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(query, c.Name, c.Age, c.NotificationEmail, c.NotificationPhone, c.NotificationPreference, time.Now(), c.ID)
	if err != nil {
		return fmt.Errorf("failed to update child: %w", err)
	}
	return nil
}

// DeleteChild removes a child profile
func (r *ChildRepository) DeleteChild(id string) error {
	query := `DELETE FROM children WHERE id = ?`
	_, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete child: %w", err)
	}
	return nil
}
