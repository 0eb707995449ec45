package repository

import (
	"database/sql"
	"fmt"
	"time"

	"familyhub/internal/database"
	"familyhub/internal/models"

	"github.com/google/uuid"
)

// VaultRepository handles database operations for password-vault entries
// and their share snapshots
type VaultRepository struct {
	db *database.DB
}

// NewVaultRepository creates a new vault repository
func NewVaultRepository(db *database.DB) *VaultRepository {
	return &VaultRepository{db: db}
}

const vaultColumns = `id, created_by, title, username, password, url, notes, shared_with_all, created_at, updated_at`

// CreateEntry inserts a vault entry together with its share snapshot
func (r *VaultRepository) CreateEntry(entry *models.VaultEntry) (*models.VaultEntry, error) {
	now := time.Now()
	entry.ID = uuid.NewString()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	query := `
		INSERT INTO vault_entries (id, created_by, title, username, password, url, notes, shared_with_all, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query,
		entry.ID, entry.CreatedBy, entry.Title, entry.Username, entry.Password,
		entry.URL, entry.Notes, entry.SharedWithAll, entry.CreatedAt, entry.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault entry: %w", err)
	}

	if err := r.replaceShares(entry.ID, entry.SharedWith); err != nil {
		return nil, err
	}

	return entry, nil
}

func (r *VaultRepository) replaceShares(entryID string, refs []models.MemberRef) error {
	if _, err := r.db.Exec(`DELETE FROM vault_shares WHERE entry_id = ?`, entryID); err != nil {
		return fmt.Errorf("failed to clear vault shares: %w", err)
	}
	for _, ref := range refs {
		query := `INSERT INTO vault_shares (entry_id, member_kind, member_id) VALUES (?, ?, ?)`
		if _, err := r.db.Exec(query, entryID, string(ref.Kind), ref.ID); err != nil {
			return fmt.Errorf("failed to add vault share: %w", err)
		}
	}
	return nil
}

func (r *VaultRepository) getShares(entryID string) ([]models.MemberRef, error) {
	query := `SELECT member_kind, member_id FROM vault_shares WHERE entry_id = ?`
	rows, err := r.db.Query(query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get vault shares: %w", err)
	}
	defer rows.Close()

	var refs []models.MemberRef
	for rows.Next() {
		var kind, id string
		if err := rows.Scan(&kind, &id); err != nil {
			return nil, err
		}
		refs = append(refs, models.MemberRef{Kind: models.MemberKind(kind), ID: id})
	}

	return refs, rows.Err()
}

// GetEntryByID retrieves a vault entry with its share snapshot loaded
func (r *VaultRepository) GetEntryByID(id string) (*models.VaultEntry, error) {
	query := `SELECT ` + vaultColumns + ` FROM vault_entries WHERE id = ?`
	entry := &models.VaultEntry{}
	err := r.db.QueryRow(query, id).Scan(
		&entry.ID, &entry.CreatedBy, &entry.Title, &entry.Username, &entry.Password,
		&entry.URL, &entry.Notes, &entry.SharedWithAll, &entry.CreatedAt, &entry.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vault entry: %w", err)
	}

	shares, err := r.getShares(entry.ID)
	if err != nil {
		return nil, err
	}
	entry.SharedWith = shares

	return entry, nil
}

// ListEntriesVisibleTo retrieves entries the member owns or is shared into
func (r *VaultRepository) ListEntriesVisibleTo(ref models.MemberRef) ([]models.VaultEntry, error) {
	query := `
		SELECT DISTINCT e.id, e.created_by, e.title, e.username, e.password, e.url, e.notes, e.shared_with_all, e.created_at, e.updated_at
		FROM vault_entries e
		LEFT JOIN vault_shares s ON s.entry_id = e.id
		WHERE (s.member_kind = ? AND s.member_id = ?)
	`
	args := []interface{}{string(ref.Kind), ref.ID}
	if ref.Kind == models.KindParent {
		query += ` OR e.created_by = ?`
		args = append(args, ref.ID)
	}
	query += ` ORDER BY e.title`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list vault entries: %w", err)
	}
	defer rows.Close()

	var entries []models.VaultEntry
	for rows.Next() {
		var e models.VaultEntry
		err := rows.Scan(
			&e.ID, &e.CreatedBy, &e.Title, &e.Username, &e.Password,
			&e.URL, &e.Notes, &e.SharedWithAll, &e.CreatedAt, &e.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range entries {
		shares, err := r.getShares(entries[i].ID)
		if err != nil {
			return nil, err
		}
		entries[i].SharedWith = shares
	}

	return entries, nil
}

// UpdateEntry updates a vault entry and rewrites its share snapshot
func (r *VaultRepository) UpdateEntry(entry *models.VaultEntry) error {
	query := `
		UPDATE vault_entries
		SET title = ?, username = ?, password = ?, url = ?, notes = ?, shared_with_all = ?, updated_at = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(query,
		entry.Title, entry.Username, entry.Password, entry.URL, entry.Notes,
		entry.SharedWithAll, time.Now(), entry.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update vault entry: %w", err)
	}

	return r.replaceShares(entry.ID, entry.SharedWith)
}

// DeleteEntry removes a vault entry; shares cascade
func (r *VaultRepository) DeleteEntry(id string) error {
	query := `DELETE FROM vault_entries WHERE id = ?`
	_, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete vault entry: %w", err)
	}
	return nil
}
