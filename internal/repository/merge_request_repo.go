package repository

import (
	"database/sql"
	"fmt"
	"time"

	"familyhub/internal/database"
	"familyhub/internal/models"

	"github.com/google/uuid"
)

// MergeRequestRepository handles database operations for the household
// merge workflow
type MergeRequestRepository struct {
	db *database.DB
}

// NewMergeRequestRepository creates a new merge request repository
func NewMergeRequestRepository(db *database.DB) *MergeRequestRepository {
	return &MergeRequestRepository{db: db}
}

const mergeRequestColumns = `id, requester_id, recipient_id, message, response_message, status, merge_completed, merged_at, created_at, updated_at`

// CreateMergeRequest inserts a new pending merge request
func (r *MergeRequestRepository) CreateMergeRequest(requesterID, recipientID, message string) (*models.MergeRequest, error) {
	now := time.Now()
	req := &models.MergeRequest{
		ID:          uuid.NewString(),
		RequesterID: requesterID,
		RecipientID: recipientID,
		Message:     message,
		Status:      models.MergeStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	query := `
		INSERT INTO merge_requests (id, requester_id, recipient_id, message, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query, req.ID, req.RequesterID, req.RecipientID, req.Message, req.Status, req.CreatedAt, req.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create merge request: %w", err)
	}

	return req, nil
}

func scanMergeRequest(row *sql.Row) (*models.MergeRequest, error) {
	m := &models.MergeRequest{}
	err := row.Scan(
		&m.ID, &m.RequesterID, &m.RecipientID, &m.Message, &m.ResponseMessage,
		&m.Status, &m.MergeCompleted, &m.MergedAt, &m.CreatedAt, &m.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get merge request: %w", err)
	}
	return m, nil
}

// GetMergeRequestByID retrieves a merge request with its audit lists loaded
func (r *MergeRequestRepository) GetMergeRequestByID(id string) (*models.MergeRequest, error) {
	query := `SELECT ` + mergeRequestColumns + ` FROM merge_requests WHERE id = ?`
	m, err := scanMergeRequest(r.db.QueryRow(query, id))
	if err != nil || m == nil {
		return m, err
	}

	m.MergedChildIDs, err = r.auditIDs("merge_request_children", "child_id", id)
	if err != nil {
		return nil, err
	}
	m.MergedEventIDs, err = r.auditIDs("merge_request_events", "event_id", id)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (r *MergeRequestRepository) auditIDs(table, column, requestID string) ([]string, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE merge_request_id = ?`, column, table)
	rows, err := r.db.Query(query, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to get merge audit: %w", err)
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

// HasPendingBetween reports whether a pending request exists between the
// unordered pair, in either direction
func (r *MergeRequestRepository) HasPendingBetween(a, b string) (bool, error) {
	query := `
		SELECT COUNT(*) FROM merge_requests
		WHERE status = ?
		  AND ((requester_id = ? AND recipient_id = ?) OR (requester_id = ? AND recipient_id = ?))
	`
	var count int
	err := r.db.QueryRow(query, models.MergeStatusPending, a, b, b, a).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check pending merge requests: %w", err)
	}
	return count > 0, nil
}

// HasCompletedBetween reports whether the unordered pair has already merged
func (r *MergeRequestRepository) HasCompletedBetween(a, b string) (bool, error) {
	query := `
		SELECT COUNT(*) FROM merge_requests
		WHERE merge_completed = 1
		  AND ((requester_id = ? AND recipient_id = ?) OR (requester_id = ? AND recipient_id = ?))
	`
	var count int
	err := r.db.QueryRow(query, a, b, b, a).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check completed merges: %w", err)
	}
	return count > 0, nil
}

// TransitionStatus atomically moves a request from one status to another.
// Returns false when the request was not in the expected status, which is
// how two racing approvals are serialized: only one conditional update wins.
func (r *MergeRequestRepository) TransitionStatus(tx database.DBTX, id, fromStatus, toStatus, responseMessage string) (bool, error) {
	query := `
		UPDATE merge_requests
		SET status = ?, response_message = ?, updated_at = ?
		WHERE id = ? AND status = ?
	`
	result, err := tx.Exec(query, toStatus, responseMessage, time.Now(), id, fromStatus)
	if err != nil {
		return false, fmt.Errorf("failed to transition merge request: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return affected == 1, nil
}

// MarkCompleted records that the merge ran, with the affected IDs for audit
func (r *MergeRequestRepository) MarkCompleted(tx database.DBTX, id string, result models.MergeResult) error {
	query := `UPDATE merge_requests SET merge_completed = 1, merged_at = ?, updated_at = ? WHERE id = ?`
	now := time.Now()
	if _, err := tx.Exec(query, now, now, id); err != nil {
		return fmt.Errorf("failed to mark merge completed: %w", err)
	}

	for _, childID := range result.ChildIDs {
		if _, err := tx.Exec(`INSERT INTO merge_request_children (merge_request_id, child_id) VALUES (?, ?)`, id, childID); err != nil {
			return fmt.Errorf("failed to record merged child: %w", err)
		}
	}
	for _, eventID := range result.EventIDs {
		if _, err := tx.Exec(`INSERT INTO merge_request_events (merge_request_id, event_id) VALUES (?, ?)`, id, eventID); err != nil {
			return fmt.Errorf("failed to record merged event: %w", err)
		}
	}

	return nil
}

// ListMergeRequestsForParent retrieves requests where the parent is either
// side, newest first
func (r *MergeRequestRepository) ListMergeRequestsForParent(parentID string) ([]models.MergeRequest, error) {
	query := `
		SELECT ` + mergeRequestColumns + `
		FROM merge_requests
		WHERE requester_id = ? OR recipient_id = ?
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(query, parentID, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list merge requests: %w", err)
	}
	defer rows.Close()

	var requests []models.MergeRequest
	for rows.Next() {
		var m models.MergeRequest
		err := rows.Scan(
			&m.ID, &m.RequesterID, &m.RecipientID, &m.Message, &m.ResponseMessage,
			&m.Status, &m.MergeCompleted, &m.MergedAt, &m.CreatedAt, &m.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		requests = append(requests, m)
	}

	return requests, rows.Err()
}
