package repository

import (
	"database/sql"
	"fmt"
	"time"

	"familyhub/internal/database"
	"familyhub/internal/models"

	"github.com/google/uuid"
)

// EventRepository handles database operations for calendar events
type EventRepository struct {
	db *database.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *database.DB) *EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = `id, created_by, title, description, location, start_time, end_time, all_day, assigned_to_all, created_at, updated_at`

// CreateEvent inserts an event together with its assignee snapshot
func (r *EventRepository) CreateEvent(e *models.Event) (*models.Event, error) {
	now := time.Now()
	e.ID = uuid.NewString()
	e.CreatedAt = now
	e.UpdatedAt = now

	query := `
		INSERT INTO events (id, created_by, title, description, location, start_time, end_time, all_day, assigned_to_all, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query,
		e.ID, e.CreatedBy, e.Title, e.Description, e.Location, e.StartTime, e.EndTime,
		e.AllDay, e.AssignedToAll, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	if err := r.replaceAssignees(e.ID, e.AssignedTo); err != nil {
		return nil, err
	}

	return e, nil
}

func (r *EventRepository) replaceAssignees(eventID string, refs []models.MemberRef) error {
	if _, err := r.db.Exec(`DELETE FROM event_assignees WHERE event_id = ?`, eventID); err != nil {
		return fmt.Errorf("failed to clear event assignees: %w", err)
	}
	for _, ref := range refs {
		query := `INSERT INTO event_assignees (event_id, member_kind, member_id) VALUES (?, ?, ?)`
		if _, err := r.db.Exec(query, eventID, string(ref.Kind), ref.ID); err != nil {
			return fmt.Errorf("failed to add event assignee: %w", err)
		}
	}
	return nil
}

func (r *EventRepository) getAssignees(eventID string) ([]models.MemberRef, error) {
	query := `SELECT member_kind, member_id FROM event_assignees WHERE event_id = ?`
	rows, err := r.db.Query(query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event assignees: %w", err)
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

// GetEventByID retrieves an event with its assignee snapshot loaded
func (r *EventRepository) GetEventByID(id string) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = ?`
	e := &models.Event{}
	err := r.db.QueryRow(query, id).Scan(
		&e.ID, &e.CreatedBy, &e.Title, &e.Description, &e.Location, &e.StartTime,
		&e.EndTime, &e.AllDay, &e.AssignedToAll, &e.CreatedAt, &e.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	assignees, err := r.getAssignees(e.ID)
	if err != nil {
		return nil, err
	}
	e.AssignedTo = assignees

	return e, nil
}

// ListEventsByCreators retrieves events created by any of the given parents,
// soonest first
func (r *EventRepository) ListEventsByCreators(parentIDs []string) ([]models.Event, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}

	query := `SELECT ` + eventColumns + ` FROM events WHERE created_by IN (` + placeholders(len(parentIDs)) + `) ORDER BY start_time`
	rows, err := r.db.Query(query, stringArgs(parentIDs)...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var e models.Event
		err := rows.Scan(
			&e.ID, &e.CreatedBy, &e.Title, &e.Description, &e.Location, &e.StartTime,
			&e.EndTime, &e.AllDay, &e.AssignedToAll, &e.CreatedAt, &e.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range events {
		assignees, err := r.getAssignees(events[i].ID)
		if err != nil {
			return nil, err
		}
		events[i].AssignedTo = assignees
	}

	return events, nil
}

// ListEventIDsByCreator returns the IDs of events a parent created
func (r *EventRepository) ListEventIDsByCreator(tx database.DBTX, parentID string) ([]string, error) {
	query := `SELECT id FROM events WHERE created_by = ?`
	rows, err := tx.Query(query, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list event ids: %w", err)
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

// UpdateEvent updates an event and rewrites its assignee snapshot
func (r *EventRepository) UpdateEvent(e *models.Event) error {
	query := `
		UPDATE events
		SET title = ?, description = ?, location = ?, start_time = ?, end_time = ?, all_day = ?, assigned_to_all = ?, updated_at = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(query,
		e.Title, e.Description, e.Location, e.StartTime, e.EndTime, e.AllDay,
		e.AssignedToAll, time.Now(), e.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}

	return r.replaceAssignees(e.ID, e.AssignedTo)
}

// DeleteEvent removes an event; assignees cascade
func (r *EventRepository) DeleteEvent(id string) error {
	query := `DELETE FROM events WHERE id = ?`
	_, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}
