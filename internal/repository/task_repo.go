package repository

import (
	"database/sql"
	"fmt"
	"time"

	"familyhub/internal/database"
	"familyhub/internal/models"

	"github.com/google/uuid"
)

// TaskRepository handles database operations for family tasks
type TaskRepository struct {
	db *database.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *database.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `id, created_by, title, description, due_date, completed, completed_at, assigned_to_all, created_at, updated_at`

// CreateTask inserts a task together with its assignee snapshot
func (r *TaskRepository) CreateTask(t *models.Task) (*models.Task, error) {
	now := time.Now()
	t.ID = uuid.NewString()
	t.CreatedAt = now
	t.UpdatedAt = now

	query := `
		INSERT INTO tasks (id, created_by, title, description, due_date, completed, assigned_to_all, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query,
		t.ID, t.CreatedBy, t.Title, t.Description, t.DueDate, t.Completed,
		t.AssignedToAll, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	if err := r.replaceAssignees(t.ID, t.AssignedTo); err != nil {
		return nil, err
	}

	return t, nil
}

func (r *TaskRepository) replaceAssignees(taskID string, refs []models.MemberRef) error {
	if _, err := r.db.Exec(`DELETE FROM task_assignees WHERE task_id = ?`, taskID); err != nil {
		return fmt.Errorf("failed to clear task assignees: %w", err)
	}
	for _, ref := range refs {
		query := `INSERT INTO task_assignees (task_id, member_kind, member_id) VALUES (?, ?, ?)`
		if _, err := r.db.Exec(query, taskID, string(ref.Kind), ref.ID); err != nil {
			return fmt.Errorf("failed to add task assignee: %w", err)
		}
	}
	return nil
}

func (r *TaskRepository) getAssignees(taskID string) ([]models.MemberRef, error) {
	query := `SELECT member_kind, member_id FROM task_assignees WHERE task_id = ?`
	rows, err := r.db.Query(query, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get task assignees: %w", err)
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

// GetTaskByID retrieves a task with its assignee snapshot loaded
func (r *TaskRepository) GetTaskByID(id string) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	t := &models.Task{}
	err := r.db.QueryRow(query, id).Scan(
		&t.ID, &t.CreatedBy, &t.Title, &t.Description, &t.DueDate, &t.Completed,
		&t.CompletedAt, &t.AssignedToAll, &t.CreatedAt, &t.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	assignees, err := r.getAssignees(t.ID)
	if err != nil {
		return nil, err
	}
	t.AssignedTo = assignees

	return t, nil
}

// ListTasksByCreators retrieves tasks created by any of the given parents
func (r *TaskRepository) ListTasksByCreators(parentIDs []string) ([]models.Task, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE created_by IN (` + placeholders(len(parentIDs)) + `) ORDER BY created_at DESC`
	rows, err := r.db.Query(query, stringArgs(parentIDs)...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var t models.Task
		err := rows.Scan(
			&t.ID, &t.CreatedBy, &t.Title, &t.Description, &t.DueDate, &t.Completed,
			&t.CompletedAt, &t.AssignedToAll, &t.CreatedAt, &t.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range tasks {
		assignees, err := r.getAssignees(tasks[i].ID)
		if err != nil {
			return nil, err
		}
		tasks[i].AssignedTo = assignees
	}

	return tasks, nil
}

// UpdateTask updates a task and rewrites its assignee snapshot
func (r *TaskRepository) UpdateTask(t *models.Task) error {
	query := `
		UPDATE tasks
		SET title = ?, description = ?, due_date = ?, completed = ?, completed_at = ?, assigned_to_all = ?, updated_at = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(query,
		t.Title, t.Description, t.DueDate, t.Completed, t.CompletedAt,
		t.AssignedToAll, time.Now(), t.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	return r.replaceAssignees(t.ID, t.AssignedTo)
}

// DeleteTask removes a task; assignees cascade
func (r *TaskRepository) DeleteTask(id string) error {
	query := `DELETE FROM tasks WHERE id = ?`
	_, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}
