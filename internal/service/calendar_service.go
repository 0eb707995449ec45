package service

import (
	"time"

	"familyhub/internal/models"
	"familyhub/internal/repository"
)

// CalendarService manages shared events and tasks. Assign-to-all uses the
// same snapshot semantics as the vault: the resolved family at write time
// is materialized into the assignee set.
type CalendarService struct {
	family *FamilyService
	events *repository.EventRepository
	tasks  *repository.TaskRepository
}

// NewCalendarService creates a new calendar service
func NewCalendarService(family *FamilyService, events *repository.EventRepository, tasks *repository.TaskRepository) *CalendarService {
	return &CalendarService{family: family, events: events, tasks: tasks}
}

func (s *CalendarService) resolveEventAssignees(e *models.Event) error {
	if !e.AssignedToAll {
		return nil
	}
	refs, err := s.family.ResolveFamilyMemberIDs(e.CreatedBy)
	if err != nil {
		return err
	}
	e.AssignedTo = refs
	return nil
}

func (s *CalendarService) resolveTaskAssignees(t *models.Task) error {
	if !t.AssignedToAll {
		return nil
	}
	refs, err := s.family.ResolveFamilyMemberIDs(t.CreatedBy)
	if err != nil {
		return err
	}
	t.AssignedTo = refs
	return nil
}

// CreateEvent creates a calendar event owned by the actor
func (s *CalendarService) CreateEvent(actorParentID string, e *models.Event) (*models.Event, error) {
	if e.Title == "" {
		return nil, Validation("event title is required")
	}
	if e.StartTime.IsZero() {
		return nil, Validation("event start time is required")
	}
	e.CreatedBy = actorParentID
	if err := s.resolveEventAssignees(e); err != nil {
		return nil, err
	}
	return s.events.CreateEvent(e)
}

// GetEvent retrieves an event the actor is authorized to see
func (s *CalendarService) GetEvent(eventID, actorParentID string) (*models.Event, error) {
	e, err := s.events.GetEventByID(eventID)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, NotFound("event not found")
	}

	ok, err := s.family.CanSeeParent(actorParentID, e.CreatedBy)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, Forbidden("event belongs to another family")
	}
	return e, nil
}

// ListEvents retrieves the events visible to the actor's family
func (s *CalendarService) ListEvents(actorParentID string) ([]models.Event, error) {
	parentIDs, err := s.family.ResolveFamilyParentIDs(actorParentID)
	if err != nil {
		return nil, err
	}
	return s.events.ListEventsByCreators(parentIDs)
}

// UpdateEvent updates an event. Only the creator may update.
func (s *CalendarService) UpdateEvent(actorParentID string, e *models.Event) (*models.Event, error) {
	existing, err := s.events.GetEventByID(e.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, NotFound("event not found")
	}
	if existing.CreatedBy != actorParentID {
		return nil, Forbidden("only the creator can update an event")
	}
	if e.Title == "" {
		return nil, Validation("event title is required")
	}

	e.CreatedBy = existing.CreatedBy
	if err := s.resolveEventAssignees(e); err != nil {
		return nil, err
	}
	if err := s.events.UpdateEvent(e); err != nil {
		return nil, err
	}
	return s.events.GetEventByID(e.ID)
}

// DeleteEvent removes an event. Only the creator may delete.
func (s *CalendarService) DeleteEvent(eventID, actorParentID string) error {
	e, err := s.events.GetEventByID(eventID)
	if err != nil {
		return err
	}
	if e == nil {
		return NotFound("event not found")
	}
	if e.CreatedBy != actorParentID {
		return Forbidden("only the creator can delete an event")
	}
	return s.events.DeleteEvent(eventID)
}

// CreateTask creates a task owned by the actor
func (s *CalendarService) CreateTask(actorParentID string, t *models.Task) (*models.Task, error) {
	if t.Title == "" {
		return nil, Validation("task title is required")
	}
	t.CreatedBy = actorParentID
	if err := s.resolveTaskAssignees(t); err != nil {
		return nil, err
	}
	return s.tasks.CreateTask(t)
}

// GetTask retrieves a task the actor is authorized to see
func (s *CalendarService) GetTask(taskID, actorParentID string) (*models.Task, error) {
	t, err := s.tasks.GetTaskByID(taskID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, NotFound("task not found")
	}

	ok, err := s.family.CanSeeParent(actorParentID, t.CreatedBy)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, Forbidden("task belongs to another family")
	}
	return t, nil
}

// ListTasks retrieves the tasks visible to the actor's family
func (s *CalendarService) ListTasks(actorParentID string) ([]models.Task, error) {
	parentIDs, err := s.family.ResolveFamilyParentIDs(actorParentID)
	if err != nil {
		return nil, err
	}
	return s.tasks.ListTasksByCreators(parentIDs)
}

// UpdateTask updates a task. Only the creator may update.
func (s *CalendarService) UpdateTask(actorParentID string, t *models.Task) (*models.Task, error) {
	existing, err := s.tasks.GetTaskByID(t.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, NotFound("task not found")
	}
	if existing.CreatedBy != actorParentID {
		return nil, Forbidden("only the creator can update a task")
	}
	if t.Title == "" {
		return nil, Validation("task title is required")
	}

	t.CreatedBy = existing.CreatedBy
	if err := s.resolveTaskAssignees(t); err != nil {
		return nil, err
	}
	if err := s.tasks.UpdateTask(t); err != nil {
		return nil, err
	}
	return s.tasks.GetTaskByID(t.ID)
}

// CompleteTask marks a task done. Any family member's parent scope that can
// see the task may complete it.
func (s *CalendarService) CompleteTask(taskID, actorParentID string) (*models.Task, error) {
	t, err := s.GetTask(taskID, actorParentID)
	if err != nil {
		return nil, err
	}
	if t.Completed {
		return t, nil
	}

	now := time.Now()
	t.Completed = true
	t.CompletedAt = &now
	if err := s.tasks.UpdateTask(t); err != nil {
		return nil, err
	}
	return s.tasks.GetTaskByID(taskID)
}

// DeleteTask removes a task. Only the creator may delete.
func (s *CalendarService) DeleteTask(taskID, actorParentID string) error {
	t, err := s.tasks.GetTaskByID(taskID)
	if err != nil {
		return err
	}
	if t == nil {
		return NotFound("task not found")
	}
	if t.CreatedBy != actorParentID {
		return Forbidden("only the creator can delete a task")
	}
	return s.tasks.DeleteTask(taskID)
}
