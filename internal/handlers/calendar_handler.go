package handlers

import (
	"net/http"

	"familyhub/internal/models"
	"familyhub/internal/service"
)

// CalendarHandler handles shared calendar and task endpoints
type CalendarHandler struct {
	calendarService *service.CalendarService
}

// NewCalendarHandler creates a new calendar handler
func NewCalendarHandler(calendarService *service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendarService: calendarService}
}

// CreateEvent adds a calendar event owned by the authenticated parent
func (h *CalendarHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())

	var event models.Event
	if err := decodeJSON(r, &event); err != nil {
		writeError(w, err)
		return
	}

	created, err := h.calendarService.CreateEvent(actor.ID, &event)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListEvents returns the family's calendar events
func (h *CalendarHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())

	events, err := h.calendarService.ListEvents(actor.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// GetEvent returns one event visible to the actor's family
func (h *CalendarHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())

	event, err := h.calendarService.GetEvent(r.PathValue("id"), actor.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// UpdateEvent rewrites an event the actor created
func (h *CalendarHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())

	var event models.Event
	if err := decodeJSON(r, &event); err != nil {
		writeError(w, err)
		return
	}
	event.ID = r.PathValue("id")

	updated, err := h.calendarService.UpdateEvent(actor.ID, &event)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteEvent removes an event the actor created
func (h *CalendarHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())

	if err := h.calendarService.DeleteEvent(r.PathValue("id"), actor.ID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// CreateTask adds a task owned by the authenticated parent
func (h *CalendarHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())

	var task models.Task
	if err := decodeJSON(r, &task); err != nil {
		writeError(w, err)
		return
	}

	created, err := h.calendarService.CreateTask(actor.ID, &task)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListTasks returns the family's tasks
func (h *CalendarHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())

	tasks, err := h.calendarService.ListTasks(actor.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

// GetTask returns one task visible to the actor's family
func (h *CalendarHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())

	task, err := h.calendarService.GetTask(r.PathValue("id"), actor.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// UpdateTask rewrites a task the actor created
func (h *CalendarHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())

	var task models.Task
	if err := decodeJSON(r, &task); err != nil {
		writeError(w, err)
		return
	}
	task.ID = r.PathValue("id")

	updated, err := h.calendarService.UpdateTask(actor.ID, &task)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// CompleteTask marks a task done. Completion is open to the whole family.
func (h *CalendarHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())

	task, err := h.calendarService.CompleteTask(r.PathValue("id"), actor.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// DeleteTask removes a task the actor created
func (h *CalendarHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())

	if err := h.calendarService.DeleteTask(r.PathValue("id"), actor.ID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
