package service

import (
	"testing"
	"time"

	"familyhub/internal/models"
)

func TestEventAssignToAllSnapshot(t *testing.T) {
	env := newTestEnv(t)
	p1 := env.addParent(t, "Pat Smith", "pat@example.com", "Smith")
	child := env.addChild(t, p1.ID, "Sam")

	event, err := env.calendar.CreateEvent(p1.ID, &models.Event{
		Title:         "Family dinner",
		StartTime:     time.Now().Add(24 * time.Hour),
		AssignedToAll: true,
	})
	if err != nil {
		t.Fatalf("CreateEvent() error = %v", err)
	}

	want := []models.MemberRef{
		{Kind: models.KindParent, ID: p1.ID},
		{Kind: models.KindChild, ID: child.ID},
	}
	if len(event.AssignedTo) != len(want) {
		t.Fatalf("assignee count = %d, want %d", len(event.AssignedTo), len(want))
	}
	for _, ref := range want {
		if !models.ContainsMember(event.AssignedTo, ref) {
			t.Errorf("assignees missing %v", ref)
		}
	}
}

func TestEventVisibilityFollowsFamily(t *testing.T) {
	env := newTestEnv(t)
	p1 := env.addParent(t, "Pat Smith", "pat@example.com", "Smith")
	p2 := env.addParent(t, "Jo Jones", "jo@example.com", "Jones")

	event, err := env.calendar.CreateEvent(p1.ID, &models.Event{
		Title:     "Soccer practice",
		StartTime: time.Now().Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("CreateEvent() error = %v", err)
	}

	if _, err := env.calendar.GetEvent(event.ID, p2.ID); KindOf(err) != KindForbidden {
		t.Errorf("unmerged GetEvent() error kind = %v, want KindForbidden", KindOf(err))
	}

	env.mergeParents(t, p1, p2)

	if _, err := env.calendar.GetEvent(event.ID, p2.ID); err != nil {
		t.Errorf("merged GetEvent() error = %v", err)
	}

	events, err := env.calendar.ListEvents(p2.ID)
	if err != nil {
		t.Fatalf("ListEvents() error = %v", err)
	}
	if len(events) != 1 {
		t.Errorf("visible events = %d, want 1", len(events))
	}

	// Updates stay restricted to the creator
	event.Title = "Rescheduled"
	if _, err := env.calendar.UpdateEvent(p2.ID, event); KindOf(err) != KindForbidden {
		t.Errorf("non-creator UpdateEvent() error kind = %v, want KindForbidden", KindOf(err))
	}
}

func TestTaskLifecycle(t *testing.T) {
	env := newTestEnv(t)
	p1 := env.addParent(t, "Pat Smith", "pat@example.com", "Smith")
	p2 := env.addParent(t, "Jo Jones", "jo@example.com", "Jones")
	env.mergeParents(t, p1, p2)

	due := time.Now().Add(48 * time.Hour)
	task, err := env.calendar.CreateTask(p1.ID, &models.Task{
		Title:         "Take out recycling",
		DueDate:       &due,
		AssignedToAll: true,
	})
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}
	if len(task.AssignedTo) != 2 {
		t.Errorf("assignee count = %d, want both parents", len(task.AssignedTo))
	}

	// Any family member's parent scope may complete
	done, err := env.calendar.CompleteTask(task.ID, p2.ID)
	if err != nil {
		t.Fatalf("CompleteTask() error = %v", err)
	}
	if !done.Completed || done.CompletedAt == nil {
		t.Error("task should be marked completed with a timestamp")
	}

	// Completing again is a no-op
	again, err := env.calendar.CompleteTask(task.ID, p1.ID)
	if err != nil {
		t.Fatalf("second CompleteTask() error = %v", err)
	}
	if !again.Completed {
		t.Error("task should stay completed")
	}

	// Deletion stays with the creator
	if err := env.calendar.DeleteTask(task.ID, p2.ID); KindOf(err) != KindForbidden {
		t.Errorf("non-creator DeleteTask() error kind = %v, want KindForbidden", KindOf(err))
	}
	if err := env.calendar.DeleteTask(task.ID, p1.ID); err != nil {
		t.Errorf("creator DeleteTask() error = %v", err)
	}
}
