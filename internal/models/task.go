package models

import "time"

// Task is a to-do item created by a parent and assigned to family members
type Task struct {
	ID            string      `json:"id"`
	CreatedBy     string      `json:"createdBy"`
	Title         string      `json:"title"`
	Description   string      `json:"description,omitempty"`
	DueDate       *time.Time  `json:"dueDate,omitempty"`
	Completed     bool        `json:"completed"`
	CompletedAt   *time.Time  `json:"completedAt,omitempty"`
	AssignedToAll bool        `json:"assignedToAll"`
	AssignedTo    []MemberRef `json:"assignedTo"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}
