package models

import "time"

// Event is a calendar entry created by a parent and assigned to family
// members. AssignedTo is a snapshot when AssignedToAll is set.
type Event struct {
	ID            string      `json:"id"`
	CreatedBy     string      `json:"createdBy"`
	Title         string      `json:"title"`
	Description   string      `json:"description,omitempty"`
	Location      string      `json:"location,omitempty"`
	StartTime     time.Time   `json:"startTime"`
	EndTime       *time.Time  `json:"endTime,omitempty"`
	AllDay        bool        `json:"allDay"`
	AssignedToAll bool        `json:"assignedToAll"`
	AssignedTo    []MemberRef `json:"assignedTo"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}
