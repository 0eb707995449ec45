package models

import "time"

// MergeRequest status values. Pending is the only non-terminal state.
const (
	MergeStatusPending   = "pending"
	MergeStatusApproved  = "approved"
	MergeStatusRejected  = "rejected"
	MergeStatusCancelled = "cancelled"
)

// MergeRequest is a directed request from one parent to another to link
// their households
type MergeRequest struct {
	ID              string     `json:"id"`
	RequesterID     string     `json:"requesterId"`
	RecipientID     string     `json:"recipientId"`
	Message         string     `json:"message,omitempty"`
	ResponseMessage string     `json:"responseMessage,omitempty"`
	Status          string     `json:"status"`
	MergeCompleted  bool       `json:"mergeCompleted"`
	MergedChildIDs  []string   `json:"mergedChildIds,omitempty"`
	MergedEventIDs  []string   `json:"mergedEventIds,omitempty"`
	MergedAt        *time.Time `json:"mergedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// IsPending reports whether the request can still be acted on
func (m *MergeRequest) IsPending() bool {
	return m.Status == MergeStatusPending
}

// MergeResult records what a completed merge touched, for auditing and
// for the summary sent back to the requester
type MergeResult struct {
	ChildIDs []string
	EventIDs []string
}
