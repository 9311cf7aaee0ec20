package models

import "time"

// Task priorities.
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
	PriorityUrgent = "Urgent"
)

// Task statuses. Transitions are unrestricted: any authorized actor may set
// any status at any time (Completed back to ToDo is legal).
const (
	StatusToDo       = "ToDo"
	StatusInProgress = "InProgress"
	StatusReview     = "Review"
	StatusCompleted  = "Completed"
)

// ValidPriority reports whether p is one of the known priority values.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// ValidStatus reports whether s is one of the known status values.
func ValidStatus(s string) bool {
	switch s {
	case StatusToDo, StatusInProgress, StatusReview, StatusCompleted:
		return true
	}
	return false
}

// Task represents a single unit of work owned by its creator and optionally
// assigned to another user. CreatorID is immutable after creation.
type Task struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description,omitempty"`
	DueDate      time.Time    `json:"dueDate"`
	Priority     string       `json:"priority"`
	Status       string       `json:"status"`
	CreatorID    string       `json:"creatorId"`
	AssignedToID *string      `json:"assignedToId,omitempty"`
	Creator      *UserSummary `json:"creator,omitempty"`
	Assignee     *UserSummary `json:"assignee,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}
