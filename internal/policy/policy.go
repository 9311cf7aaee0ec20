// Package policy is the single source of truth for task access control.
// All functions are pure predicates over well-formed inputs and never error.
package policy

import "github.com/taskhive/taskhive-be/internal/models"

// CanRead reports whether the actor may read the task. A task is visible to
// exactly its creator and its assignee.
func CanRead(actorID string, task models.Task) bool {
	if actorID == task.CreatorID {
		return true
	}
	return task.AssignedToID != nil && actorID == *task.AssignedToID
}

// CanUpdate reports whether the actor may mutate the task. Creator and
// assignee collaborate symmetrically: either may change any mutable field,
// including status and reassignment.
func CanUpdate(actorID string, task models.Task) bool {
	return CanRead(actorID, task)
}

// CanDelete reports whether the actor may delete the task. Deletion is
// reserved to the creator so an assignee cannot erase work assigned to them.
func CanDelete(actorID string, task models.Task) bool {
	return actorID == task.CreatorID
}
