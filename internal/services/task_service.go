package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive-be/internal/apperr"
	"github.com/taskhive/taskhive-be/internal/models"
	"github.com/taskhive/taskhive-be/internal/policy"
	"github.com/taskhive/taskhive-be/internal/websocket"
)

// CreateTaskInput is the payload for creating a task.
type CreateTaskInput struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	DueDate      string  `json:"dueDate"`
	Priority     string  `json:"priority"`
	Status       string  `json:"status"`
	AssignedToID *string `json:"assignedToId"`
}

// UpdateTaskInput carries a partial update. Nil fields are left untouched.
type UpdateTaskInput struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	DueDate      *string `json:"dueDate"`
	Priority     *string `json:"priority"`
	Status       *string `json:"status"`
	AssignedToID *string `json:"assignedToId"`
}

// TaskServiceProvider defines the interface for task services.
type TaskServiceProvider interface {
	Create(input CreateTaskInput, actorID string) (models.Task, error)
	List(actorID string) ([]models.Task, error)
	Update(taskID, actorID string, input UpdateTaskInput) (models.Task, error)
	Delete(taskID, actorID string) error
}

// TaskService orchestrates task creation, mutation, and deletion: it
// validates input, enforces the access policy, persists against the store,
// and publishes change events. The store mutation always completes before
// the corresponding event is published.
type TaskService struct {
	db       *sql.DB
	notifier Notifier
}

// NewTaskService creates a new TaskService. The notifier is injected so
// tests can substitute a fake channel.
func NewTaskService(db *sql.DB, notifier Notifier) *TaskService {
	return &TaskService{db: db, notifier: notifier}
}

const taskSelect = `
	SELECT t.id, t.title, t.description, t.due_date, t.priority, t.status,
	       t.creator_id, t.assigned_to_id, t.created_at, t.updated_at,
	       c.name, c.email, a.name, a.email
	FROM tasks t
	JOIN users c ON c.id = t.creator_id
	LEFT JOIN users a ON a.id = t.assigned_to_id`

// Create validates the input, persists a new task owned by the actor, and
// publishes a task:created broadcast plus, when an assignee is set, a
// targeted notification for them.
func (s *TaskService) Create(input CreateTaskInput, actorID string) (models.Task, error) {
	if input.Title == "" {
		return models.Task{}, apperr.Validation("Title is required")
	}
	if len(input.Title) > 100 {
		return models.Task{}, apperr.Validation("Title too long")
	}
	dueDate, err := time.Parse(time.RFC3339, input.DueDate)
	if err != nil {
		return models.Task{}, apperr.Validation("Invalid date format")
	}
	if !models.ValidPriority(input.Priority) {
		return models.Task{}, apperr.Validation("Invalid priority")
	}
	status := input.Status
	if status == "" {
		status = models.StatusToDo
	}
	if !models.ValidStatus(status) {
		return models.Task{}, apperr.Validation("Invalid status")
	}
	if input.AssignedToID != nil {
		if err := s.checkAssignee(*input.AssignedToID); err != nil {
			return models.Task{}, err
		}
	}

	now := time.Now().UTC()
	taskID := uuid.New().String()

	stmt, err := s.db.Prepare(`
		INSERT INTO tasks (id, title, description, due_date, priority, status, creator_id, assigned_to_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return models.Task{}, apperr.Internal(err)
	}
	defer stmt.Close()

	if _, err = stmt.Exec(taskID, input.Title, input.Description, dueDate, input.Priority, status, actorID, input.AssignedToID, now, now); err != nil {
		return models.Task{}, apperr.Internal(err)
	}

	task, err := s.getTaskByID(taskID)
	if err != nil {
		return models.Task{}, err
	}

	s.notifier.Broadcast(websocket.EventTaskCreated, task)
	if task.AssignedToID != nil {
		s.notifier.SendToUser(*task.AssignedToID, websocket.EventNotification, websocket.NotificationPayload{
			Message: fmt.Sprintf("You have been assigned to task: %s", task.Title),
			TaskID:  task.ID,
		})
	}

	return task, nil
}

// List returns every task the actor created or is assigned to, newest first.
// An actor with no visible tasks gets an empty slice, not an error.
func (s *TaskService) List(actorID string) ([]models.Task, error) {
	rows, err := s.db.Query(taskSelect+`
		WHERE t.creator_id = ? OR t.assigned_to_id = ?
		ORDER BY t.created_at DESC`, actorID, actorID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// Update applies a partial update to a task. The task's ID and creator are
// immutable regardless of the payload. NotFound takes precedence over
// Forbidden for nonexistent tasks.
func (s *TaskService) Update(taskID, actorID string, input UpdateTaskInput) (models.Task, error) {
	task, err := s.getTaskByID(taskID)
	if err != nil {
		return models.Task{}, err
	}

	if !policy.CanUpdate(actorID, task) {
		return models.Task{}, apperr.Authorization("Not authorized to update this task")
	}

	if input.Title != nil {
		if *input.Title == "" {
			return models.Task{}, apperr.Validation("Title is required")
		}
		if len(*input.Title) > 100 {
			return models.Task{}, apperr.Validation("Title too long")
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.DueDate != nil {
		dueDate, err := time.Parse(time.RFC3339, *input.DueDate)
		if err != nil {
			return models.Task{}, apperr.Validation("Invalid date format")
		}
		task.DueDate = dueDate
	}
	if input.Priority != nil {
		if !models.ValidPriority(*input.Priority) {
			return models.Task{}, apperr.Validation("Invalid priority")
		}
		task.Priority = *input.Priority
	}
	if input.Status != nil {
		// No transition guard: any status may follow any other.
		if !models.ValidStatus(*input.Status) {
			return models.Task{}, apperr.Validation("Invalid status")
		}
		task.Status = *input.Status
	}
	if input.AssignedToID != nil {
		if err := s.checkAssignee(*input.AssignedToID); err != nil {
			return models.Task{}, err
		}
		task.AssignedToID = input.AssignedToID
	}

	task.UpdatedAt = time.Now().UTC()

	_, err = s.db.Exec(`
		UPDATE tasks SET title = ?, description = ?, due_date = ?, priority = ?, status = ?, assigned_to_id = ?, updated_at = ?
		WHERE id = ?`,
		task.Title, task.Description, task.DueDate, task.Priority, task.Status, task.AssignedToID, task.UpdatedAt, task.ID)
	if err != nil {
		return models.Task{}, apperr.Internal(err)
	}

	// A moved deadline re-arms the due-date reminder.
	if input.DueDate != nil {
		if _, err := s.db.Exec("UPDATE tasks SET due_notified = 0 WHERE id = ?", task.ID); err != nil {
			return models.Task{}, apperr.Internal(err)
		}
	}

	task, err = s.getTaskByID(taskID)
	if err != nil {
		return models.Task{}, err
	}

	// Broadcast to every connected client; visibility is re-applied when
	// the client re-fetches.
	s.notifier.Broadcast(websocket.EventTaskUpdated, task)

	return task, nil
}

// Delete removes a task. Only the creator may delete; the broadcast carries
// the task ID alone.
func (s *TaskService) Delete(taskID, actorID string) error {
	task, err := s.getTaskByID(taskID)
	if err != nil {
		return err
	}

	if !policy.CanDelete(actorID, task) {
		return apperr.Authorization("Not authorized to delete this task")
	}

	if _, err := s.db.Exec("DELETE FROM tasks WHERE id = ?", taskID); err != nil {
		return apperr.Internal(err)
	}

	s.notifier.Broadcast(websocket.EventTaskDeleted, taskID)
	return nil
}

// checkAssignee validates the assignee ID format and that the user exists.
func (s *TaskService) checkAssignee(assigneeID string) error {
	if _, err := uuid.Parse(assigneeID); err != nil {
		return apperr.Validation("Invalid assignee id")
	}
	var exists int
	err := s.db.QueryRow("SELECT 1 FROM users WHERE id = ?", assigneeID).Scan(&exists)
	if err == sql.ErrNoRows {
		return apperr.Validation("Assignee not found")
	}
	if err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (s *TaskService) getTaskByID(id string) (models.Task, error) {
	row := s.db.QueryRow(taskSelect+" WHERE t.id = ?", id)
	task, err := scanTask(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Task{}, apperr.NotFound("Task not found")
		}
		return models.Task{}, apperr.Internal(err)
	}
	return task, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row rowScanner) (models.Task, error) {
	var task models.Task
	var description, assignedToID sql.NullString
	var creatorName, creatorEmail, assigneeName, assigneeEmail sql.NullString

	err := row.Scan(
		&task.ID, &task.Title, &description, &task.DueDate, &task.Priority, &task.Status,
		&task.CreatorID, &assignedToID, &task.CreatedAt, &task.UpdatedAt,
		&creatorName, &creatorEmail, &assigneeName, &assigneeEmail,
	)
	if err != nil {
		return models.Task{}, err
	}

	task.Description = description.String
	task.Creator = &models.UserSummary{ID: task.CreatorID, Name: creatorName.String, Email: creatorEmail.String}
	if assignedToID.Valid {
		task.AssignedToID = &assignedToID.String
		task.Assignee = &models.UserSummary{ID: assignedToID.String, Name: assigneeName.String, Email: assigneeEmail.String}
	}
	return task, nil
}
