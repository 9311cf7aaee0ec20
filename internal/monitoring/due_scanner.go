package monitoring

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/taskhive/taskhive-be/internal/models"
	"github.com/taskhive/taskhive-be/internal/services"
	"github.com/taskhive/taskhive-be/internal/websocket"
)

// DueScanner periodically reminds assignees of unfinished tasks whose due
// date is approaching. Each task reminds at most once; delivery is
// best-effort like every other channel publish.
type DueScanner struct {
	db       *sql.DB
	notifier services.Notifier
	spec     string
	cron     *cron.Cron
}

// NewDueScanner creates a scanner driven by the given cron expression.
func NewDueScanner(db *sql.DB, notifier services.Notifier, spec string) *DueScanner {
	return &DueScanner{db: db, notifier: notifier, spec: spec}
}

// Start schedules the scan. Returns an error for an invalid cron expression.
func (s *DueScanner) Start() error {
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.spec, s.Scan); err != nil {
		return fmt.Errorf("invalid reminder cron expression %q: %w", s.spec, err)
	}
	s.cron.Start()
	log.Info().Str("cron", s.spec).Msg("Due-date reminder scanner started")
	return nil
}

// Stop halts the scanner, waiting for an in-flight scan to finish.
func (s *DueScanner) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

// Scan notifies assignees of tasks due within the next 24 hours that have
// not been reminded yet, then flags them so they remind only once.
func (s *DueScanner) Scan() {
	cutoff := time.Now().UTC().Add(24 * time.Hour)

	rows, err := s.db.Query(`
		SELECT id, title, assigned_to_id FROM tasks
		WHERE assigned_to_id IS NOT NULL
		  AND status != ?
		  AND due_notified = 0
		  AND due_date <= ?`,
		models.StatusCompleted, cutoff)
	if err != nil {
		log.Error().Err(err).Msg("Due scan query failed")
		return
	}
	defer rows.Close()

	type reminder struct {
		taskID   string
		title    string
		assignee string
	}
	var due []reminder
	for rows.Next() {
		var r reminder
		if err := rows.Scan(&r.taskID, &r.title, &r.assignee); err != nil {
			log.Error().Err(err).Msg("Due scan row failed")
			return
		}
		due = append(due, r)
	}
	if err := rows.Err(); err != nil {
		log.Error().Err(err).Msg("Due scan failed")
		return
	}

	for _, r := range due {
		s.notifier.SendToUser(r.assignee, websocket.EventNotification, websocket.NotificationPayload{
			Message: fmt.Sprintf("Task due soon: %s", r.title),
			TaskID:  r.taskID,
		})
		if _, err := s.db.Exec("UPDATE tasks SET due_notified = 1 WHERE id = ?", r.taskID); err != nil {
			log.Error().Err(err).Str("task_id", r.taskID).Msg("Failed to flag reminded task")
		}
	}
}
