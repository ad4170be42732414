package domain

import (
	"strings"
	"time"

	"github.com/tidytask/tidytask-backend/internal/apperr"
)

type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

const maxTitleLen = 255

// Task is a unit of work inside a project. UserID duplicates the project's
// owner so authorization checks never need a join. Instances are immutable:
// Update returns a fresh copy.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	ProjectID   int64      `json:"project_id"`
	UserID      int64      `json:"user_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// New builds an unsaved task. Empty status and priority fall back to todo
// and medium. A due date in the past is rejected here; Update deliberately
// performs no such re-check so that overdue tasks stay editable.
func New(title string, projectID, userID int64, description *string, status Status, priority Priority, dueDate *time.Time) (*Task, error) {
	if status == "" {
		status = StatusTodo
	}
	if priority == "" {
		priority = PriorityMedium
	}

	now := time.Now()
	t := &Task{
		Title:       title,
		Description: description,
		Status:      status,
		Priority:    priority,
		DueDate:     dueDate,
		ProjectID:   projectID,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := t.validate(); err != nil {
		return nil, err
	}
	if dueDate != nil && dueDate.Before(now) {
		return nil, apperr.Validationf("due date cannot be in the past")
	}
	return t, nil
}

// Update returns a copy with the non-nil fields applied and UpdatedAt
// refreshed. The owner never changes; the project may be re-pointed (the
// service layer verifies the target project first).
func (t *Task) Update(title, description *string, status *Status, priority *Priority, dueDate *time.Time, projectID *int64) (*Task, error) {
	if t.IsNew() {
		return nil, apperr.Validationf("cannot update unsaved task")
	}

	next := *t
	if title != nil {
		next.Title = *title
	}
	if description != nil {
		next.Description = description
	}
	if status != nil {
		next.Status = *status
	}
	if priority != nil {
		next.Priority = *priority
	}
	if dueDate != nil {
		next.DueDate = dueDate
	}
	if projectID != nil {
		next.ProjectID = *projectID
	}
	next.UpdatedAt = time.Now()

	if err := next.validate(); err != nil {
		return nil, err
	}
	return &next, nil
}

func (t *Task) MarkCompleted() (*Task, error) {
	s := StatusCompleted
	return t.Update(nil, nil, &s, nil, nil, nil)
}

func (t *Task) MarkInProgress() (*Task, error) {
	s := StatusInProgress
	return t.Update(nil, nil, &s, nil, nil, nil)
}

func (t *Task) MarkTodo() (*Task, error) {
	s := StatusTodo
	return t.Update(nil, nil, &s, nil, nil, nil)
}

func (t *Task) IsNew() bool {
	return t.ID == 0
}

// IsOverdue reports whether the task has an elapsed due date and is not done.
func (t *Task) IsOverdue() bool {
	return t.DueDate != nil && t.DueDate.Before(time.Now()) && t.Status != StatusCompleted
}

func (t *Task) validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return apperr.Validationf("task title cannot be empty")
	}
	if len(t.Title) > maxTitleLen {
		return apperr.Validationf("task title cannot exceed %d characters", maxTitleLen)
	}
	if !t.Status.Valid() {
		return apperr.Validationf("invalid task status %q", t.Status)
	}
	if !t.Priority.Valid() {
		return apperr.Validationf("invalid task priority %q", t.Priority)
	}
	return nil
}
