package task

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Status tracks the lifecycle of a task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Valid reports whether the status is one of the known values.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusInProgress || s == StatusCompleted
}

// Priority orders tasks by importance.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether the priority is one of the known values.
func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// MaxTitleLength bounds task titles.
const MaxTitleLength = 100

// Task represents a single to-do item owned by exactly one user.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	UserID      uuid.UUID  `json:"user_id"`
	Deleted     bool       `json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Completed derives the boolean completion flag from the canonical status enum.
func (t *Task) Completed() bool {
	return t.Status == StatusCompleted
}

// Filter narrows task listings.
type Filter struct {
	Completed *bool
	Limit     int
	Offset    int
}

// Repository exposes owner-scoped persistence for tasks. Every lookup filters
// by owner id; soft-deleted rows are invisible to all queries.
type Repository interface {
	Create(ctx context.Context, t *Task) error
	FindByID(ctx context.Context, userID, taskID uuid.UUID) (*Task, error)
	List(ctx context.Context, userID uuid.UUID, filter Filter) ([]Task, int64, error)
	Save(ctx context.Context, t *Task) error
}
