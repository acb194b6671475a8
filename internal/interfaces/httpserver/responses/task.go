package responses

import (
	"time"

	"github.com/google/uuid"

	"tasknest/internal/domain/task"
)

// Task is the wire shape of a task. Completed is derived from the status so
// clients that only care about done/not-done need not know the enum.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	Completed   bool       `json:"completed"`
	UserID      uuid.UUID  `json:"user_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// TaskList is a paginated task listing.
type TaskList struct {
	Tasks  []Task `json:"tasks"`
	Total  int64  `json:"total"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

// NewTask converts a domain task to its wire shape.
func NewTask(t *task.Task) Task {
	return Task{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		Completed:   t.Completed(),
		UserID:      t.UserID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		CompletedAt: t.CompletedAt,
	}
}

// NewTaskList converts a page of domain tasks to the wire shape.
func NewTaskList(tasks []task.Task, total int64, limit, offset int) TaskList {
	out := make([]Task, 0, len(tasks))
	for i := range tasks {
		out = append(out, NewTask(&tasks[i]))
	}
	return TaskList{Tasks: out, Total: total, Limit: limit, Offset: offset}
}
