package entities

import (
	"time"

	"github.com/google/uuid"

	"tasknest/internal/domain/task"
)

// Task represents the database schema for tasks
type Task struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CreatedAt   time.Time  `gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime"`
	Title       string     `gorm:"type:varchar(100);not null"`
	Description *string    `gorm:"type:text"`
	Status      string     `gorm:"type:varchar(20);not null;default:'pending';index:idx_task_user_status"`
	Priority    string     `gorm:"type:varchar(10);not null;default:'medium'"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index:idx_task_user_status;index"`
	Deleted     bool       `gorm:"not null;default:false;index"`
	CompletedAt *time.Time `gorm:"type:timestamptz"`
}

// TableName specifies the table name for Task.
func (Task) TableName() string {
	return "tasks"
}

// ToDomain converts the entity to the domain model.
func (e *Task) ToDomain() *task.Task {
	return &task.Task{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Status:      task.Status(e.Status),
		Priority:    task.Priority(e.Priority),
		UserID:      e.UserID,
		Deleted:     e.Deleted,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
		CompletedAt: e.CompletedAt,
	}
}

// TaskFromDomain converts a domain task to its entity.
func TaskFromDomain(t *task.Task) *Task {
	return &Task{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		UserID:      t.UserID,
		Deleted:     t.Deleted,
		CompletedAt: t.CompletedAt,
	}
}
