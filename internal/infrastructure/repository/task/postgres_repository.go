package task

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "tasknest/internal/domain/task"
	"tasknest/internal/infrastructure/database/entities"
	"tasknest/internal/utils/apierrors"
)

// PostgresRepository provides persistence for tasks. Soft-deleted rows are
// filtered out of every query.
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new task record.
func (r *PostgresRepository) Create(ctx context.Context, t *domain.Task) error {
	entity := entities.TaskFromDomain(t)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return apierrors.New(apierrors.LayerRepository, apierrors.TypeDatabase,
			"TASK_CREATE_FAILED", "failed to create task", err)
	}
	t.CreatedAt = entity.CreatedAt
	t.UpdatedAt = entity.UpdatedAt
	return nil
}

// FindByID fetches a live task owned by userID.
func (r *PostgresRepository) FindByID(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	var entity entities.Task
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND deleted = false", taskID, userID).
		First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.New(apierrors.LayerRepository, apierrors.TypeNotFound,
				"TASK_NOT_FOUND", "task not found", err)
		}
		return nil, apierrors.New(apierrors.LayerRepository, apierrors.TypeDatabase,
			"TASK_QUERY_FAILED", "failed to query task", err)
	}
	return entity.ToDomain(), nil
}

// List returns userID's live tasks, newest first, with the total count before
// pagination.
func (r *PostgresRepository) List(ctx context.Context, userID uuid.UUID, filter domain.Filter) ([]domain.Task, int64, error) {
	query := r.db.WithContext(ctx).Model(&entities.Task{}).
		Where("user_id = ? AND deleted = false", userID)
	if filter.Completed != nil {
		if *filter.Completed {
			query = query.Where("status = ?", string(domain.StatusCompleted))
		} else {
			query = query.Where("status <> ?", string(domain.StatusCompleted))
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apierrors.New(apierrors.LayerRepository, apierrors.TypeDatabase,
			"TASK_QUERY_FAILED", "failed to count tasks", err)
	}

	var rows []entities.Task
	err := query.Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, apierrors.New(apierrors.LayerRepository, apierrors.TypeDatabase,
			"TASK_QUERY_FAILED", "failed to list tasks", err)
	}

	tasks := make([]domain.Task, 0, len(rows))
	for i := range rows {
		tasks = append(tasks, *rows[i].ToDomain())
	}
	return tasks, total, nil
}

// Save persists the full state of an existing task.
func (r *PostgresRepository) Save(ctx context.Context, t *domain.Task) error {
	entity := entities.TaskFromDomain(t)
	result := r.db.WithContext(ctx).
		Model(&entities.Task{}).
		Where("id = ? AND user_id = ?", t.ID, t.UserID).
		Select("Title", "Description", "Status", "Priority", "Deleted", "CompletedAt").
		Updates(entity)
	if result.Error != nil {
		return apierrors.New(apierrors.LayerRepository, apierrors.TypeDatabase,
			"TASK_UPDATE_FAILED", "failed to update task", result.Error)
	}
	if result.RowsAffected == 0 {
		return apierrors.New(apierrors.LayerRepository, apierrors.TypeNotFound,
			"TASK_NOT_FOUND", "task not found", nil)
	}
	return nil
}
