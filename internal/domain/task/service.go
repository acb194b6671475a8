package task

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"tasknest/internal/utils/apierrors"
)

// CreateParams carries the caller-supplied fields for a new task.
type CreateParams struct {
	Title       string
	Description *string
	Status      *Status
	Priority    *Priority
}

// UpdateParams carries a partial update; nil fields are left untouched.
type UpdateParams struct {
	Title       *string
	Description *string
	Status      *Status
	Priority    *Priority
	Completed   *bool
}

// Service implements the task use cases on top of a Repository.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a task service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Create validates and persists a new task owned by userID.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, params CreateParams) (*Task, error) {
	title := strings.TrimSpace(params.Title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}

	status := StatusPending
	if params.Status != nil {
		if !params.Status.Valid() {
			return nil, invalidStatusError(string(*params.Status))
		}
		status = *params.Status
	}

	priority := PriorityMedium
	if params.Priority != nil {
		if !params.Priority.Valid() {
			return nil, invalidPriorityError(string(*params.Priority))
		}
		priority = *params.Priority
	}

	t := &Task{
		ID:          uuid.New(),
		Title:       title,
		Description: params.Description,
		Status:      status,
		Priority:    priority,
		UserID:      userID,
	}
	if status == StatusCompleted {
		now := s.now().UTC()
		t.CompletedAt = &now
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// List returns the caller's tasks, newest first, honoring the filter.
func (s *Service) List(ctx context.Context, userID uuid.UUID, filter Filter) ([]Task, int64, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.List(ctx, userID, filter)
}

// Get fetches a single task owned by userID.
func (s *Service) Get(ctx context.Context, userID, taskID uuid.UUID) (*Task, error) {
	return s.repo.FindByID(ctx, userID, taskID)
}

// Update applies a partial update to a task owned by userID.
func (s *Service) Update(ctx context.Context, userID, taskID uuid.UUID, params UpdateParams) (*Task, error) {
	t, err := s.repo.FindByID(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if params.Title != nil {
		title := strings.TrimSpace(*params.Title)
		if err := validateTitle(title); err != nil {
			return nil, err
		}
		t.Title = title
	}
	if params.Description != nil {
		t.Description = params.Description
	}
	if params.Status != nil {
		if !params.Status.Valid() {
			return nil, invalidStatusError(string(*params.Status))
		}
		s.applyStatus(t, *params.Status)
	}
	if params.Completed != nil {
		if *params.Completed {
			s.applyStatus(t, StatusCompleted)
		} else if t.Status == StatusCompleted {
			s.applyStatus(t, StatusPending)
		}
	}
	if params.Priority != nil {
		if !params.Priority.Valid() {
			return nil, invalidPriorityError(string(*params.Priority))
		}
		t.Priority = *params.Priority
	}

	if err := s.repo.Save(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Complete toggles the completion state, or forces it when completed is set.
func (s *Service) Complete(ctx context.Context, userID, taskID uuid.UUID, completed *bool) (*Task, error) {
	t, err := s.repo.FindByID(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	target := !t.Completed()
	if completed != nil {
		target = *completed
	}
	if target {
		s.applyStatus(t, StatusCompleted)
	} else if t.Status == StatusCompleted {
		s.applyStatus(t, StatusPending)
	}

	if err := s.repo.Save(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Delete soft-deletes a task owned by userID. The row survives but is
// excluded from every subsequent query.
func (s *Service) Delete(ctx context.Context, userID, taskID uuid.UUID) error {
	t, err := s.repo.FindByID(ctx, userID, taskID)
	if err != nil {
		return err
	}
	t.Deleted = true
	return s.repo.Save(ctx, t)
}

func (s *Service) applyStatus(t *Task, status Status) {
	if status == StatusCompleted && t.Status != StatusCompleted {
		now := s.now().UTC()
		t.CompletedAt = &now
	}
	if status != StatusCompleted {
		t.CompletedAt = nil
	}
	t.Status = status
}

func validateTitle(title string) error {
	if title == "" {
		return apierrors.New(apierrors.LayerDomain, apierrors.TypeValidation,
			"INVALID_TITLE", "title must not be empty", nil)
	}
	if len([]rune(title)) > MaxTitleLength {
		return apierrors.New(apierrors.LayerDomain, apierrors.TypeValidation,
			"INVALID_TITLE", "title must be at most 100 characters", nil)
	}
	return nil
}

func invalidStatusError(got string) error {
	return apierrors.New(apierrors.LayerDomain, apierrors.TypeValidation,
		"INVALID_STATUS", "status must be one of pending, in_progress, completed", nil).
		WithDetails(map[string]any{"status": got})
}

func invalidPriorityError(got string) error {
	return apierrors.New(apierrors.LayerDomain, apierrors.TypeValidation,
		"INVALID_PRIORITY", "priority must be one of low, medium, high", nil).
		WithDetails(map[string]any{"priority": got})
}
