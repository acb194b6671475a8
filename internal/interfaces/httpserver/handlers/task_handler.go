package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	domain "tasknest/internal/domain/task"
	"tasknest/internal/infrastructure/auth"
	"tasknest/internal/interfaces/httpserver/middlewares"
	"tasknest/internal/interfaces/httpserver/requests"
	"tasknest/internal/interfaces/httpserver/responses"
)

// TaskService is the slice of the task domain the handler needs.
type TaskService interface {
	Create(ctx context.Context, userID uuid.UUID, params domain.CreateParams) (*domain.Task, error)
	List(ctx context.Context, userID uuid.UUID, filter domain.Filter) ([]domain.Task, int64, error)
	Get(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)
	Update(ctx context.Context, userID, taskID uuid.UUID, params domain.UpdateParams) (*domain.Task, error)
	Complete(ctx context.Context, userID, taskID uuid.UUID, completed *bool) (*domain.Task, error)
	Delete(ctx context.Context, userID, taskID uuid.UUID) error
}

// TaskHandler exposes the task CRUD endpoints under /api/:user_id/tasks.
type TaskHandler struct {
	service TaskService
	log     zerolog.Logger
}

// NewTaskHandler constructs the handler.
func NewTaskHandler(service TaskService, log zerolog.Logger) *TaskHandler {
	return &TaskHandler{
		service: service,
		log:     log.With().Str("handler", "task").Logger(),
	}
}

// Create handles POST /api/:user_id/tasks
// @Summary Create a task
// @Tags Tasks
// @Accept json
// @Produce json
// @Param user_id path string true "User ID"
// @Param request body requests.CreateTaskRequest true "Task"
// @Success 201 {object} responses.Task
// @Failure 403 {object} responses.ErrorBody
// @Router /api/{user_id}/tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	userID, ok := h.authorize(c)
	if !ok {
		return
	}

	var req requests.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "title is required")
		return
	}

	t, err := h.service.Create(c.Request.Context(), userID, domain.CreateParams{
		Title:       req.Title,
		Description: req.Description,
		Status:      statusPtr(req.Status),
		Priority:    priorityPtr(req.Priority),
	})
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, responses.NewTask(t))
}

// List handles GET /api/:user_id/tasks
// @Summary List tasks
// @Tags Tasks
// @Produce json
// @Param user_id path string true "User ID"
// @Param completed query bool false "Filter by completion"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} responses.TaskList
// @Router /api/{user_id}/tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	userID, ok := h.authorize(c)
	if !ok {
		return
	}

	filter := domain.Filter{Limit: 50}
	if raw := c.Query("completed"); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			responses.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "completed must be true or false")
			return
		}
		filter.Completed = &completed
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > 200 {
			responses.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "limit must be between 1 and 200")
			return
		}
		filter.Limit = limit
	}
	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			responses.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "offset must be non-negative")
			return
		}
		filter.Offset = offset
	}

	tasks, total, err := h.service.List(c.Request.Context(), userID, filter)
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, responses.NewTaskList(tasks, total, filter.Limit, filter.Offset))
}

// Get handles GET /api/:user_id/tasks/:task_id
// @Summary Get a task
// @Tags Tasks
// @Produce json
// @Param user_id path string true "User ID"
// @Param task_id path string true "Task ID"
// @Success 200 {object} responses.Task
// @Failure 404 {object} responses.ErrorBody
// @Router /api/{user_id}/tasks/{task_id} [get]
func (h *TaskHandler) Get(c *gin.Context) {
	userID, ok := h.authorize(c)
	if !ok {
		return
	}
	taskID, ok := h.taskID(c)
	if !ok {
		return
	}

	t, err := h.service.Get(c.Request.Context(), userID, taskID)
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, responses.NewTask(t))
}

// Update handles PUT /api/:user_id/tasks/:task_id
// @Summary Update a task
// @Tags Tasks
// @Accept json
// @Produce json
// @Param user_id path string true "User ID"
// @Param task_id path string true "Task ID"
// @Param request body requests.UpdateTaskRequest true "Fields to update"
// @Success 200 {object} responses.Task
// @Failure 404 {object} responses.ErrorBody
// @Router /api/{user_id}/tasks/{task_id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	userID, ok := h.authorize(c)
	if !ok {
		return
	}
	taskID, ok := h.taskID(c)
	if !ok {
		return
	}

	var req requests.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "request body is not valid JSON")
		return
	}

	t, err := h.service.Update(c.Request.Context(), userID, taskID, domain.UpdateParams{
		Title:       req.Title,
		Description: req.Description,
		Status:      statusPtr(req.Status),
		Priority:    priorityPtr(req.Priority),
		Completed:   req.Completed,
	})
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, responses.NewTask(t))
}

// Complete handles PATCH /api/:user_id/tasks/:task_id/complete. Without a
// body it toggles; with {"completed": bool} it forces the given state.
// @Summary Toggle or set task completion
// @Tags Tasks
// @Accept json
// @Produce json
// @Param user_id path string true "User ID"
// @Param task_id path string true "Task ID"
// @Param request body requests.CompleteTaskRequest false "Target state"
// @Success 200 {object} responses.Task
// @Failure 404 {object} responses.ErrorBody
// @Router /api/{user_id}/tasks/{task_id}/complete [patch]
func (h *TaskHandler) Complete(c *gin.Context) {
	userID, ok := h.authorize(c)
	if !ok {
		return
	}
	taskID, ok := h.taskID(c)
	if !ok {
		return
	}

	var req requests.CompleteTaskRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "request body is not valid JSON")
			return
		}
	}

	t, err := h.service.Complete(c.Request.Context(), userID, taskID, req.Completed)
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, responses.NewTask(t))
}

// Delete handles DELETE /api/:user_id/tasks/:task_id
// @Summary Delete a task
// @Tags Tasks
// @Param user_id path string true "User ID"
// @Param task_id path string true "Task ID"
// @Success 204
// @Failure 404 {object} responses.ErrorBody
// @Router /api/{user_id}/tasks/{task_id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	userID, ok := h.authorize(c)
	if !ok {
		return
	}
	taskID, ok := h.taskID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, taskID); err != nil {
		responses.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TaskHandler) authorize(c *gin.Context) (uuid.UUID, bool) {
	authenticated, ok := middlewares.AuthenticatedUser(c)
	if !ok {
		responses.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "authentication required")
		return uuid.Nil, false
	}
	userID, err := auth.AuthorizeOwner(authenticated, c.Param("user_id"))
	if err != nil {
		responses.HandleError(c, err)
		return uuid.Nil, false
	}
	return userID, true
}

func (h *TaskHandler) taskID(c *gin.Context) (uuid.UUID, bool) {
	taskID, err := uuid.Parse(c.Param("task_id"))
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "INVALID_TASK_ID_FORMAT", "task id in path is not a valid UUID")
		return uuid.Nil, false
	}
	return taskID, true
}

func statusPtr(raw *string) *domain.Status {
	if raw == nil {
		return nil
	}
	s := domain.Status(*raw)
	return &s
}

func priorityPtr(raw *string) *domain.Priority {
	if raw == nil {
		return nil
	}
	p := domain.Priority(*raw)
	return &p
}
