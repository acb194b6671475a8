package agent

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"

	"tasknest/internal/domain/task"
)

// Toolset binds the agent's tools to the task service. Every execution is
// scoped to the user who sent the message; the model can never name a
// different owner.
type Toolset struct {
	tasks *task.Service
}

// NewToolset creates a toolset over tasks.
func NewToolset(tasks *task.Service) *Toolset {
	return &Toolset{tasks: tasks}
}

// Definitions returns the tool schemas advertised to the model.
func (ts *Toolset) Definitions() []openai.Tool {
	return []openai.Tool{
		functionTool("add_task", "Create a new task for the user.", map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title":       map[string]any{"type": "string", "description": "Short task title, at most 100 characters."},
				"description": map[string]any{"type": "string", "description": "Optional longer description."},
				"priority":    map[string]any{"type": "string", "enum": []string{"low", "medium", "high"}},
			},
			"required": []string{"title"},
		}),
		functionTool("list_tasks", "List the user's tasks, newest first.", map[string]any{
			"type": "object",
			"properties": map[string]any{
				"completed": map[string]any{"type": "boolean", "description": "Only completed (true) or only open (false) tasks."},
				"limit":     map[string]any{"type": "integer", "description": "Maximum number of tasks to return."},
			},
		}),
		functionTool("complete_task", "Mark a task as completed.", map[string]any{
			"type": "object",
			"properties": map[string]any{
				"task_id": map[string]any{"type": "string", "description": "UUID of the task."},
			},
			"required": []string{"task_id"},
		}),
		functionTool("update_task", "Update a task's title, description, status or priority.", map[string]any{
			"type": "object",
			"properties": map[string]any{
				"task_id":     map[string]any{"type": "string", "description": "UUID of the task."},
				"title":       map[string]any{"type": "string"},
				"description": map[string]any{"type": "string"},
				"status":      map[string]any{"type": "string", "enum": []string{"pending", "in_progress", "completed"}},
				"priority":    map[string]any{"type": "string", "enum": []string{"low", "medium", "high"}},
			},
			"required": []string{"task_id"},
		}),
		functionTool("delete_task", "Delete a task.", map[string]any{
			"type": "object",
			"properties": map[string]any{
				"task_id": map[string]any{"type": "string", "description": "UUID of the task."},
			},
			"required": []string{"task_id"},
		}),
	}
}

// Execute runs the named tool with raw JSON arguments on behalf of userID.
// Failures are reported in the Result, never as a Go error, so the model can
// read them and recover.
func (ts *Toolset) Execute(ctx context.Context, userID uuid.UUID, name, arguments string) Result {
	switch name {
	case "add_task":
		return ts.addTask(ctx, userID, arguments)
	case "list_tasks":
		return ts.listTasks(ctx, userID, arguments)
	case "complete_task":
		return ts.completeTask(ctx, userID, arguments)
	case "update_task":
		return ts.updateTask(ctx, userID, arguments)
	case "delete_task":
		return ts.deleteTask(ctx, userID, arguments)
	default:
		return Errf("unknown tool %q", name)
	}
}

func (ts *Toolset) addTask(ctx context.Context, userID uuid.UUID, arguments string) Result {
	var args struct {
		Title       string  `json:"title"`
		Description *string `json:"description"`
		Priority    *string `json:"priority"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return Errf("invalid arguments: %v", err)
	}

	params := task.CreateParams{Title: args.Title, Description: args.Description}
	if args.Priority != nil {
		p := task.Priority(*args.Priority)
		params.Priority = &p
	}

	created, err := ts.tasks.Create(ctx, userID, params)
	if err != nil {
		return Errf("could not create task: %v", err)
	}
	return Ok(created)
}

func (ts *Toolset) listTasks(ctx context.Context, userID uuid.UUID, arguments string) Result {
	var args struct {
		Completed *bool `json:"completed"`
		Limit     int   `json:"limit"`
	}
	if arguments != "" {
		if err := json.Unmarshal([]byte(arguments), &args); err != nil {
			return Errf("invalid arguments: %v", err)
		}
	}

	tasks, total, err := ts.tasks.List(ctx, userID, task.Filter{
		Completed: args.Completed,
		Limit:     args.Limit,
	})
	if err != nil {
		return Errf("could not list tasks: %v", err)
	}
	return Ok(map[string]any{"tasks": tasks, "total": total})
}

func (ts *Toolset) completeTask(ctx context.Context, userID uuid.UUID, arguments string) Result {
	taskID, ok := parseTaskID(arguments)
	if !ok {
		return Errf("task_id must be a valid UUID")
	}
	completed := true
	updated, err := ts.tasks.Complete(ctx, userID, taskID, &completed)
	if err != nil {
		return Errf("could not complete task: %v", err)
	}
	return Ok(updated)
}

func (ts *Toolset) updateTask(ctx context.Context, userID uuid.UUID, arguments string) Result {
	var args struct {
		TaskID      string  `json:"task_id"`
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Status      *string `json:"status"`
		Priority    *string `json:"priority"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return Errf("invalid arguments: %v", err)
	}
	taskID, err := uuid.Parse(args.TaskID)
	if err != nil {
		return Errf("task_id must be a valid UUID")
	}

	params := task.UpdateParams{Title: args.Title, Description: args.Description}
	if args.Status != nil {
		s := task.Status(*args.Status)
		params.Status = &s
	}
	if args.Priority != nil {
		p := task.Priority(*args.Priority)
		params.Priority = &p
	}

	updated, err := ts.tasks.Update(ctx, userID, taskID, params)
	if err != nil {
		return Errf("could not update task: %v", err)
	}
	return Ok(updated)
}

func (ts *Toolset) deleteTask(ctx context.Context, userID uuid.UUID, arguments string) Result {
	taskID, ok := parseTaskID(arguments)
	if !ok {
		return Errf("task_id must be a valid UUID")
	}
	if err := ts.tasks.Delete(ctx, userID, taskID); err != nil {
		return Errf("could not delete task: %v", err)
	}
	return Ok(map[string]any{"deleted": taskID})
}

func parseTaskID(arguments string) (uuid.UUID, bool) {
	var args struct {
		TaskID string `json:"task_id"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return uuid.Nil, false
	}
	taskID, err := uuid.Parse(args.TaskID)
	if err != nil {
		return uuid.Nil, false
	}
	return taskID, true
}

func functionTool(name, description string, parameters map[string]any) openai.Tool {
	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        name,
			Description: description,
			Parameters:  parameters,
		},
	}
}
