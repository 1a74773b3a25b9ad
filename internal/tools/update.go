package tools

import (
	"context"
	"encoding/json"

	"taskmcp/internal/service"
)

// UpdateTask changes a task's title and/or description.
type UpdateTask struct{}

// UpdateTaskInput holds update-task arguments.
// An omitted or null field leaves the task's value unchanged.
type UpdateTaskInput struct {
	TaskID      string                   `json:"task_id"`
	Title       service.Optional[string] `json:"title"`
	Description service.Optional[string] `json:"description"`
}

var updateTaskSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    ` + taskIDProperty + `,
    "title": {"type": ["string", "null"], "description": "New title; omit to keep the current one"},
    "description": {"type": ["string", "null"], "description": "New description; omit to keep the current one"}
  },
  "required": ["task_id"]
}`)

func (UpdateTask) Name() string            { return "update-task" }
func (UpdateTask) Description() string     { return "Update task details." }
func (UpdateTask) Schema() json.RawMessage { return updateTaskSchema }

func (t UpdateTask) Invoke(ctx context.Context, svc service.Service, args json.RawMessage) (any, error) {
	in, err := decodeArgs[UpdateTaskInput](t.Name(), args)
	if err != nil {
		return nil, err
	}
	return t.Run(svc, in), nil
}

// Run applies the update.
func (UpdateTask) Run(svc service.Service, in UpdateTaskInput) TaskResult {
	return maybe(svc.Update(in.TaskID, service.Update{
		Title:       in.Title,
		Description: in.Description,
	}))
}
