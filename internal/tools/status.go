package tools

import (
	"context"
	"encoding/json"

	"taskmcp/internal/service"
)

// SetTaskStatus overwrites a task's status. Any status string is accepted.
type SetTaskStatus struct{}

// SetTaskStatusInput holds set-task-status arguments.
type SetTaskStatusInput struct {
	TaskID string `json:"task_id"`
	Status string `json:"status"`
}

var setTaskStatusSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    ` + taskIDProperty + `,
    "status": {"type": "string", "description": "New status, e.g. pending or completed"}
  },
  "required": ["task_id", "status"]
}`)

func (SetTaskStatus) Name() string            { return "set-task-status" }
func (SetTaskStatus) Description() string     { return "Set a task's status." }
func (SetTaskStatus) Schema() json.RawMessage { return setTaskStatusSchema }

func (t SetTaskStatus) Invoke(ctx context.Context, svc service.Service, args json.RawMessage) (any, error) {
	in, err := decodeArgs[SetTaskStatusInput](t.Name(), args)
	if err != nil {
		return nil, err
	}
	return t.Run(svc, in), nil
}

// Run sets the status. Success is false for an unknown task ID.
func (SetTaskStatus) Run(svc service.Service, in SetTaskStatusInput) SuccessResult {
	return SuccessResult{Success: svc.SetStatus(in.TaskID, in.Status)}
}
