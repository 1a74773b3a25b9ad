package tools

import (
	"context"
	"encoding/json"

	"taskmcp/internal/service"
)

// GetTask fetches a single task.
type GetTask struct{}

// GetTaskInput holds get-task arguments.
type GetTaskInput struct {
	TaskID string `json:"task_id"`
}

var getTaskSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    ` + taskIDProperty + `
  },
  "required": ["task_id"]
}`)

func (GetTask) Name() string            { return "get-task" }
func (GetTask) Description() string     { return "Get details for a specific task." }
func (GetTask) Schema() json.RawMessage { return getTaskSchema }

func (t GetTask) Invoke(ctx context.Context, svc service.Service, args json.RawMessage) (any, error) {
	in, err := decodeArgs[GetTaskInput](t.Name(), args)
	if err != nil {
		return nil, err
	}
	return t.Run(svc, in), nil
}

// Run looks the task up.
func (GetTask) Run(svc service.Service, in GetTaskInput) TaskResult {
	return maybe(svc.Get(in.TaskID))
}
