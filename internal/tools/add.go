package tools

import (
	"context"
	"encoding/json"

	"taskmcp/internal/service"
)

// MaxTitleLength is the maximum title length accepted by add-task, in characters.
const MaxTitleLength = 100

// AddTask creates a task.
type AddTask struct{}

// AddTaskInput holds add-task arguments.
type AddTaskInput struct {
	Title       string                   `json:"title"`
	Description service.Optional[string] `json:"description"`
}

var addTaskSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "title": {"type": "string", "minLength": 1, "maxLength": 100, "description": "Short task title"},
    "description": {"type": ["string", "null"], "description": "Longer task description"}
  },
  "required": ["title"]
}`)

func (AddTask) Name() string            { return "add-task" }
func (AddTask) Description() string     { return "Add a new task." }
func (AddTask) Schema() json.RawMessage { return addTaskSchema }

func (t AddTask) Invoke(ctx context.Context, svc service.Service, args json.RawMessage) (any, error) {
	in, err := decodeArgs[AddTaskInput](t.Name(), args)
	if err != nil {
		return nil, err
	}
	return t.Run(svc, in), nil
}

// Run creates the task. A missing or null description becomes "".
func (AddTask) Run(svc service.Service, in AddTaskInput) TaskResult {
	desc, _ := in.Description.Get()
	return present(svc.Add(in.Title, desc))
}
