package tools

import (
	"context"
	"encoding/json"

	"taskmcp/internal/service"
)

// GetTasks lists all tasks.
type GetTasks struct{}

func (GetTasks) Name() string            { return "get-tasks" }
func (GetTasks) Description() string     { return "List all tasks." }
func (GetTasks) Schema() json.RawMessage { return emptySchema }

func (t GetTasks) Invoke(ctx context.Context, svc service.Service, args json.RawMessage) (any, error) {
	return t.Run(svc), nil
}

// Run lists all tasks in insertion order.
func (GetTasks) Run(svc service.Service) TasksResult {
	tasks := svc.List()
	if tasks == nil {
		tasks = []service.Task{}
	}
	return TasksResult{Tasks: tasks}
}
