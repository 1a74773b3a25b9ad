package tools

import (
	"context"
	"encoding/json"

	"taskmcp/internal/service"
)

// NextTask returns the earliest pending task without claiming it.
type NextTask struct{}

func (NextTask) Name() string            { return "next-task" }
func (NextTask) Description() string     { return "Get the next pending task." }
func (NextTask) Schema() json.RawMessage { return emptySchema }

func (t NextTask) Invoke(ctx context.Context, svc service.Service, args json.RawMessage) (any, error) {
	return t.Run(svc), nil
}

// Run returns the next pending task, if any.
func (NextTask) Run(svc service.Service) TaskResult {
	return maybe(svc.Next())
}
