// Package tools exposes the task operations as named, schema-validated tools.
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"taskmcp/internal/service"
)

// Tool defines a single named operation.
type Tool interface {
	// Name returns the stable tool identifier, e.g. "add-task".
	Name() string

	// Description returns a short human-readable description.
	Description() string

	// Schema returns the JSON Schema of the argument object.
	Schema() json.RawMessage

	// Invoke decodes already-validated arguments and runs the operation.
	Invoke(ctx context.Context, svc service.Service, args json.RawMessage) (any, error)
}

// Descriptor describes a tool for discovery.
type Descriptor struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// Describe returns the discovery descriptor for t.
func Describe(t Tool) Descriptor {
	return Descriptor{
		Name:        t.Name(),
		Description: t.Description(),
		InputSchema: t.Schema(),
	}
}

// Builtin returns the task tools in catalog order.
func Builtin() []Tool {
	return []Tool{
		GetTasks{},
		AddTask{},
		SetTaskStatus{},
		GetTask{},
		NextTask{},
		UpdateTask{},
	}
}

// decodeArgs decodes validated arguments into the tool's input type.
func decodeArgs[T any](tool string, args json.RawMessage) (T, error) {
	var in T
	if len(args) == 0 {
		return in, nil
	}
	if err := json.Unmarshal(args, &in); err != nil {
		return in, &ValidationError{
			Tool:       tool,
			Violations: []Violation{{Message: fmt.Sprintf("malformed arguments: %v", err)}},
		}
	}
	return in, nil
}
