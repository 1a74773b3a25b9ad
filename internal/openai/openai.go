// Package openai translates between the tool registry and the OpenAI
// function-calling format.
package openai

import (
	"context"
	"encoding/json"
	"strings"

	"taskmcp/internal/tools"
)

// FunctionTool is an entry of the OpenAI "tools" request array.
type FunctionTool struct {
	Type     string   `json:"type"`
	Function Function `json:"function"`
}

// Function describes a callable function.
type Function struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

// ToolCall is a function call requested by the model.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type,omitempty"`
	Function FunctionCall `json:"function"`
}

// FunctionCall carries the function name and its JSON-encoded arguments.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Message is a "tool" role message answering a ToolCall.
type Message struct {
	Role       string `json:"role"`
	ToolCallID string `json:"tool_call_id"`
	Name       string `json:"name"`
	Content    string `json:"content"`
}

// Functions converts a tool catalog to OpenAI function tools.
func Functions(catalog []tools.Descriptor) []FunctionTool {
	out := make([]FunctionTool, 0, len(catalog))
	for _, d := range catalog {
		out = append(out, FunctionTool{
			Type: "function",
			Function: Function{
				Name:        d.Name,
				Description: d.Description,
				Parameters:  d.InputSchema,
			},
		})
	}
	return out
}

// Executor runs OpenAI tool calls through a dispatcher.
type Executor struct {
	dispatcher *tools.Dispatcher
}

// NewExecutor creates an executor backed by d.
func NewExecutor(d *tools.Dispatcher) *Executor {
	return &Executor{dispatcher: d}
}

// Execute runs calls in order and returns one message per call.
// A failed call yields a message whose content is {"error": "..."}.
func (e *Executor) Execute(ctx context.Context, calls []ToolCall) []Message {
	messages := make([]Message, 0, len(calls))
	for _, call := range calls {
		messages = append(messages, Message{
			Role:       "tool",
			ToolCallID: call.ID,
			Name:       call.Function.Name,
			Content:    e.run(ctx, call),
		})
	}
	return messages
}

func (e *Executor) run(ctx context.Context, call ToolCall) string {
	var raw json.RawMessage
	if args := strings.TrimSpace(call.Function.Arguments); args != "" {
		raw = json.RawMessage(args)
	}

	result, err := e.dispatcher.CallJSON(ctx, call.Function.Name, raw)
	if err != nil {
		return errorContent(err)
	}

	data, err := json.Marshal(result)
	if err != nil {
		return errorContent(err)
	}
	return string(data)
}

func errorContent(err error) string {
	data, _ := json.Marshal(map[string]string{"error": err.Error()})
	return string(data)
}
