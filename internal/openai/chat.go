package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskmcp/internal/service"
)

// ModelID is the single model served by the chat endpoint.
const ModelID = "task-manager"

// ErrNoUserMessage is returned for a chat request without a user message.
var ErrNoUserMessage = errors.New("no user message found")

// ChatMessage is one message of a chat conversation.
type ChatMessage struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	Name       string     `json:"name,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// ChatCompletionRequest is the body of POST /v1/chat/completions.
type ChatCompletionRequest struct {
	Model       string         `json:"model" binding:"required"`
	Messages    []ChatMessage  `json:"messages" binding:"required"`
	Temperature *float64       `json:"temperature,omitempty"`
	MaxTokens   *int           `json:"max_tokens,omitempty"`
	Stream      bool           `json:"stream,omitempty"`
	Tools       []FunctionTool `json:"tools,omitempty"`
	ToolChoice  any            `json:"tool_choice,omitempty"`
}

// ChatCompletion is a non-streaming chat completion response.
type ChatCompletion struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

// Choice is a single completion choice.
type Choice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// Usage reports approximate token counts (whitespace-separated words).
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Model describes a model in GET /v1/models.
type Model struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	OwnedBy string `json:"owned_by"`
}

// ModelList is the body of GET /v1/models.
type ModelList struct {
	Object string  `json:"object"`
	Data   []Model `json:"data"`
}

// Finish reasons.
const (
	FinishStop      = "stop"
	FinishToolCalls = "tool_calls"
)

var (
	taskKeywords = []string{"task", "todo", "add", "create", "list", "show", "complete", "done", "update", "delete"}
	addWords     = []string{"add", "create", "new"}
	listWords    = []string{"list", "show", "what"}
	titlePhrases = []string{"add task", "create task", "new task", "add a task"}
)

// Assistant answers chat completions by mapping the last user message to
// add-task or get-tasks and running the call through an Executor.
type Assistant struct {
	executor *Executor
	now      func() time.Time
	newID    func() string
}

// AssistantOption configures an Assistant.
type AssistantOption func(*Assistant)

// WithClock sets the time source for Created timestamps.
func WithClock(now func() time.Time) AssistantOption {
	return func(a *Assistant) {
		a.now = now
	}
}

// WithIDGenerator sets the generator for completion and tool call id suffixes.
func WithIDGenerator(gen func() string) AssistantOption {
	return func(a *Assistant) {
		a.newID = gen
	}
}

// NewAssistant creates an Assistant over executor.
func NewAssistant(executor *Executor, opts ...AssistantOption) *Assistant {
	a := &Assistant{
		executor: executor,
		now:      time.Now,
		newID:    shortID,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Models lists the served models.
func (a *Assistant) Models() ModelList {
	return ModelList{
		Object: "list",
		Data: []Model{{
			ID:      ModelID,
			Object:  "model",
			Created: a.now().Unix(),
			OwnedBy: ModelID,
		}},
	}
}

// Complete answers req. A tool is called only when the request offers
// tools and the last user message asks to add or list tasks; otherwise the
// reply is a canned hint with finish reason "stop".
func (a *Assistant) Complete(ctx context.Context, req ChatCompletionRequest) (ChatCompletion, error) {
	prompt, ok := lastUserMessage(req.Messages)
	if !ok {
		return ChatCompletion{}, ErrNoUserMessage
	}

	if len(req.Tools) > 0 && containsAny(strings.ToLower(prompt), taskKeywords) {
		if call, ok := a.planCall(prompt); ok {
			msgs := a.executor.Execute(ctx, []ToolCall{call})
			content := describeResult(msgs[0].Content)
			return a.completion(req.Model, prompt, ChatMessage{
				Role:      "assistant",
				Content:   content,
				ToolCalls: []ToolCall{call},
			}, FinishToolCalls), nil
		}
	}

	return a.completion(req.Model, prompt, ChatMessage{
		Role:    "assistant",
		Content: cannedReply(prompt),
	}, FinishStop), nil
}

func (a *Assistant) completion(model, prompt string, msg ChatMessage, finish string) ChatCompletion {
	promptTokens := len(strings.Fields(prompt))
	completionTokens := len(strings.Fields(msg.Content))
	return ChatCompletion{
		ID:      "chatcmpl-" + a.newID(),
		Object:  "chat.completion",
		Created: a.now().Unix(),
		Model:   model,
		Choices: []Choice{{Index: 0, Message: msg, FinishReason: finish}},
		Usage: Usage{
			PromptTokens:     promptTokens,
			CompletionTokens: completionTokens,
			TotalTokens:      promptTokens + completionTokens,
		},
	}
}

// planCall picks the tool call for prompt, if any.
func (a *Assistant) planCall(prompt string) (ToolCall, bool) {
	lower := strings.ToLower(prompt)
	if !strings.Contains(lower, "task") {
		return ToolCall{}, false
	}

	var name string
	var args any
	switch {
	case containsAny(lower, addWords):
		name = "add-task"
		args = map[string]string{"title": extractTitle(prompt), "description": ""}
	case containsAny(lower, listWords):
		name = "get-tasks"
		args = map[string]any{}
	default:
		return ToolCall{}, false
	}

	data, err := json.Marshal(args)
	if err != nil {
		return ToolCall{}, false
	}
	return ToolCall{
		ID:       "call_" + a.newID(),
		Type:     "function",
		Function: FunctionCall{Name: name, Arguments: string(data)},
	}, true
}

// describeResult renders a tool message's content as a chat reply.
func describeResult(content string) string {
	var env struct {
		Tasks *[]service.Task `json:"tasks"`
		Task  *service.Task   `json:"task"`
		Error string          `json:"error"`
	}
	if err := json.Unmarshal([]byte(content), &env); err != nil {
		return content
	}

	switch {
	case env.Error != "":
		return "Error: " + env.Error
	case env.Tasks != nil:
		if len(*env.Tasks) == 0 {
			return "You don't have any tasks yet."
		}
		var b strings.Builder
		b.WriteString("Here are your current tasks:")
		for _, t := range *env.Tasks {
			fmt.Fprintf(&b, "\n- %s (%s)", t.Title, t.Status)
		}
		return b.String()
	case env.Task != nil:
		return fmt.Sprintf("Created task: '%s' (ID: %s)", env.Task.Title, env.Task.ID)
	default:
		return "Task operation completed successfully."
	}
}

func cannedReply(prompt string) string {
	lower := strings.ToLower(prompt)
	if !strings.Contains(lower, "task") {
		return "I'm a task management assistant. I can help you add, list, and manage your tasks. What would you like to do?"
	}
	switch {
	case containsAny(lower, addWords):
		return "I can help you add tasks! What task would you like to create?"
	case containsAny(lower, listWords):
		return "I can show you your tasks! Let me check what you have..."
	default:
		return "I can help you manage your tasks. You can ask me to add new tasks or show your current tasks."
	}
}

// extractTitle takes the first quoted span, else the text after an
// "add task" style phrase up to the first sentence break, else the prompt.
func extractTitle(prompt string) string {
	if parts := strings.Split(prompt, `"`); len(parts) >= 3 {
		return parts[1]
	}

	lower := strings.ToLower(prompt)
	for _, phrase := range titlePhrases {
		idx := strings.Index(lower, phrase)
		if idx < 0 || idx+len(phrase) > len(prompt) {
			continue
		}
		rest := strings.TrimSpace(prompt[idx+len(phrase):])
		if rest == "" {
			continue
		}
		if cut := strings.IndexAny(rest, ".!?\n"); cut >= 0 {
			rest = rest[:cut]
		}
		return strings.TrimSpace(rest)
	}

	title := strings.ReplaceAll(prompt, "add task", "")
	title = strings.ReplaceAll(title, "create task", "")
	return strings.TrimSpace(title)
}

func lastUserMessage(msgs []ChatMessage) (string, bool) {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == "user" {
			return msgs[i].Content, true
		}
	}
	return "", false
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
