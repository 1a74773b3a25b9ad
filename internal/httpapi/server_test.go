package httpapi_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskmcp/internal/httpapi"
	"taskmcp/internal/mcpserver"
	"taskmcp/internal/openai"
	"taskmcp/internal/service"
	"taskmcp/internal/store"
	"taskmcp/internal/tools"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newServer(t *testing.T) (*httpapi.Server, *store.Store) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	r, err := tools.NewDefaultRegistry()
	require.NoError(t, err)
	st := store.New()
	d := tools.NewDispatcher(r, st, tools.WithLogger(log))
	mcp := mcpserver.New(d, mcpserver.Info{Name: "task-mcp-server", Version: "test"}, log)

	return httpapi.NewServer(d,
		httpapi.WithLogger(log),
		httpapi.WithVersion("test"),
		httpapi.WithMCPHandler(mcp.HTTPHandler()),
	), st
}

func do(t *testing.T, s *httpapi.Server, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	s, _ := newServer(t)

	w := do(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestIndex(t *testing.T) {
	s, _ := newServer(t)

	w := do(t, s, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)

	info := decode[map[string]any](t, w)
	assert.Equal(t, "Task Manager API", info["name"])
	assert.Equal(t, "test", info["version"])
	endpoints := info["endpoints"].(map[string]any)
	assert.Equal(t, "/execute", endpoints["execute"])
	assert.Equal(t, "/v1/chat/completions", endpoints["chat"])
}

func TestTools(t *testing.T) {
	s, _ := newServer(t)

	w := do(t, s, http.MethodGet, "/tools", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var defs []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &defs))
	require.Len(t, defs, 6)
	for _, d := range defs {
		assert.NotContains(t, d, "inputSchema")
	}

	assert.JSONEq(t, `"get-tasks"`, string(defs[0]["name"]))
	assert.JSONEq(t, `"List all tasks."`, string(defs[0]["description"]))
	assert.JSONEq(t, `{"type":"object","properties":{},"required":[]}`, string(defs[0]["parameters"]))

	var params struct {
		Type       string                     `json:"type"`
		Properties map[string]json.RawMessage `json:"properties"`
		Required   []string                   `json:"required"`
	}
	require.NoError(t, json.Unmarshal(defs[1]["parameters"], &params))
	assert.Equal(t, "object", params.Type)
	assert.Contains(t, params.Properties, "title")
	assert.Contains(t, params.Properties, "description")
	assert.Equal(t, []string{"title"}, params.Required)
}

func TestExecute(t *testing.T) {
	s, st := newServer(t)

	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantOK     bool
		wantError  string
	}{
		{
			name:       "add task",
			body:       map[string]any{"tool_name": "add-task", "arguments": map[string]any{"title": "ship"}},
			wantStatus: http.StatusOK,
			wantOK:     true,
		},
		{
			name:       "wrapped input",
			body:       map[string]any{"tool_name": "add-task", "arguments": map[string]any{"input": map[string]any{"title": "wrapped"}}},
			wantStatus: http.StatusOK,
			wantOK:     true,
		},
		{
			name:       "validation",
			body:       map[string]any{"tool_name": "add-task", "arguments": map[string]any{}},
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid arguments for add-task",
		},
		{
			name:       "unknown tool",
			body:       map[string]any{"tool_name": "drop-tasks"},
			wantStatus: http.StatusNotFound,
			wantError:  "unknown tool: drop-tasks",
		},
		{
			name:       "missing tool name",
			body:       map[string]any{"arguments": map[string]any{}},
			wantStatus: http.StatusBadRequest,
			wantError:  "ToolName",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, "/execute", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)

			resp := decode[map[string]any](t, w)
			assert.Equal(t, tt.wantOK, resp["success"])
			if tt.wantError != "" {
				assert.Contains(t, resp["error"], tt.wantError)
			} else {
				assert.NotNil(t, resp["result"])
			}
		})
	}
	assert.Equal(t, 2, st.Len())
}

func TestExecute_NotFoundIsSuccess(t *testing.T) {
	s, _ := newServer(t)

	w := do(t, s, http.MethodPost, "/execute", map[string]any{
		"tool_name": "set-task-status",
		"arguments": map[string]any{"task_id": "missing", "status": "completed"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"result":{"success":false}}`, w.Body.String())
}

func TestTasksEndpoints(t *testing.T) {
	s, st := newServer(t)

	w := do(t, s, http.MethodPost, "/tasks", map[string]any{"title": "from body", "description": "d"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[tools.TaskResult](t, w)
	require.True(t, created.Found())
	assert.Equal(t, "d", created.Task.Description)

	w = do(t, s, http.MethodPost, "/tasks?title=from+query", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	fromQuery := decode[tools.TaskResult](t, w)
	assert.Equal(t, "from query", fromQuery.Task.Title)
	assert.Equal(t, "", fromQuery.Task.Description)

	w = do(t, s, http.MethodPost, "/tasks", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s, http.MethodGet, "/tasks", nil)
	require.Equal(t, http.StatusOK, w.Code)
	listed := decode[tools.TasksResult](t, w)
	require.Len(t, listed.Tasks, 2)
	assert.Equal(t, "from body", listed.Tasks[0].Title)

	w = do(t, s, http.MethodGet, "/tasks/"+created.Task.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[tools.TaskResult](t, w)
	assert.Equal(t, *created.Task, *got.Task)

	w = do(t, s, http.MethodGet, "/tasks/unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"task not found"}`, w.Body.String())

	assert.Equal(t, 2, st.Len())
}

func TestOpenAIRoutes(t *testing.T) {
	s, st := newServer(t)
	task := st.Add("review", "")

	w := do(t, s, http.MethodGet, "/v1/tools", nil)
	require.Equal(t, http.StatusOK, w.Code)
	fns := decode[[]openai.FunctionTool](t, w)
	assert.Len(t, fns, 6)

	w = do(t, s, http.MethodPost, "/v1/tool_calls", map[string]any{
		"tool_calls": []openai.ToolCall{{
			ID:       "call_1",
			Type:     "function",
			Function: openai.FunctionCall{Name: "set-task-status", Arguments: `{"task_id":"` + task.ID + `","status":"completed"}`},
		}},
	})
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[struct {
		Messages []openai.Message `json:"messages"`
	}](t, w)
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, "call_1", resp.Messages[0].ToolCallID)
	assert.JSONEq(t, `{"success":true}`, resp.Messages[0].Content)

	got, _ := st.Get(task.ID)
	assert.Equal(t, service.StatusCompleted, got.Status)
}

func TestModels(t *testing.T) {
	s, _ := newServer(t)

	w := do(t, s, http.MethodGet, "/v1/models", nil)
	require.Equal(t, http.StatusOK, w.Code)

	list := decode[openai.ModelList](t, w)
	assert.Equal(t, "list", list.Object)
	require.Len(t, list.Data, 1)
	assert.Equal(t, "task-manager", list.Data[0].ID)
	assert.Equal(t, "model", list.Data[0].Object)
}

func TestChatCompletions(t *testing.T) {
	s, st := newServer(t)

	w := do(t, s, http.MethodGet, "/v1/tools", nil)
	require.Equal(t, http.StatusOK, w.Code)
	fns := decode[[]openai.FunctionTool](t, w)

	w = do(t, s, http.MethodPost, "/v1/chat/completions", map[string]any{
		"model":    "m",
		"messages": []map[string]any{{"role": "user", "content": `add task "call the plumber"`}},
		"tools":    fns,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[openai.ChatCompletion](t, w)
	assert.Equal(t, "chat.completion", resp.Object)
	assert.Equal(t, "m", resp.Model)
	require.Len(t, resp.Choices, 1)
	assert.Equal(t, "tool_calls", resp.Choices[0].FinishReason)
	require.Len(t, resp.Choices[0].Message.ToolCalls, 1)
	assert.Equal(t, "add-task", resp.Choices[0].Message.ToolCalls[0].Function.Name)

	tasks := st.List()
	require.Len(t, tasks, 1)
	assert.Equal(t, "call the plumber", tasks[0].Title)

	w = do(t, s, http.MethodPost, "/v1/chat/completions", map[string]any{
		"model":    "m",
		"messages": []map[string]any{{"role": "user", "content": "list tasks"}},
	})
	require.Equal(t, http.StatusOK, w.Code)
	resp = decode[openai.ChatCompletion](t, w)
	assert.Equal(t, "stop", resp.Choices[0].FinishReason)
	assert.Empty(t, resp.Choices[0].Message.ToolCalls)
}

func TestChatCompletions_BadRequest(t *testing.T) {
	s, _ := newServer(t)

	tests := []struct {
		name string
		body any
		want string
	}{
		{"no user message", map[string]any{"model": "m", "messages": []map[string]any{{"role": "system", "content": "x"}}}, "no user message found"},
		{"missing model", map[string]any{"messages": []map[string]any{{"role": "user", "content": "x"}}}, "Model"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, "/v1/chat/completions", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.want)
		})
	}
}

func TestCORS(t *testing.T) {
	s, _ := newServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/execute", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Headers", "content-type")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "content-type", w.Header().Get("Access-Control-Allow-Headers"))

	w = do(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMCPEndpoint(t *testing.T) {
	s, _ := newServer(t)

	body := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"0"}}}`
	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "task-mcp-server")
}
