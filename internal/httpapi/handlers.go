package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskmcp/internal/openai"
	"taskmcp/internal/tools"
)

type executeRequest struct {
	ToolName  string         `json:"tool_name" binding:"required"`
	Arguments map[string]any `json:"arguments"`
}

type executeResponse struct {
	Success bool   `json:"success"`
	Result  any    `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
}

type toolCallsRequest struct {
	ToolCalls []openai.ToolCall `json:"tool_calls"`
}

// toolDefinition is a tool in the LM Studio format served by GET /tools.
type toolDefinition struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Parameters  parameters `json:"parameters"`
}

type parameters struct {
	Type       string                     `json:"type"`
	Properties map[string]json.RawMessage `json:"properties"`
	Required   []string                   `json:"required"`
}

type addTaskRequest struct {
	Title       *string `json:"title" form:"title"`
	Description *string `json:"description" form:"description"`
}

func (s *Server) handleIndex(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":        "Task Manager API",
		"version":     s.version,
		"description": "HTTP API for the task manager tools",
		"endpoints": gin.H{
			"tools":   "/tools",
			"execute": "/execute",
			"tasks":   "/tasks",
			"mcp":     "/mcp",
			"models":  "/v1/models",
			"chat":    "/v1/chat/completions",
		},
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleTools(c *gin.Context) {
	defs, err := toolDefinitions(s.dispatcher.Registry().Catalog())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get tools: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, defs)
}

// toolDefinitions flattens each input schema to its properties and required list.
func toolDefinitions(catalog []tools.Descriptor) ([]toolDefinition, error) {
	defs := make([]toolDefinition, 0, len(catalog))
	for _, d := range catalog {
		params := parameters{Type: "object"}
		if err := json.Unmarshal(d.InputSchema, &params); err != nil {
			return nil, err
		}
		params.Type = "object"
		if params.Properties == nil {
			params.Properties = map[string]json.RawMessage{}
		}
		if params.Required == nil {
			params.Required = []string{}
		}
		defs = append(defs, toolDefinition{Name: d.Name, Description: d.Description, Parameters: params})
	}
	return defs, nil
}

func (s *Server) handleExecute(c *gin.Context) {
	var req executeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, executeResponse{Error: err.Error()})
		return
	}

	result, err := s.dispatcher.Call(c.Request.Context(), req.ToolName, req.Arguments)
	if err != nil {
		c.JSON(statusFor(err), executeResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, executeResponse{Success: true, Result: result})
}

func (s *Server) handleListTasks(c *gin.Context) {
	s.callTool(c, http.StatusOK, "get-tasks", nil)
}

func (s *Server) handleAddTask(c *gin.Context) {
	var req addTaskRequest
	if c.Request.ContentLength != 0 && c.ContentType() == gin.MIMEJSON {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	} else if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	args := map[string]any{}
	if req.Title != nil {
		args["title"] = *req.Title
	}
	if req.Description != nil {
		args["description"] = *req.Description
	}
	s.callTool(c, http.StatusCreated, "add-task", args)
}

func (s *Server) handleGetTask(c *gin.Context) {
	result, err := s.dispatcher.Call(c.Request.Context(), "get-task", map[string]any{"task_id": c.Param("id")})
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	if r, ok := result.(tools.TaskResult); ok && !r.Found() {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleOpenAITools(c *gin.Context) {
	c.JSON(http.StatusOK, openai.Functions(s.dispatcher.Registry().Catalog()))
}

func (s *Server) handleModels(c *gin.Context) {
	c.JSON(http.StatusOK, s.assistant.Models())
}

func (s *Server) handleChatCompletions(c *gin.Context) {
	var req openai.ChatCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := s.assistant.Complete(c.Request.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, openai.ErrNoUserMessage) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleToolCalls(c *gin.Context) {
	var req toolCallsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": s.executor.Execute(c.Request.Context(), req.ToolCalls)})
}

func (s *Server) callTool(c *gin.Context, status int, name string, args map[string]any) {
	result, err := s.dispatcher.Call(c.Request.Context(), name, args)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(status, result)
}

func statusFor(err error) int {
	switch {
	case tools.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, tools.ErrUnknownTool):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
