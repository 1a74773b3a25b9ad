// Package httpapi serves the tools over a REST API, the OpenAI
// function-calling shim and the MCP streamable HTTP endpoint.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"taskmcp/internal/openai"
	"taskmcp/internal/tools"
)

const shutdownTimeout = 5 * time.Second

// Server is the REST host.
type Server struct {
	dispatcher *tools.Dispatcher
	executor   *openai.Executor
	assistant  *openai.Assistant
	router     *gin.Engine
	log        *logrus.Entry
	version    string
}

// Option configures a Server.
type Option func(*Server)

// WithMCPHandler mounts h at /mcp.
func WithMCPHandler(h http.Handler) Option {
	return func(s *Server) {
		s.router.Any("/mcp", gin.WrapH(h))
	}
}

// WithVersion sets the version reported by GET /.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// WithAssistant replaces the chat completion assistant.
func WithAssistant(a *openai.Assistant) Option {
	return func(s *Server) {
		s.assistant = a
	}
}

// WithLogger sets the request logger.
func WithLogger(log *logrus.Logger) Option {
	return func(s *Server) {
		s.log = log.WithField("component", "http")
	}
}

// NewServer creates the REST host over d.
func NewServer(d *tools.Dispatcher, opts ...Option) *Server {
	executor := openai.NewExecutor(d)
	s := &Server{
		dispatcher: d,
		executor:   executor,
		assistant:  openai.NewAssistant(executor),
		router:     gin.New(),
		log:        logrus.StandardLogger().WithField("component", "http"),
		version:    "dev",
	}

	s.router.Use(gin.Recovery(), s.logRequests, allowAllOrigins)

	s.router.GET("/", s.handleIndex)
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/tools", s.handleTools)
	s.router.POST("/execute", s.handleExecute)

	s.router.GET("/tasks", s.handleListTasks)
	s.router.POST("/tasks", s.handleAddTask)
	s.router.GET("/tasks/:id", s.handleGetTask)

	v1 := s.router.Group("/v1")
	{
		v1.GET("/models", s.handleModels)
		v1.POST("/chat/completions", s.handleChatCompletions)
		v1.GET("/tools", s.handleOpenAITools)
		v1.POST("/tool_calls", s.handleToolCalls)
	}

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP handler for the API.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("serving HTTP")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) logRequests(c *gin.Context) {
	start := time.Now()
	c.Next()

	s.log.WithFields(logrus.Fields{
		"method":   c.Request.Method,
		"path":     c.Request.URL.Path,
		"status":   c.Writer.Status(),
		"duration": time.Since(start),
	}).Debug("request")
}

func allowAllOrigins(c *gin.Context) {
	h := c.Writer.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "*")
	if req := c.GetHeader("Access-Control-Request-Headers"); req != "" {
		h.Set("Access-Control-Allow-Headers", req)
	} else {
		h.Set("Access-Control-Allow-Headers", "*")
	}

	if c.Request.Method == http.MethodOptions {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}
	c.Next()
}
