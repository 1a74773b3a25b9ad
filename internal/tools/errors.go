package tools

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownTool is matched by errors.Is for calls to unregistered tools.
var ErrUnknownTool = errors.New("unknown tool")

// UnknownToolError reports a call to a tool name that is not registered.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool: %s", e.Name)
}

// Is reports whether target is ErrUnknownTool.
func (e *UnknownToolError) Is(target error) bool {
	return target == ErrUnknownTool
}

// Violation is a single schema violation.
type Violation struct {
	Path    string `json:"path,omitempty"` // dotted path, empty for the argument object itself
	Message string `json:"message"`
}

func (v Violation) String() string {
	if v.Path != "" {
		return fmt.Sprintf("%s: %s", v.Path, v.Message)
	}
	return v.Message
}

// ValidationError reports arguments that do not match a tool's schema.
// The store is not touched when it is returned.
type ValidationError struct {
	Tool       string
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return fmt.Sprintf("invalid arguments for %s: %s", e.Tool, strings.Join(parts, "; "))
}

// InternalError reports an unexpected failure while running a tool.
type InternalError struct {
	Tool string
	Err  error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Tool, e.Err)
}

// Unwrap returns the underlying error.
func (e *InternalError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
