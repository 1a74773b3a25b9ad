package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"taskmcp/internal/service"
)

// inputKey is the wrapper key used by clients that nest tool arguments.
const inputKey = "input"

// Dispatcher invokes tools by name against a single shared service.
// It holds no state beyond the registry and the service reference.
type Dispatcher struct {
	registry *Registry
	svc      service.Service
	log      logrus.FieldLogger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithLogger sets the logger used for call logging.
func WithLogger(log logrus.FieldLogger) DispatcherOption {
	return func(d *Dispatcher) {
		d.log = log
	}
}

// NewDispatcher creates a dispatcher over registry and svc.
func NewDispatcher(registry *Registry, svc service.Service, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		registry: registry,
		svc:      svc,
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Registry returns the dispatcher's tool registry.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Call invokes the named tool with an argument bundle.
//
// Errors are one of *UnknownToolError, *ValidationError or *InternalError.
// Not-found conditions are not errors; they are reported in the result envelope.
func (d *Dispatcher) Call(ctx context.Context, name string, args map[string]any) (any, error) {
	var v any = map[string]any{}
	if args != nil {
		normalized, err := normalize(args)
		if err != nil {
			return nil, &ValidationError{Tool: name, Violations: []Violation{{Message: err.Error()}}}
		}
		v = normalized
	}
	return d.call(ctx, name, v)
}

// CallJSON invokes the named tool with a JSON-encoded argument bundle.
// Empty input is treated as an empty object.
func (d *Dispatcher) CallJSON(ctx context.Context, name string, raw json.RawMessage) (any, error) {
	var v any = map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, &ValidationError{Tool: name, Violations: []Violation{{Message: fmt.Sprintf("arguments are not valid JSON: %v", err)}}}
		}
		if v == nil {
			v = map[string]any{}
		}
	}
	return d.call(ctx, name, v)
}

func (d *Dispatcher) call(ctx context.Context, name string, args any) (result any, err error) {
	start := time.Now()
	entry := d.log.WithField("tool", name)

	tool, e, ok := d.registry.lookup(name)
	if !ok {
		entry.Warn("unknown tool")
		return nil, &UnknownToolError{Name: name}
	}

	if !e.ownsInput {
		args = unwrapInput(args)
	}
	if err := validateArgs(name, e.schema, args); err != nil {
		entry.WithError(err).Warn("tool arguments rejected")
		return nil, err
	}

	raw, err := json.Marshal(args)
	if err != nil {
		return nil, &InternalError{Tool: name, Err: err}
	}

	defer func() {
		if p := recover(); p != nil {
			result = nil
			err = &InternalError{Tool: name, Err: fmt.Errorf("panic: %v", p)}
			entry.WithError(err).Error("tool panicked")
		}
	}()

	result, err = tool.Invoke(ctx, d.svc, raw)
	entry = entry.WithField("duration", time.Since(start))
	if err != nil {
		if IsValidation(err) {
			entry.WithError(err).Warn("tool arguments rejected")
			return nil, err
		}
		entry.WithError(err).Error("tool failed")
		return nil, &InternalError{Tool: name, Err: err}
	}

	entry.Debug("tool call")
	return result, nil
}

// normalize converts a Go argument bundle into its plain JSON form.
func normalize(args map[string]any) (any, error) {
	data, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("arguments are not JSON-encodable: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// unwrapInput unwraps {"input": {...}} bundles sent by clients that nest
// every tool's arguments under a single "input" key. Keys beside "input"
// are dropped.
func unwrapInput(args any) any {
	m, ok := args.(map[string]any)
	if !ok {
		return args
	}
	if inner, ok := m[inputKey].(map[string]any); ok {
		return inner
	}
	return args
}
