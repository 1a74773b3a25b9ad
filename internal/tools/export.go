package tools

import (
	"context"
	"encoding/json"

	"taskmcp/internal/service"
)

// DefaultExportList is the external list title used when none is given.
const DefaultExportList = "taskmcp"

// Exporter copies tasks into an external task list.
type Exporter interface {
	// Export writes tasks to the list with the given title, creating it if needed.
	// Returns the number of tasks written.
	Export(ctx context.Context, list string, tasks []service.Task) (int, error)
}

// ExportGoogleTasks copies every task into a Google Tasks list.
type ExportGoogleTasks struct {
	exporter    Exporter
	defaultList string
}

// NewExportGoogleTasks creates the export tool. An empty defaultList means DefaultExportList.
func NewExportGoogleTasks(exporter Exporter, defaultList string) *ExportGoogleTasks {
	if defaultList == "" {
		defaultList = DefaultExportList
	}
	return &ExportGoogleTasks{exporter: exporter, defaultList: defaultList}
}

// ExportInput holds export-google-tasks arguments.
type ExportInput struct {
	List service.Optional[string] `json:"list"`
}

var exportSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "list": {"type": ["string", "null"], "minLength": 1, "description": "Title of the Google Tasks list to export into"}
  }
}`)

func (e *ExportGoogleTasks) Name() string { return "export-google-tasks" }
func (e *ExportGoogleTasks) Description() string {
	return "Copy all tasks into a Google Tasks list."
}
func (e *ExportGoogleTasks) Schema() json.RawMessage { return exportSchema }

func (e *ExportGoogleTasks) Invoke(ctx context.Context, svc service.Service, args json.RawMessage) (any, error) {
	in, err := decodeArgs[ExportInput](e.Name(), args)
	if err != nil {
		return nil, err
	}
	return e.Run(ctx, svc, in)
}

// Run exports the current task list.
func (e *ExportGoogleTasks) Run(ctx context.Context, svc service.Service, in ExportInput) (ExportResult, error) {
	list := e.defaultList
	if v, ok := in.List.Get(); ok {
		list = v
	}
	n, err := e.exporter.Export(ctx, list, svc.List())
	if err != nil {
		return ExportResult{}, err
	}
	return ExportResult{List: list, Exported: n}, nil
}
