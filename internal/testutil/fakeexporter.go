// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sync"

	"taskmcp/internal/service"
)

// FakeExporter is an in-memory implementation of tools.Exporter for testing.
type FakeExporter struct {
	mu    sync.RWMutex
	lists map[string][]service.Task // list title -> exported tasks
	calls int

	// Error injection for testing
	ExportErr error
}

// NewFakeExporter creates an empty FakeExporter.
func NewFakeExporter() *FakeExporter {
	return &FakeExporter{
		lists: make(map[string][]service.Task),
	}
}

// Export implements tools.Exporter. Each call replaces the list's contents.
func (f *FakeExporter) Export(ctx context.Context, list string, tasks []service.Task) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	if f.ExportErr != nil {
		return 0, f.ExportErr
	}

	exported := make([]service.Task, len(tasks))
	copy(exported, tasks)
	f.lists[list] = exported
	return len(exported), nil
}

// Exported returns the tasks last exported to list.
func (f *FakeExporter) Exported(list string) []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.lists[list]
}

// Calls returns the number of Export calls.
func (f *FakeExporter) Calls() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.calls
}
