package tools

import "taskmcp/internal/service"

// TasksResult is the envelope for multi-task responses.
type TasksResult struct {
	Tasks []service.Task `json:"tasks"`
}

// TaskResult is the envelope for single-task responses.
// Task is nil when the task is absent.
type TaskResult struct {
	Task *service.Task `json:"task"`
}

// Found reports whether the envelope holds a task.
func (r TaskResult) Found() bool {
	return r.Task != nil
}

// SuccessResult is the envelope for status changes.
type SuccessResult struct {
	Success bool `json:"success"`
}

// ExportResult is the envelope for exports to an external task list.
type ExportResult struct {
	List     string `json:"list"`
	Exported int    `json:"exported"`
}

func present(t service.Task) TaskResult {
	return TaskResult{Task: &t}
}

func maybe(t service.Task, ok bool) TaskResult {
	if !ok {
		return TaskResult{}
	}
	return present(t)
}
