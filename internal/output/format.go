// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"taskmcp/internal/service"
	"taskmcp/internal/tools"
)

// FormatTask formats a task line.
// Format: "{N:>4}  [{MARK}] {TITLE}  ({ID})\n" where MARK is "x" for completed
// tasks, " " for pending ones and "~" for any other status.
func FormatTask(w io.Writer, num int, task service.Task) {
	fmt.Fprintf(w, "%4d  [%s] %s  (%s)\n", num, statusMark(task.Status), normalizeTitle(task.Title), task.ID)
}

// FormatTasks formats tasks in order, numbered from 1.
func FormatTasks(w io.Writer, tasks []service.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "no tasks")
		return
	}
	for i, t := range tasks {
		FormatTask(w, i+1, t)
	}
}

// FormatCatalog formats tool names and descriptions, one per line.
func FormatCatalog(w io.Writer, catalog []tools.Descriptor) {
	width := 0
	for _, d := range catalog {
		width = max(width, len(d.Name))
	}
	for _, d := range catalog {
		fmt.Fprintf(w, "  %-*s  %s\n", width, d.Name, d.Description)
	}
}

func statusMark(status string) string {
	switch status {
	case service.StatusCompleted:
		return "x"
	case service.StatusPending:
		return " "
	default:
		return "~"
	}
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
