package output

import (
	"github.com/abatilo/todo/internal/task"
	"github.com/abatilo/todo/internal/view"
)

// Formatter defines the interface for output formatting.
type Formatter interface {
	FormatTask(t task.Task) string
	FormatTaskList(tasks []task.Task, filter view.Filter) string
	FormatStats(s view.Stats) string
	FormatError(err error) string
	FormatMessage(msg string) string
}
