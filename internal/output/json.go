package output

import (
	"encoding/json"

	"github.com/abatilo/todo/internal/task"
	"github.com/abatilo/todo/internal/view"
)

// JSONFormatter formats output as JSON.
type JSONFormatter struct{}

// marshalJSON marshals a value to indented JSON with a trailing newline.
func marshalJSON(v any) string {
	data, _ := json.MarshalIndent(v, "", "  ")
	return string(data) + "\n"
}

// NewJSONFormatter creates a new JSONFormatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// FormatTask formats a single task as JSON, using the storage field names.
func (f *JSONFormatter) FormatTask(t task.Task) string {
	return marshalJSON(t)
}

// taskListJSON is the JSON representation of a filtered list.
type taskListJSON struct {
	Filter filterJSON  `json:"filter"`
	Tasks  []task.Task `json:"tasks"`
}

type filterJSON struct {
	Status   string `json:"status"`
	Category string `json:"category"`
	Search   string `json:"search"`
}

// FormatTaskList formats a filtered list of tasks as JSON.
func (f *JSONFormatter) FormatTaskList(tasks []task.Task, filter view.Filter) string {
	if tasks == nil {
		tasks = []task.Task{}
	}
	fj := filterJSON{
		Status:   string(filter.Status),
		Category: filter.Category,
		Search:   filter.Search,
	}
	if fj.Status == "" {
		fj.Status = string(view.StatusAll)
	}
	if fj.Category == "" {
		fj.Category = view.AllCategories
	}
	return marshalJSON(taskListJSON{Filter: fj, Tasks: tasks})
}

// FormatStats formats the stats triple as JSON.
func (f *JSONFormatter) FormatStats(s view.Stats) string {
	return marshalJSON(s)
}

// errorJSON is the JSON representation of an error.
type errorJSON struct {
	Error string `json:"error"`
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(err error) string {
	return marshalJSON(errorJSON{Error: err.Error()})
}

// messageJSON is the JSON representation of a message.
type messageJSON struct {
	Message string `json:"message"`
}

// FormatMessage formats a simple message as JSON.
func (f *JSONFormatter) FormatMessage(msg string) string {
	return marshalJSON(messageJSON{Message: msg})
}
