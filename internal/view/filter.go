// Package view computes what the user sees: the filtered task list and the stats triple.
// Everything here is a pure function over a snapshot of the collection.
package view

import (
	"strings"

	todoerrors "github.com/abatilo/todo/internal/errors"
	"github.com/abatilo/todo/internal/task"
)

// Status partitions tasks by completion state.
type Status string

const (
	StatusAll       Status = "all"
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// AllCategories is the category filter value that matches every task.
const AllCategories = "all"

// ParseStatus converts a user-supplied status filter. Empty means all.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case "", StatusAll:
		return StatusAll, nil
	case StatusPending:
		return StatusPending, nil
	case StatusCompleted:
		return StatusCompleted, nil
	default:
		return "", todoerrors.InvalidStatusFilterError{Value: s}
	}
}

// Matches reports whether a task with the given completion state passes the status filter.
func (s Status) Matches(completed bool) bool {
	switch s {
	case StatusPending:
		return !completed
	case StatusCompleted:
		return completed
	default:
		return true
	}
}

// Filter selects the visible subset of tasks. The zero value matches everything.
type Filter struct {
	Status   Status
	Category string
	Search   string
}

// IsDefault reports whether the filter matches every task.
func (f Filter) IsDefault() bool {
	return (f.Status == "" || f.Status == StatusAll) &&
		(f.Category == "" || f.Category == AllCategories) &&
		f.Search == ""
}

// Matches returns true if the task passes all three predicates.
func (f Filter) Matches(t task.Task) bool {
	if !f.Status.Matches(t.Completed) {
		return false
	}
	if f.Category != "" && f.Category != AllCategories && t.Category != f.Category {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(t.Text), strings.ToLower(f.Search)) {
		return false
	}
	return true
}

// FilteredTasks returns the tasks matching f, in collection order.
// The input slice is not modified.
func FilteredTasks(tasks []task.Task, f Filter) []task.Task {
	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}
