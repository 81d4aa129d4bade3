//nolint:revive // Package name intentionally matches stdlib for domain clarity
package errors

import "fmt"

// EmptyTextError indicates a create or update was given blank task text.
type EmptyTextError struct{}

func (e EmptyTextError) Error() string {
	return "task text must not be empty"
}

// TaskNotFoundError indicates the task ID doesn't match any task.
type TaskNotFoundError struct {
	ID string
}

func (e TaskNotFoundError) Error() string {
	return fmt.Sprintf("task not found: %s", e.ID)
}

// InvalidStatusFilterError indicates an unknown status filter value.
type InvalidStatusFilterError struct {
	Value string
}

func (e InvalidStatusFilterError) Error() string {
	return fmt.Sprintf("invalid status filter: %s (valid: all, pending, completed)", e.Value)
}

// InvalidDueDateError indicates a due date that can't be accepted.
type InvalidDueDateError struct {
	Value  string
	Reason string
}

func (e InvalidDueDateError) Error() string {
	return fmt.Sprintf("invalid due date %q: %s", e.Value, e.Reason)
}

// InvalidBackendError indicates an unknown storage backend.
type InvalidBackendError struct {
	Value string
}

func (e InvalidBackendError) Error() string {
	return fmt.Sprintf("invalid backend: %s (valid: file, sqlite)", e.Value)
}

// InvalidFormatError indicates an unknown serialization format.
type InvalidFormatError struct {
	Value string
}

func (e InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid format: %s (valid: json, yaml)", e.Value)
}
