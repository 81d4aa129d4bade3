package task

import (
	"strings"
	"time"
)

// Category groups tasks. Values are passed through unvalidated.
const (
	CategoryWork     = "work"
	CategoryPersonal = "personal"
	CategoryShopping = "shopping"
	CategoryHealth   = "health"
	CategoryOther    = "other"
)

// Priority is the importance level of a task. Values are passed through unvalidated.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Categories lists the categories offered for completion and display.
func Categories() []string {
	return []string{CategoryWork, CategoryPersonal, CategoryShopping, CategoryHealth, CategoryOther}
}

// Priorities lists the known priorities, lowest first.
func Priorities() []string {
	return []string{PriorityLow, PriorityMedium, PriorityHigh}
}

// DateLayout is the calendar date format of DueDate.
const DateLayout = "2006-01-02"

// Task represents a single to-do item.
type Task struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Category  string    `json:"category"`
	Priority  string    `json:"priority"`
	DueDate   string    `json:"dueDate"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

// Input holds the user-editable fields of a task.
type Input struct {
	Text     string
	Category string
	Priority string
	DueDate  string
}

// Normalize returns the input with surrounding whitespace trimmed from the text.
func (in Input) Normalize() Input {
	in.Text = strings.TrimSpace(in.Text)
	in.DueDate = strings.TrimSpace(in.DueDate)
	return in
}

// Input returns the editable fields of t.
func (t Task) Input() Input {
	return Input{
		Text:     t.Text,
		Category: t.Category,
		Priority: t.Priority,
		DueDate:  t.DueDate,
	}
}

// Apply replaces the editable fields of t with in.
func (t *Task) Apply(in Input) {
	t.Text = in.Text
	t.Category = in.Category
	t.Priority = in.Priority
	t.DueDate = in.DueDate
}

// HasDueDate reports whether a due date is set.
func (t Task) HasDueDate() bool {
	return t.DueDate != ""
}
