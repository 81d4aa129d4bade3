package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/abatilo/todo/internal/task"
	"github.com/abatilo/todo/internal/view"
)

//nolint:gochecknoglobals // Styles are immutable after init
var (
	idStyle        = lipgloss.NewStyle().Faint(true)
	doneStyle      = lipgloss.NewStyle().Strikethrough(true).Faint(true)
	categoryStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	dueStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	headerStyle    = lipgloss.NewStyle().Bold(true)
	priorityStyles = map[string]lipgloss.Style{
		task.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		task.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		task.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	}
)

// HumanFormatter formats output for human-readable terminal display.
type HumanFormatter struct{}

// NewHumanFormatter creates a new HumanFormatter.
func NewHumanFormatter() *HumanFormatter {
	return &HumanFormatter{}
}

// FormatTask formats a single task for display.
func (f *HumanFormatter) FormatTask(t task.Task) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s %s\n", f.checkbox(t.Completed), f.text(t))
	fmt.Fprintf(&sb, "  ID:       %s\n", t.ID)
	fmt.Fprintf(&sb, "  Category: %s\n", categoryStyle.Render(t.Category))
	fmt.Fprintf(&sb, "  Priority: %s\n", f.priority(t.Priority))
	if t.HasDueDate() {
		fmt.Fprintf(&sb, "  Due:      %s\n", dueStyle.Render(t.DueDate))
	}
	fmt.Fprintf(&sb, "  Created:  %s\n", t.CreatedAt.Local().Format("2006-01-02 15:04"))

	return sb.String()
}

// FormatTaskList formats a list of tasks for display, noting any active filter.
func (f *HumanFormatter) FormatTaskList(tasks []task.Task, filter view.Filter) string {
	var sb strings.Builder
	if !filter.IsDefault() {
		sb.WriteString(headerStyle.Render(f.describeFilter(filter)))
		sb.WriteString("\n")
	}

	if len(tasks) == 0 {
		sb.WriteString("No tasks found.\n")
		return sb.String()
	}

	for _, t := range tasks {
		sb.WriteString(f.formatTaskLine(t))
	}
	return sb.String()
}

// formatTaskLine formats a single task as a compact one-liner.
func (f *HumanFormatter) formatTaskLine(t task.Task) string {
	meta := []string{categoryStyle.Render(t.Category), f.priority(t.Priority)}
	if t.HasDueDate() {
		meta = append(meta, dueStyle.Render("due "+t.DueDate))
	}
	return fmt.Sprintf("%s %s %s (%s)\n",
		f.checkbox(t.Completed), idStyle.Render("["+t.ID+"]"), f.text(t), strings.Join(meta, ", "))
}

func (f *HumanFormatter) describeFilter(filter view.Filter) string {
	status := filter.Status
	if status == "" {
		status = view.StatusAll
	}
	category := filter.Category
	if category == "" {
		category = view.AllCategories
	}
	desc := fmt.Sprintf("Showing status=%s category=%s", status, category)
	if filter.Search != "" {
		desc += fmt.Sprintf(" search=%q", filter.Search)
	}
	return desc
}

func (f *HumanFormatter) checkbox(completed bool) string {
	if completed {
		return "[x]"
	}
	return "[ ]"
}

func (f *HumanFormatter) text(t task.Task) string {
	if t.Completed {
		return doneStyle.Render(t.Text)
	}
	return t.Text
}

func (f *HumanFormatter) priority(p string) string {
	if style, ok := priorityStyles[p]; ok {
		return style.Render(p)
	}
	return p
}

// FormatStats formats the stats triple.
func (f *HumanFormatter) FormatStats(s view.Stats) string {
	return fmt.Sprintf("Total: %d  Pending: %d  Completed: %d\n", s.Total, s.Pending, s.Completed)
}

// FormatError formats an error for display.
func (f *HumanFormatter) FormatError(err error) string {
	return fmt.Sprintf("Error: %s\n", err.Error())
}

// FormatMessage formats a simple message.
func (f *HumanFormatter) FormatMessage(msg string) string {
	return msg + "\n"
}
