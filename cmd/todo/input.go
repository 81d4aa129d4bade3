package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/abatilo/todo/internal/clock"
	todoerrors "github.com/abatilo/todo/internal/errors"
	"github.com/abatilo/todo/internal/task"
)

// confirm asks a yes/no question on w and reads the answer from r. Anything but y/yes is a no.
func confirm(r io.Reader, w io.Writer, prompt string) (bool, error) {
	fmt.Fprintf(w, "%s [y/N] ", prompt)

	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("read confirmation: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// validateDueDate accepts an empty date, or a YYYY-MM-DD date no earlier than today.
func validateDueDate(due string, clk clock.Clock) error {
	due = strings.TrimSpace(due)
	if due == "" {
		return nil
	}

	today := clock.Today(clk)
	d, err := time.ParseInLocation(task.DateLayout, due, today.Location())
	if err != nil {
		return todoerrors.InvalidDueDateError{Value: due, Reason: "expected YYYY-MM-DD"}
	}
	if d.Before(today) {
		return todoerrors.InvalidDueDateError{Value: due, Reason: "must not be before today"}
	}
	return nil
}
