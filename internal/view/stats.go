package view

import "github.com/abatilo/todo/internal/task"

// Stats counts tasks by completion state. Total == Pending + Completed.
type Stats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
}

// ComputeStats aggregates the whole collection.
func ComputeStats(tasks []task.Task) Stats {
	var s Stats
	for _, t := range tasks {
		if t.Completed {
			s.Completed++
		} else {
			s.Pending++
		}
	}
	s.Total = s.Pending + s.Completed
	return s
}
