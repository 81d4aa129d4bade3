package storage

import (
	"bytes"
	"encoding/json"
	"time"

	"gopkg.in/yaml.v3"

	todoerrors "github.com/abatilo/todo/internal/errors"
	"github.com/abatilo/todo/internal/task"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Codec serializes the whole task collection to the slot's textual value.
type Codec interface {
	Marshal(tasks []task.Task) ([]byte, error)
	Unmarshal(data []byte) ([]task.Task, error)
	// Ext is the file extension used by file-backed slots.
	Ext() string
}

// CodecFor returns the codec for a format name.
func CodecFor(format string) (Codec, error) {
	switch format {
	case FormatJSON, "":
		return JSONCodec{}, nil
	case FormatYAML, "yml":
		return YAMLCodec{}, nil
	default:
		return nil, todoerrors.InvalidFormatError{Value: format}
	}
}

// taskRecord is the serialized form of a task. Timestamps are kept as text so
// one bad entry cannot fail the whole collection.
type taskRecord struct {
	ID        string `json:"id" yaml:"id"`
	Text      string `json:"text" yaml:"text"`
	Category  string `json:"category" yaml:"category"`
	Priority  string `json:"priority" yaml:"priority"`
	DueDate   string `json:"dueDate" yaml:"due_date,omitempty"`
	Completed bool   `json:"completed" yaml:"completed"`
	CreatedAt string `json:"createdAt" yaml:"created_at"`
}

func newTaskRecord(t task.Task) taskRecord {
	return taskRecord{
		ID:        t.ID,
		Text:      t.Text,
		Category:  t.Category,
		Priority:  t.Priority,
		DueDate:   t.DueDate,
		Completed: t.Completed,
		CreatedAt: t.CreatedAt.Format(time.RFC3339Nano),
	}
}

// toTask converts the record. A missing or unreadable created_at becomes the zero time.
func (r taskRecord) toTask() task.Task {
	createdAt, _ := parseTime(r.CreatedAt)
	return task.Task{
		ID:        r.ID,
		Text:      r.Text,
		Category:  r.Category,
		Priority:  r.Priority,
		DueDate:   r.DueDate,
		Completed: r.Completed,
		CreatedAt: createdAt,
	}
}

func newTaskRecords(tasks []task.Task) []taskRecord {
	records := make([]taskRecord, len(tasks))
	for i, t := range tasks {
		records[i] = newTaskRecord(t)
	}
	return records
}

// JSONCodec stores tasks as a JSON array of camelCase objects,
// the same shape browser builds of the app keep in local storage.
type JSONCodec struct{}

func (JSONCodec) Ext() string { return FormatJSON }

// Marshal encodes tasks compactly. A nil collection encodes as [].
func (JSONCodec) Marshal(tasks []task.Task) ([]byte, error) {
	return json.Marshal(newTaskRecords(tasks))
}

// Unmarshal decodes a JSON array. "null" decodes to an empty collection.
// An element that is not a task object decodes to an empty task, which the
// store drops as malformed.
func (JSONCodec) Unmarshal(data []byte) ([]task.Task, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &codecError{"invalid JSON: " + err.Error()}
	}

	tasks := make([]task.Task, 0, len(raw))
	for _, entry := range raw {
		var r taskRecord
		if err := json.Unmarshal(entry, &r); err != nil {
			tasks = append(tasks, task.Task{})
			continue
		}
		tasks = append(tasks, r.toTask())
	}
	return tasks, nil
}

// YAMLCodec stores tasks as a YAML sequence.
type YAMLCodec struct{}

func (YAMLCodec) Ext() string { return FormatYAML }

// Marshal encodes tasks with two-space indentation.
func (YAMLCodec) Marshal(tasks []task.Task) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(newTaskRecords(tasks)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a YAML sequence. An empty document decodes to an empty collection.
// Entries are decoded one at a time, like JSONCodec.Unmarshal.
func (YAMLCodec) Unmarshal(data []byte) ([]task.Task, error) {
	var nodes []yaml.Node
	if err := yaml.Unmarshal(data, &nodes); err != nil {
		return nil, &codecError{"invalid YAML: " + err.Error()}
	}

	tasks := make([]task.Task, 0, len(nodes))
	for i := range nodes {
		var r taskRecord
		if err := nodes[i].Decode(&r); err != nil {
			tasks = append(tasks, task.Task{})
			continue
		}
		tasks = append(tasks, r.toTask())
	}
	return tasks, nil
}

// parseTime tries to parse a time string in common formats.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05Z",
		task.DateLayout,
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &codecError{"unrecognized time format"}
}
