package storage

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/abatilo/todo/internal/clock"
	todoerrors "github.com/abatilo/todo/internal/errors"
	"github.com/abatilo/todo/internal/logging"
	"github.com/abatilo/todo/internal/task"
)

// Store owns the ordered task collection (newest first) and mirrors it to a Slot.
// Every successful mutation is written through before it returns.
type Store struct {
	mu     sync.Mutex
	slot   Slot
	codec  Codec
	clock  clock.Clock
	logger *log.Logger
	tasks  []task.Task
}

// NewStore creates an empty Store. Call Load to read the persisted collection.
// A nil clock uses the system clock; a nil logger discards output.
func NewStore(slot Slot, codec Codec, clk clock.Clock, logger *log.Logger) *Store {
	if clk == nil {
		clk = clock.Real{}
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Store{
		slot:   slot,
		codec:  codec,
		clock:  clk,
		logger: logger,
		tasks:  []task.Task{},
	}
}

// Load replaces the in-memory collection with the persisted one.
// A missing or unparsable value yields an empty collection and no error.
// Slot read failures are returned and leave the collection empty.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = []task.Task{}

	data, err := s.slot.Read(ctx)
	if errors.Is(err, ErrSlotEmpty) {
		s.logger.Debug("persistence slot is empty, starting fresh")
		return nil
	}
	if err != nil {
		return fmt.Errorf("read tasks: %w", err)
	}

	tasks, err := s.codec.Unmarshal(data)
	if err != nil {
		s.logger.Warn("discarding unparsable task data", "err", err)
		return nil
	}

	s.tasks = s.dropMalformed(tasks)
	s.logger.Debug("loaded tasks", "count", len(s.tasks))
	return nil
}

// dropMalformed skips entries without an id or text, and repeated ids.
// Entries without a readable creation time are kept and stamped with the load time.
func (s *Store) dropMalformed(tasks []task.Task) []task.Task {
	seen := make(map[string]bool, len(tasks))
	kept := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID == "" || t.Text == "" || seen[t.ID] {
			s.logger.Warn("skipping malformed task", "id", t.ID)
			continue
		}
		if t.CreatedAt.IsZero() {
			s.logger.Warn("task has no creation time, using now", "id", t.ID)
			t.CreatedAt = s.now()
		}
		seen[t.ID] = true
		kept = append(kept, t)
	}
	return kept
}

func (s *Store) now() time.Time {
	return s.clock.Now().UTC().Truncate(time.Millisecond)
}

// Save overwrites the slot with the whole collection.
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx)
}

func (s *Store) saveLocked(ctx context.Context) error {
	data, err := s.codec.Marshal(s.tasks)
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	if err = s.slot.Write(ctx, data); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	s.logger.Debug("saved tasks", "count", len(s.tasks), "bytes", len(data))
	return nil
}

// commitLocked installs next and persists it, restoring the previous collection if the write fails.
func (s *Store) commitLocked(ctx context.Context, next []task.Task) error {
	prev := s.tasks
	s.tasks = next
	if err := s.saveLocked(ctx); err != nil {
		s.tasks = prev
		return err
	}
	return nil
}

// Close releases the slot.
func (s *Store) Close() error {
	return s.slot.Close()
}

// Tasks returns a snapshot of the collection in display order.
func (s *Store) Tasks() []task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.tasks)
}

// Get returns the task with the given ID.
func (s *Store) Get(id string) (task.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return task.Task{}, false
	}
	return s.tasks[i], true
}

func (s *Store) indexLocked(id string) int {
	return slices.IndexFunc(s.tasks, func(t task.Task) bool { return t.ID == id })
}

// Create adds a new task at the front of the collection.
func (s *Store) Create(ctx context.Context, in task.Input) (task.Task, error) {
	in = in.Normalize()
	if in.Text == "" {
		return task.Task{}, todoerrors.EmptyTextError{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := task.Task{
		ID:        task.GenerateID(func(id string) bool { return s.indexLocked(id) >= 0 }),
		Completed: false,
		CreatedAt: s.now(),
	}
	t.Apply(in)

	next := make([]task.Task, 0, len(s.tasks)+1)
	next = append(next, t)
	next = append(next, s.tasks...)
	if err := s.commitLocked(ctx, next); err != nil {
		return task.Task{}, err
	}
	return t, nil
}

// Update replaces the editable fields of a task, keeping its ID, completion state and creation time.
func (s *Store) Update(ctx context.Context, id string, in task.Input) (task.Task, error) {
	in = in.Normalize()
	if in.Text == "" {
		return task.Task{}, todoerrors.EmptyTextError{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return task.Task{}, todoerrors.TaskNotFoundError{ID: id}
	}

	next := slices.Clone(s.tasks)
	next[i].Apply(in)
	if err := s.commitLocked(ctx, next); err != nil {
		return task.Task{}, err
	}
	return next[i], nil
}

// ToggleCompletion flips the completed flag of a task.
func (s *Store) ToggleCompletion(ctx context.Context, id string) (task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return task.Task{}, todoerrors.TaskNotFoundError{ID: id}
	}

	next := slices.Clone(s.tasks)
	next[i].Completed = !next[i].Completed
	if err := s.commitLocked(ctx, next); err != nil {
		return task.Task{}, err
	}
	return next[i], nil
}

// Delete removes a task permanently and returns it.
// Asking the user for confirmation is the caller's job.
func (s *Store) Delete(ctx context.Context, id string) (task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return task.Task{}, todoerrors.TaskNotFoundError{ID: id}
	}

	removed := s.tasks[i]
	next := slices.Delete(slices.Clone(s.tasks), i, i+1)
	if err := s.commitLocked(ctx, next); err != nil {
		return task.Task{}, err
	}
	return removed, nil
}
