//nolint:testpackage // Tests require internal access for thorough testing
package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abatilo/todo/internal/clock"
	todoerrors "github.com/abatilo/todo/internal/errors"
	"github.com/abatilo/todo/internal/task"
	"github.com/abatilo/todo/internal/view"
)

// memSlot is an in-memory Slot that counts writes and can be made to fail.
type memSlot struct {
	data     []byte
	present  bool
	writes   int
	readErr  error
	writeErr error
}

func (m *memSlot) Read(_ context.Context) ([]byte, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	if !m.present {
		return nil, ErrSlotEmpty
	}
	return m.data, nil
}

func (m *memSlot) Write(_ context.Context, data []byte) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.writes++
	m.data = append([]byte(nil), data...)
	m.present = true
	return nil
}

func (m *memSlot) Close() error { return nil }

var testNow = time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)

func newTestStore(t *testing.T, slot Slot) *Store {
	t.Helper()
	store := NewStore(slot, JSONCodec{}, clock.NewFake(testNow), nil)
	require.NoError(t, store.Load(context.Background()))
	return store
}

func TestStoreScenario(t *testing.T) {
	ctx := context.Background()
	slot := &memSlot{}
	store := newTestStore(t, slot)

	// Create
	created, err := store.Create(ctx, task.Input{Text: "Buy milk", Category: "personal", Priority: "low", DueDate: ""})
	require.NoError(t, err)
	assert.Len(t, store.Tasks(), 1)
	assert.Equal(t, view.Stats{Total: 1, Pending: 1, Completed: 0}, view.ComputeStats(store.Tasks()))

	got, ok := store.Get(created.ID)
	require.True(t, ok)
	assert.Equal(t, "Buy milk", got.Text)
	assert.Equal(t, "personal", got.Category)
	assert.Equal(t, "low", got.Priority)
	assert.Empty(t, got.DueDate)
	assert.False(t, got.Completed)
	assert.Equal(t, testNow, got.CreatedAt)

	// Toggle
	_, err = store.ToggleCompletion(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, view.Stats{Total: 1, Pending: 0, Completed: 1}, view.ComputeStats(store.Tasks()))

	// Update
	updated, err := store.Update(ctx, created.ID, task.Input{
		Text: "Buy oat milk", Category: "personal", Priority: "high", DueDate: "2025-01-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "Buy oat milk", updated.Text)
	assert.Equal(t, "high", updated.Priority)
	assert.Equal(t, "2025-01-01", updated.DueDate)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.Completed)

	// Delete
	removed, err := store.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, removed.ID)
	assert.Empty(t, store.Tasks())
	assert.Equal(t, view.Stats{}, view.ComputeStats(store.Tasks()))

	assert.Equal(t, 4, slot.writes, "every mutation persists once")
}

func TestCreatePrependsAndTrims(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, &memSlot{})

	first, err := store.Create(ctx, task.Input{Text: "  first  "})
	require.NoError(t, err)
	second, err := store.Create(ctx, task.Input{Text: "second"})
	require.NoError(t, err)

	assert.Equal(t, "first", first.Text)
	tasks := store.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, second.ID, tasks[0].ID, "newest task comes first")
	assert.Equal(t, first.ID, tasks[1].ID)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestRejectedOperationsDoNotPersist(t *testing.T) {
	ctx := context.Background()
	slot := &memSlot{}
	store := newTestStore(t, slot)

	existing, err := store.Create(ctx, task.Input{Text: "keep me"})
	require.NoError(t, err)
	writes := slot.writes

	tests := []struct {
		name string
		op   func() error
		want error
	}{
		{"create empty", func() error {
			_, err := store.Create(ctx, task.Input{Text: ""})
			return err
		}, todoerrors.EmptyTextError{}},
		{"create whitespace", func() error {
			_, err := store.Create(ctx, task.Input{Text: " \t\n"})
			return err
		}, todoerrors.EmptyTextError{}},
		{"update empty text", func() error {
			_, err := store.Update(ctx, existing.ID, task.Input{Text: "   "})
			return err
		}, todoerrors.EmptyTextError{}},
		{"update unknown", func() error {
			_, err := store.Update(ctx, "nope", task.Input{Text: "x"})
			return err
		}, todoerrors.TaskNotFoundError{ID: "nope"}},
		{"toggle unknown", func() error {
			_, err := store.ToggleCompletion(ctx, "nope")
			return err
		}, todoerrors.TaskNotFoundError{ID: "nope"}},
		{"delete unknown", func() error {
			_, err := store.Delete(ctx, "nope")
			return err
		}, todoerrors.TaskNotFoundError{ID: "nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.op()
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, writes, slot.writes)
			tasks := store.Tasks()
			require.Len(t, tasks, 1)
			assert.Equal(t, existing, tasks[0])
		})
	}
}

func TestToggleTwiceRestores(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, &memSlot{})

	created, err := store.Create(ctx, task.Input{Text: "flip"})
	require.NoError(t, err)

	_, err = store.ToggleCompletion(ctx, created.ID)
	require.NoError(t, err)
	again, err := store.ToggleCompletion(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, created, again)
}

func TestWriteFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	slot := &memSlot{}
	store := newTestStore(t, slot)

	created, err := store.Create(ctx, task.Input{Text: "stable"})
	require.NoError(t, err)

	quota := errors.New("quota exceeded")
	slot.writeErr = quota

	_, err = store.Create(ctx, task.Input{Text: "lost"})
	require.ErrorIs(t, err, quota)
	_, err = store.ToggleCompletion(ctx, created.ID)
	require.ErrorIs(t, err, quota)
	_, err = store.Delete(ctx, created.ID)
	require.ErrorIs(t, err, quota)

	assert.Equal(t, []task.Task{created}, store.Tasks())
}

func TestLoadFailsSoft(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"garbage", "{not json"},
		{"object instead of array", `{"id":"x"}`},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot := &memSlot{data: []byte(tt.content), present: true}
			store := NewStore(slot, JSONCodec{}, nil, nil)
			require.NoError(t, store.Load(context.Background()))
			assert.Empty(t, store.Tasks())
		})
	}
}

func TestLoadSkipsMalformedEntries(t *testing.T) {
	content := `[
		{"id":"a","text":"ok","category":"work","priority":"low","dueDate":"","completed":false,"createdAt":"2024-01-15T10:30:00.000Z"},
		{"id":"","text":"no id","createdAt":"2024-01-15T10:30:00.000Z"},
		{"id":"b","text":"","createdAt":"2024-01-15T10:30:00.000Z"},
		{"id":"a","text":"duplicate","createdAt":"2024-01-15T10:30:00.000Z"}
	]`
	slot := &memSlot{data: []byte(content), present: true}
	store := NewStore(slot, JSONCodec{}, nil, nil)
	require.NoError(t, store.Load(context.Background()))

	tasks := store.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "ok", tasks[0].Text)
}

func TestLoadKeepsGoodEntriesBesideBadTimestamps(t *testing.T) {
	tests := []struct {
		name    string
		codec   Codec
		content string
	}{
		{
			name:  "yaml",
			codec: YAMLCodec{},
			content: `- id: a
  text: keep me
  created_at: 2025-01-15T10:30:00Z
- id: b
  text: hand edited
`,
		},
		{
			name:  "json",
			codec: JSONCodec{},
			content: `[{"id":"a","text":"keep me","createdAt":"2025-01-15T10:30:00Z"},` +
				`{"id":"b","text":"hand edited","createdAt":""}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			now := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)
			slot := &memSlot{data: []byte(tt.content), present: true}
			store := NewStore(slot, tt.codec, clock.NewFake(now), nil)
			require.NoError(t, store.Load(ctx))

			tasks := store.Tasks()
			require.Len(t, tasks, 2)
			assert.Equal(t, "a", tasks[0].ID)
			assert.Equal(t, "b", tasks[1].ID)
			assert.True(t, tasks[1].CreatedAt.Equal(now))

			_, err := store.Create(ctx, task.Input{Text: "new"})
			require.NoError(t, err)

			saved, err := tt.codec.Unmarshal(slot.data)
			require.NoError(t, err)
			require.Len(t, saved, 3)
			assert.Equal(t, "a", saved[1].ID)
			assert.Equal(t, "b", saved[2].ID)
		})
	}
}

func TestLoadReturnsReadErrors(t *testing.T) {
	denied := errors.New("permission denied")
	store := NewStore(&memSlot{readErr: denied}, JSONCodec{}, nil, nil)

	err := store.Load(context.Background())
	require.ErrorIs(t, err, denied)
	assert.Empty(t, store.Tasks())
}

func TestTasksReturnsSnapshot(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, &memSlot{})
	_, err := store.Create(ctx, task.Input{Text: "original"})
	require.NoError(t, err)

	snapshot := store.Tasks()
	snapshot[0].Text = "mutated"

	assert.Equal(t, "original", store.Tasks()[0].Text)
}

func TestStorePersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	for _, codec := range []Codec{JSONCodec{}, YAMLCodec{}} {
		t.Run(codec.Ext(), func(t *testing.T) {
			slot := NewFileSlot(t.TempDir(), DefaultSlotName, codec.Ext())
			fc := clock.NewFake(testNow)

			store := NewStore(slot, codec, fc, nil)
			require.NoError(t, store.Load(ctx))
			a, err := store.Create(ctx, task.Input{Text: "first", Category: "work", Priority: "high", DueDate: "2025-02-01"})
			require.NoError(t, err)
			fc.Advance(1500 * time.Millisecond)
			b, err := store.Create(ctx, task.Input{Text: "second", Category: "health", Priority: "low"})
			require.NoError(t, err)
			_, err = store.ToggleCompletion(ctx, a.ID)
			require.NoError(t, err)

			reopened := NewStore(slot, codec, fc, nil)
			require.NoError(t, reopened.Load(ctx))
			assert.Equal(t, store.Tasks(), reopened.Tasks())
			assert.Equal(t, b.ID, reopened.Tasks()[0].ID)
		})
	}
}

func TestFileSlot(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested", "data")
	slot := NewFileSlot(dir, "My List", "json")

	assert.Equal(t, filepath.Join(dir, "My-List.json"), slot.Path())

	_, err := slot.Read(ctx)
	require.ErrorIs(t, err, ErrSlotEmpty)

	require.NoError(t, slot.Write(ctx, []byte("one")))
	require.NoError(t, slot.Write(ctx, []byte("two")))

	data, err := slot.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))

	// No temp files left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "My-List.json", entries[0].Name())
}

func TestSQLiteSlot(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), DatabaseFile)

	slot, err := OpenSQLiteSlot(ctx, path, "tasks")
	require.NoError(t, err)
	defer slot.Close()

	_, err = slot.Read(ctx)
	require.ErrorIs(t, err, ErrSlotEmpty)

	require.NoError(t, slot.Write(ctx, []byte(`[]`)))
	require.NoError(t, slot.Write(ctx, []byte(`[{"id":"a"}]`)))

	data, err := slot.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"a"}]`, string(data))

	other, err := OpenSQLiteSlot(ctx, path, "groceries")
	require.NoError(t, err)
	defer other.Close()

	_, err = other.Read(ctx)
	require.ErrorIs(t, err, ErrSlotEmpty, "slots are independent by name")
}

func TestStoreOnSQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), DatabaseFile)

	slot, err := OpenSQLiteSlot(ctx, path, DefaultSlotName)
	require.NoError(t, err)
	store := NewStore(slot, JSONCodec{}, clock.NewFake(testNow), nil)
	require.NoError(t, store.Load(ctx))
	created, err := store.Create(ctx, task.Input{Text: "in sqlite", Category: "work", Priority: "medium"})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	slot, err = OpenSQLiteSlot(ctx, path, DefaultSlotName)
	require.NoError(t, err)
	reopened := NewStore(slot, JSONCodec{}, nil, nil)
	defer reopened.Close()
	require.NoError(t, reopened.Load(ctx))

	assert.Equal(t, []task.Task{created}, reopened.Tasks())
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "tasks", "tasks"},
		{"spaces", "my list", "my-list"},
		{"path separators", "../etc/passwd", "etc-passwd"},
		{"special chars", "work.v2!", "work-v2"},
		{"empty", "", DefaultSlotName},
		{"only symbols", "///", DefaultSlotName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeName(tt.input); got != tt.want {
				t.Errorf("SanitizeName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
