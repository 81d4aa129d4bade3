// Package session remembers the list view (status, category and search filters)
// between CLI invocations, the way the browser page kept them while open.
package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/abatilo/todo/internal/view"
)

const sessionSuffix = ".view.json"

// Session is the remembered view for one list.
type Session struct {
	Status    view.Status `json:"status"`
	Category  string      `json:"category"`
	Search    string      `json:"search"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Filter returns the session as a view filter.
func (s *Session) Filter() view.Filter {
	return view.Filter{
		Status:   s.Status,
		Category: s.Category,
		Search:   s.Search,
	}
}

// sessionPath returns the full path to the view file for the given list.
func sessionPath(basePath, list string) string {
	return filepath.Join(basePath, list+sessionSuffix)
}

// Exists checks if a session file exists.
func Exists(basePath, list string) bool {
	_, err := os.Stat(sessionPath(basePath, list))
	return err == nil
}

// Load reads the session from disk.
func Load(basePath, list string) (*Session, error) {
	data, err := os.ReadFile(sessionPath(basePath, list))
	if err != nil {
		return nil, err
	}

	var s Session
	if unmarshalErr := json.Unmarshal(data, &s); unmarshalErr != nil {
		return nil, unmarshalErr
	}

	return &s, nil
}

// LoadOrDefault reads the session, falling back to the match-everything view
// when the file is missing or unreadable.
func LoadOrDefault(basePath, list string) *Session {
	s, err := Load(basePath, list)
	if err != nil {
		return &Session{Status: view.StatusAll, Category: view.AllCategories}
	}
	return s
}

// Save writes the session to disk.
func Save(basePath, list string, s *Session) error {
	//nolint:gosec // G301: 0755 is appropriate for user-accessible data directory
	if mkdirErr := os.MkdirAll(basePath, 0o755); mkdirErr != nil {
		return mkdirErr
	}

	s.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	//nolint:gosec // G306: 0644 is appropriate for user-readable session files
	return os.WriteFile(sessionPath(basePath, list), data, 0o644)
}

// Delete removes the session file.
func Delete(basePath, list string) error {
	err := os.Remove(sessionPath(basePath, list))
	if os.IsNotExist(err) {
		return nil // Already deleted, not an error
	}
	return err
}
