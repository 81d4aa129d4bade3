package task

import "github.com/google/uuid"

// maxIDAttempts bounds collision retries; UUIDv7 carries 74 random bits per millisecond.
const maxIDAttempts = 8

// GenerateID creates a task ID from a time-ordered UUIDv7.
// It draws again if existsFn reports a collision.
func GenerateID(existsFn func(string) bool) string {
	var id string
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id = uuid.Must(uuid.NewV7()).String()
		if existsFn == nil || !existsFn(id) {
			return id
		}
	}
	// Fallback: fully random ID (unreachable in practice)
	return uuid.NewString()
}
