package storage

import (
	"regexp"
	"strings"
)

// DefaultSlotName is the slot used when no list name is configured.
const DefaultSlotName = "tasks"

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// SanitizeName converts a list name to a safe slot key and file name.
// "My Tasks/2025" -> "My-Tasks-2025"
func SanitizeName(name string) string {
	// Replace non-alphanumeric chars with dash
	result := unsafeNameChars.ReplaceAllString(name, "-")

	// Trim leading/trailing dashes
	result = strings.Trim(result, "-")

	if result == "" {
		return DefaultSlotName
	}
	return result
}
