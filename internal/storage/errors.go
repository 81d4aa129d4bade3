package storage

import "errors"

// ErrSlotEmpty indicates the persistence slot has never been written.
var ErrSlotEmpty = errors.New("persistence slot is empty")

// codecError represents a decoding error.
type codecError struct {
	msg string
}

func (e *codecError) Error() string {
	return e.msg
}
