package models

import "errors"

var (
	// ErrNoUndo is returned when an undo is requested but no sorting
	// pass has recorded one
	ErrNoUndo = errors.New("no undo information available")

	// ErrNoBackup is returned when a restore is requested but no backup
	// has been created
	ErrNoBackup = errors.New("no backup available")
)

// PathError represents a missing or invalid directory path
type PathError struct {
	Path    string
	Message string
}

func (e *PathError) Error() string {
	return "invalid path '" + e.Path + "': " + e.Message
}
