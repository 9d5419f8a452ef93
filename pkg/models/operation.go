package models

import (
	"time"
)

// SortOperation represents a sorting pass configuration
type SortOperation struct {
	ID          string
	Directory   string
	Preview     bool
	Backup      bool
	CreatedAt   time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
}

// Validate checks if the operation configuration is valid
func (op *SortOperation) Validate() error {
	if op.Directory == "" {
		return &ValidationError{Field: "Directory", Message: "directory is required"}
	}
	return nil
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
