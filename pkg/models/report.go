package models

import (
	"time"
)

// PassState tracks where the engine is within a sorting pass
type PassState string

const (
	// StateIdle indicates no pass has started yet
	StateIdle PassState = "idle"
	// StateListing indicates the engine is enumerating the directory
	StateListing PassState = "listing"
	// StateProcessing indicates files are being classified and moved
	StateProcessing PassState = "processing"
	// StateCompleted indicates the pass finished normally
	StateCompleted PassState = "completed"
	// StateCancelled indicates the pass was cancelled cooperatively
	StateCancelled PassState = "cancelled"
	// StateFailed indicates the pass could not run at all
	StateFailed PassState = "failed"
)

// SortStatus represents the overall result of a pass
type SortStatus string

const (
	// StatusSuccess indicates all files were processed successfully
	StatusSuccess SortStatus = "success"
	// StatusPartial indicates some files failed
	StatusPartial SortStatus = "partial"
	// StatusFailed indicates the pass failed outright
	StatusFailed SortStatus = "failed"
	// StatusCancelled indicates the pass was cancelled
	StatusCancelled SortStatus = "cancelled"
)

// ExitCode returns the appropriate exit code for the sort status
func (s SortStatus) ExitCode() int {
	switch s {
	case StatusSuccess:
		return 0
	case StatusPartial:
		return 1
	case StatusFailed:
		return 2
	case StatusCancelled:
		return 3
	default:
		return 2
	}
}

// Statistics holds per-pass metrics
type Statistics struct {
	// FilesListed is the number of regular files found in the directory
	FilesListed int

	// FilesProcessed counts files classified and moved (or, in preview
	// mode, files that would have been moved)
	FilesProcessed int

	// FilesSkipped counts hidden/system files left untouched
	FilesSkipped int

	// FilesErrored counts files whose move failed
	FilesErrored int

	// PerCategory maps category name to the number of files sorted
	// into it during this pass
	PerCategory map[string]int
}

// MoveRecord describes one file relocation within a pass.
// Source and Dest are relative to the pass directory.
type MoveRecord struct {
	Name     string
	Category string
	Source   string
	Dest     string
	Preview  bool
}

// SortError represents a per-file error during a pass or a restore
type SortError struct {
	FilePath  string
	Operation string
	Error     string
	Timestamp time.Time
}

// SortReport represents the results of a sorting pass
type SortReport struct {
	// Operation details
	OperationID string
	Directory   string
	Preview     bool

	// Timing
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	// Statistics
	Stats Statistics

	// Moves performed (or simulated in preview mode)
	Moves []MoveRecord

	// Errors encountered
	Errors []SortError

	// Overall status
	Status SortStatus
}

// RestoreReport represents the results of an undo or backup restore
type RestoreReport struct {
	Restored int
	Errored  int
	Errors   []SortError
}

// VerifyReport represents the results of checking a backup snapshot
// against its source directory
type VerifyReport struct {
	Matched    int
	Mismatched int
	Missing    int
	Errored    int
	Problems   []SortError
}

// Clean reports whether every backed-up file was found intact
func (r *VerifyReport) Clean() bool {
	return r.Mismatched == 0 && r.Missing == 0 && r.Errored == 0
}
