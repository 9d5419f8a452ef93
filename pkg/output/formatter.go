package output

import (
	"io"

	"github.com/tvernaillen/filesorter/pkg/models"
)

// ProgressUpdate represents a progress notification during a pass
type ProgressUpdate struct {
	Type     string // "file_moved", "file_preview", "file_skipped", "file_error"
	Name     string
	Category string
	Index    int // 1-based position in the listing
	Total    int
	Error    error
}

// Formatter defines the interface for pass output.
// Implementations include human-readable, JSON and progress-bar formatters.
type Formatter interface {
	// Start initializes the formatter for a new pass
	Start(writer io.Writer, totalFiles int) error

	// Progress reports progress after each listed file
	Progress(update ProgressUpdate) error

	// Complete finalizes output and displays the pass summary
	Complete(report *models.SortReport) error

	// Error reports an error outside the per-file flow
	Error(err error) error

	// Name returns the formatter name
	Name() string
}
