package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/tvernaillen/filesorter/pkg/models"
)

// JSONFormatter formats output as JSON for automation and scripting.
// Per-file events are buffered and emitted as part of the final document.
type JSONFormatter struct {
	writer io.Writer
	events []JSONEvent
}

// JSONEvent represents a single per-file event
type JSONEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"`
	Name      string    `json:"name"`
	Category  string    `json:"category,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// JSONReport is the final document written on completion
type JSONReport struct {
	OperationID string            `json:"operation_id"`
	Directory   string            `json:"directory"`
	Preview     bool              `json:"preview"`
	Status      string            `json:"status"`
	Duration    string            `json:"duration"`
	DurationMs  int64             `json:"duration_ms"`
	Stats       JSONStats         `json:"stats"`
	Moves       []JSONMove        `json:"moves,omitempty"`
	Events      []JSONEvent       `json:"events,omitempty"`
	Errors      []JSONError       `json:"errors,omitempty"`
}

// JSONStats represents pass statistics
type JSONStats struct {
	FilesListed    int            `json:"files_listed"`
	FilesProcessed int            `json:"files_processed"`
	FilesSkipped   int            `json:"files_skipped"`
	FilesErrored   int            `json:"files_errored"`
	PerCategory    map[string]int `json:"per_category,omitempty"`
}

// JSONMove represents one relocation
type JSONMove struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Source   string `json:"source"`
	Dest     string `json:"dest"`
	Preview  bool   `json:"preview,omitempty"`
}

// JSONError represents a per-file error
type JSONError struct {
	Path      string    `json:"path"`
	Operation string    `json:"operation"`
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Start initializes the formatter. A nil writer keeps the current one,
// defaulting to stdout
func (f *JSONFormatter) Start(writer io.Writer, totalFiles int) error {
	if writer != nil {
		f.writer = writer
	} else if f.writer == nil {
		f.writer = os.Stdout
	}
	f.events = f.events[:0]
	return nil
}

// Progress buffers a per-file event
func (f *JSONFormatter) Progress(update ProgressUpdate) error {
	event := JSONEvent{
		Timestamp: time.Now().UTC(),
		Type:      update.Type,
		Name:      update.Name,
		Category:  update.Category,
	}
	if update.Error != nil {
		event.Error = update.Error.Error()
	}
	f.events = append(f.events, event)
	return nil
}

// Complete writes the final JSON document
func (f *JSONFormatter) Complete(report *models.SortReport) error {
	if f.writer == nil {
		f.writer = os.Stdout
	}

	doc := JSONReport{
		OperationID: report.OperationID,
		Directory:   report.Directory,
		Preview:     report.Preview,
		Status:      string(report.Status),
		Duration:    report.Duration.String(),
		DurationMs:  report.Duration.Milliseconds(),
		Stats: JSONStats{
			FilesListed:    report.Stats.FilesListed,
			FilesProcessed: report.Stats.FilesProcessed,
			FilesSkipped:   report.Stats.FilesSkipped,
			FilesErrored:   report.Stats.FilesErrored,
			PerCategory:    report.Stats.PerCategory,
		},
		Events: f.events,
	}

	for _, m := range report.Moves {
		doc.Moves = append(doc.Moves, JSONMove{
			Name:     m.Name,
			Category: m.Category,
			Source:   m.Source,
			Dest:     m.Dest,
			Preview:  m.Preview,
		})
	}
	for _, e := range report.Errors {
		doc.Errors = append(doc.Errors, JSONError{
			Path:      e.FilePath,
			Operation: e.Operation,
			Error:     e.Error,
			Timestamp: e.Timestamp,
		})
	}

	enc := json.NewEncoder(f.writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	return nil
}

// Error reports an error as a standalone JSON line
func (f *JSONFormatter) Error(err error) error {
	if f.writer == nil {
		f.writer = os.Stderr
	}

	line, marshalErr := json.Marshal(map[string]string{"error": err.Error()})
	if marshalErr != nil {
		return marshalErr
	}
	fmt.Fprintln(f.writer, string(line))
	return nil
}

// Name returns the formatter name
func (f *JSONFormatter) Name() string {
	return "json"
}
