package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/tvernaillen/filesorter/pkg/models"
)

// HumanFormatter formats output in human-readable format
type HumanFormatter struct {
	writer     io.Writer
	totalFiles int
}

// NewHumanFormatter creates a new human-readable formatter
func NewHumanFormatter() *HumanFormatter {
	return &HumanFormatter{}
}

// Start initializes the formatter. A nil writer keeps the current one,
// defaulting to stdout
func (f *HumanFormatter) Start(writer io.Writer, totalFiles int) error {
	if writer != nil {
		f.writer = writer
	} else if f.writer == nil {
		f.writer = os.Stdout
	}
	f.totalFiles = totalFiles

	fmt.Fprintf(f.writer, "Sorting %d files\n", totalFiles)
	return nil
}

// Progress reports progress during a pass
func (f *HumanFormatter) Progress(update ProgressUpdate) error {
	if f.writer == nil {
		return nil
	}

	switch update.Type {
	case "file_moved":
		fmt.Fprintf(f.writer, "[%d/%d] %s -> %s\n",
			update.Index, f.totalFiles, update.Name, update.Category)

	case "file_preview":
		fmt.Fprintf(f.writer, "[%d/%d] would move %s -> %s\n",
			update.Index, f.totalFiles, update.Name, update.Category)

	case "file_skipped":
		fmt.Fprintf(f.writer, "[%d/%d] skipped %s\n",
			update.Index, f.totalFiles, update.Name)

	case "file_error":
		fmt.Fprintf(f.writer, "[%d/%d] ✗ %s: %v\n",
			update.Index, f.totalFiles, update.Name, update.Error)
	}

	return nil
}

// Complete finalizes output and displays the pass summary
func (f *HumanFormatter) Complete(report *models.SortReport) error {
	if f.writer == nil {
		f.writer = os.Stdout
	}
	writeSummary(f.writer, report)
	return nil
}

// Error reports an error
func (f *HumanFormatter) Error(err error) error {
	if f.writer == nil {
		f.writer = os.Stderr
	}
	fmt.Fprintf(f.writer, "Error: %v\n", err)
	return nil
}

// Name returns the formatter name
func (f *HumanFormatter) Name() string {
	return "human"
}

// writeSummary prints the pass summary shared by the human and progress
// formatters
func writeSummary(w io.Writer, report *models.SortReport) {
	verb := "Pass"
	if report.Preview {
		verb = "Preview"
	}

	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "%s completed in %s\n", verb, report.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "Summary:\n")
	fmt.Fprintf(w, "  Files found:     %d\n", report.Stats.FilesListed)
	fmt.Fprintf(w, "  Files processed: %d\n", report.Stats.FilesProcessed)
	fmt.Fprintf(w, "  Files skipped:   %d\n", report.Stats.FilesSkipped)
	fmt.Fprintf(w, "  Files errored:   %d\n", report.Stats.FilesErrored)

	if len(report.Stats.PerCategory) > 0 {
		fmt.Fprintf(w, "\n")
		fmt.Fprintf(w, "  Per category:\n")

		categories := make([]string, 0, len(report.Stats.PerCategory))
		for name := range report.Stats.PerCategory {
			categories = append(categories, name)
		}
		sort.Strings(categories)

		for _, name := range categories {
			fmt.Fprintf(w, "    %-15s %d\n", name+":", report.Stats.PerCategory[name])
		}
	}

	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "Status: %s\n", report.Status)

	if len(report.Errors) > 0 {
		fmt.Fprintf(w, "\nErrors:\n")
		for _, err := range report.Errors {
			fmt.Fprintf(w, "  %s: %s\n", err.FilePath, err.Error)
		}
	}
}
