package output

import (
	"io"
	"os"

	"github.com/cheggaaa/pb/v3"

	"github.com/tvernaillen/filesorter/pkg/models"
)

// ProgressFormatter renders a progress bar while a pass runs and prints
// the summary on completion
type ProgressFormatter struct {
	writer io.Writer
	bar    *pb.ProgressBar
}

// NewProgressFormatter creates a new progress bar formatter
func NewProgressFormatter() *ProgressFormatter {
	return &ProgressFormatter{}
}

// Start initializes the progress bar. A nil writer keeps the current
// one, defaulting to stdout
func (f *ProgressFormatter) Start(writer io.Writer, totalFiles int) error {
	if writer != nil {
		f.writer = writer
	} else if f.writer == nil {
		f.writer = os.Stdout
	}

	if totalFiles > 0 {
		f.bar = pb.New(totalFiles)
		f.bar.SetWriter(f.writer)
		f.bar.Start()
	}

	return nil
}

// Progress advances the bar
func (f *ProgressFormatter) Progress(update ProgressUpdate) error {
	if f.bar != nil {
		f.bar.SetCurrent(int64(update.Index))
	}
	return nil
}

// Complete stops the bar and prints the summary
func (f *ProgressFormatter) Complete(report *models.SortReport) error {
	if f.bar != nil {
		f.bar.Finish()
		f.bar = nil
	}
	if f.writer == nil {
		f.writer = os.Stdout
	}
	writeSummary(f.writer, report)
	return nil
}

// Error reports an error
func (f *ProgressFormatter) Error(err error) error {
	if f.bar != nil {
		f.bar.Finish()
		f.bar = nil
	}
	return NewHumanFormatter().Error(err)
}

// Name returns the formatter name
func (f *ProgressFormatter) Name() string {
	return "progress"
}
