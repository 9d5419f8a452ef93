package sorter

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/tvernaillen/filesorter/pkg/category"
	"github.com/tvernaillen/filesorter/pkg/logging"
	"github.com/tvernaillen/filesorter/pkg/models"
	"github.com/tvernaillen/filesorter/pkg/output"
	"github.com/tvernaillen/filesorter/pkg/storage"
)

// Engine runs one sorting pass over a directory: classification,
// collision resolution, move execution (or simulation in preview mode)
// and undo bookkeeping. A pass is sequential and synchronous; the only
// concurrency primitive it supports is cooperative cancellation through
// the context, checked between files.
//
// The engine assumes exclusive access to the directory for the duration
// of a pass. External modification during a pass surfaces as per-file
// move failures.
type Engine struct {
	store     storage.Backend
	registry  *category.Registry
	undo      *UndoLog
	formatter output.Formatter
	logger    logging.Logger
	op        *models.SortOperation

	mu    sync.Mutex
	state models.PassState
}

// NewEngine creates a new sorting engine
func NewEngine(
	store storage.Backend,
	registry *category.Registry,
	undo *UndoLog,
	formatter output.Formatter,
	logger logging.Logger,
	op *models.SortOperation,
) *Engine {
	return &Engine{
		store:     store,
		registry:  registry,
		undo:      undo,
		formatter: formatter,
		logger:    logger,
		op:        op,
		state:     models.StateIdle,
	}
}

// State returns the current pass state
func (e *Engine) State() models.PassState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) setState(state models.PassState) {
	e.mu.Lock()
	e.state = state
	e.mu.Unlock()
}

// Run executes the pass and returns its report. Per-file failures never
// abort the pass; only an unlistable directory does.
func (e *Engine) Run(ctx context.Context) (*models.SortReport, error) {
	report := &models.SortReport{
		OperationID: e.op.ID,
		Directory:   e.store.Root(),
		Preview:     e.op.Preview,
		StartTime:   time.Now(),
		Status:      models.StatusSuccess,
		Stats: models.Statistics{
			PerCategory: make(map[string]int),
		},
	}

	e.setState(models.StateListing)

	entries, err := e.store.ListDir(ctx, ".")
	if err != nil {
		e.setState(models.StateFailed)
		report.Status = models.StatusFailed
		e.finalize(ctx, report)
		return report, fmt.Errorf("failed to list directory %s: %w", e.store.Root(), err)
	}

	files := make([]storage.FileInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir || !entry.Mode.IsRegular() {
			continue
		}
		files = append(files, entry)
	}

	total := len(files)
	report.Stats.FilesListed = total

	if total == 0 {
		e.logger.Info(ctx, "directory contains no files, nothing to sort", logging.Fields{
			"directory": e.store.Root(),
		})
		e.setState(models.StateCompleted)
		e.finalize(ctx, report)
		return report, nil
	}

	e.logger.Info(ctx, "starting pass", logging.Fields{
		"operation_id": e.op.ID,
		"directory":    e.store.Root(),
		"preview":      e.op.Preview,
		"files":        total,
	})

	if e.formatter != nil {
		e.formatter.Start(nil, total)
	}

	e.setState(models.StateProcessing)

	moved := make([]models.MoveRecord, 0, total)

	for i, f := range files {
		if ctx.Err() != nil {
			e.logger.Warn(ctx, "pass cancelled", logging.Fields{
				"processed": report.Stats.FilesProcessed,
				"remaining": total - i,
			})
			e.setState(models.StateCancelled)
			report.Status = models.StatusCancelled
			break
		}

		e.processFile(ctx, f.Name, i+1, total, report, &moved)
	}

	// Moves performed before a cancellation stay moved and stay undoable
	if !e.op.Preview && len(moved) > 0 {
		e.undo.Record(moved)
	}

	if e.State() != models.StateCancelled {
		e.setState(models.StateCompleted)
		if report.Stats.FilesErrored > 0 {
			if report.Stats.FilesProcessed == 0 {
				report.Status = models.StatusFailed
			} else {
				report.Status = models.StatusPartial
			}
		}
	}

	e.finalize(ctx, report)
	return report, nil
}

// processFile classifies one file and moves it (or simulates the move)
func (e *Engine) processFile(ctx context.Context, name string, index, total int, report *models.SortReport, moved *[]models.MoveRecord) {
	if isHiddenOrSystem(name) {
		e.logger.Info(ctx, "skipping hidden/system file", logging.Fields{
			"file": name,
		})
		report.Stats.FilesSkipped++
		e.progress(output.ProgressUpdate{
			Type: "file_skipped", Name: name, Index: index, Total: total,
		})
		return
	}

	cat := e.registry.Classify(name)

	if e.op.Preview {
		e.logger.Info(ctx, "would move file", logging.Fields{
			"file":     name,
			"category": cat,
		})
		report.Stats.PerCategory[cat]++
		report.Stats.FilesProcessed++
		report.Moves = append(report.Moves, models.MoveRecord{
			Name:     name,
			Category: cat,
			Source:   name,
			Dest:     filepath.Join(cat, name),
			Preview:  true,
		})
		e.progress(output.ProgressUpdate{
			Type: "file_preview", Name: name, Category: cat, Index: index, Total: total,
		})
		return
	}

	dest, err := e.moveFile(ctx, name, cat)
	if err != nil {
		e.logger.Error(ctx, "failed to move file", err, logging.Fields{
			"file":     name,
			"category": cat,
		})
		report.Stats.FilesErrored++
		report.Errors = append(report.Errors, models.SortError{
			FilePath:  name,
			Operation: "move",
			Error:     err.Error(),
			Timestamp: time.Now(),
		})
		e.progress(output.ProgressUpdate{
			Type: "file_error", Name: name, Category: cat, Index: index, Total: total, Error: err,
		})
		return
	}

	record := models.MoveRecord{
		Name:     name,
		Category: cat,
		Source:   name,
		Dest:     dest,
	}
	*moved = append(*moved, record)
	report.Moves = append(report.Moves, record)
	report.Stats.PerCategory[cat]++
	report.Stats.FilesProcessed++

	e.logger.Info(ctx, "moved file", logging.Fields{
		"file":     name,
		"category": cat,
		"dest":     dest,
	})
	e.progress(output.ProgressUpdate{
		Type: "file_moved", Name: name, Category: cat, Index: index, Total: total,
	})
}

// moveFile performs the real relocation of one file and returns the
// destination path relative to the pass directory
func (e *Engine) moveFile(ctx context.Context, name, cat string) (string, error) {
	if err := e.store.MkdirAll(ctx, cat); err != nil {
		return "", fmt.Errorf("create category directory: %w", err)
	}

	dest, err := ResolveCollision(ctx, e.store, filepath.Join(cat, name))
	if err != nil {
		return "", err
	}

	info, err := e.store.Stat(ctx, name)
	if err != nil {
		return "", fmt.Errorf("stat source: %w", err)
	}

	if err := e.store.Move(ctx, name, dest); err != nil {
		return "", err
	}

	// The file is moved either way; a lost timestamp is not worth
	// counting the file as failed
	if err := e.store.Chtimes(ctx, dest, info.AccessTime, info.ModTime); err != nil {
		e.logger.Warn(ctx, "could not restore timestamps", logging.Fields{
			"file":  name,
			"error": err.Error(),
		})
	}

	return dest, nil
}

func (e *Engine) progress(update output.ProgressUpdate) {
	if e.formatter != nil {
		e.formatter.Progress(update)
	}
}

// finalize stamps timing, emits the completion output and the closing
// log line
func (e *Engine) finalize(ctx context.Context, report *models.SortReport) {
	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)

	if e.formatter != nil {
		e.formatter.Complete(report)
	}

	e.logger.Info(ctx, "pass finished", logging.Fields{
		"status":    report.Status,
		"processed": report.Stats.FilesProcessed,
		"skipped":   report.Stats.FilesSkipped,
		"errored":   report.Stats.FilesErrored,
		"duration":  report.Duration.String(),
	})
}

// isHiddenOrSystem reports whether a filename is treated as hidden or
// system-owned and therefore skipped
func isHiddenOrSystem(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~$")
}
