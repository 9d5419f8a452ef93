package sorter

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/tvernaillen/filesorter/pkg/logging"
	"github.com/tvernaillen/filesorter/pkg/models"
	"github.com/tvernaillen/filesorter/pkg/storage"
)

// UndoLog holds the single retained undo record: the moves of the most
// recent real pass. Recording a new pass overwrites the previous record;
// a successful Apply clears it. There is no history stack.
type UndoLog struct {
	mu    sync.Mutex
	moves []models.MoveRecord
}

// NewUndoLog creates an empty undo log
func NewUndoLog() *UndoLog {
	return &UndoLog{}
}

// Record replaces the retained record with the given moves
func (u *UndoLog) Record(moves []models.MoveRecord) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.moves = append([]models.MoveRecord(nil), moves...)
}

// Moves returns a copy of the retained record
func (u *UndoLog) Moves() []models.MoveRecord {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]models.MoveRecord(nil), u.moves...)
}

// Len returns the number of retained moves
func (u *UndoLog) Len() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.moves)
}

// Clear discards the retained record
func (u *UndoLog) Clear() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.moves = nil
}

// Apply moves every recorded file back to its original path, restoring
// timestamps, and reports how many files were restored. Per-file
// failures are logged and counted; the remaining files are still
// attempted. The record is cleared once Apply returns, so undo is
// single-shot and not itself undoable.
//
// Returns models.ErrNoUndo when nothing has been recorded.
func (u *UndoLog) Apply(ctx context.Context, store storage.Backend, logger logging.Logger) (*models.RestoreReport, error) {
	u.mu.Lock()
	moves := u.moves
	u.moves = nil
	u.mu.Unlock()

	if len(moves) == 0 {
		return nil, models.ErrNoUndo
	}

	report := &models.RestoreReport{}

	for _, m := range moves {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		if err := u.restore(ctx, store, m); err != nil {
			logger.Error(ctx, "failed to restore file", err, logging.Fields{
				"file": m.Dest,
			})
			report.Errored++
			report.Errors = append(report.Errors, models.SortError{
				FilePath:  m.Dest,
				Operation: "undo",
				Error:     err.Error(),
				Timestamp: time.Now(),
			})
			continue
		}

		logger.Info(ctx, "restored file to original location", logging.Fields{
			"file": m.Name,
		})
		report.Restored++
	}

	return report, nil
}

// restore moves one file back to its original path
func (u *UndoLog) restore(ctx context.Context, store storage.Backend, m models.MoveRecord) error {
	// The original parent directory may have been removed since the pass
	if err := store.MkdirAll(ctx, filepath.Dir(m.Source)); err != nil {
		return err
	}

	info, err := store.Stat(ctx, m.Dest)
	if err != nil {
		return err
	}

	if err := store.Move(ctx, m.Dest, m.Source); err != nil {
		return err
	}

	return store.Chtimes(ctx, m.Source, info.AccessTime, info.ModTime)
}
