package sorter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/tvernaillen/filesorter/pkg/logging"
	"github.com/tvernaillen/filesorter/pkg/models"
	"github.com/tvernaillen/filesorter/pkg/storage"
)

// BackupManager creates and restores pre-pass snapshot copies of a
// directory's top-level files. At most one backup reference is tracked;
// creating a new backup overwrites the previous reference.
type BackupManager struct {
	mu        sync.Mutex
	backupDir string
	sourceDir string
	rate      int64
}

// NewBackupManager creates a backup manager with no tracked backup
func NewBackupManager() *BackupManager {
	return &BackupManager{}
}

// SetRateLimit caps the copy bandwidth of Create and Restore to
// bytesPerSecond. Zero or negative means unlimited.
func (b *BackupManager) SetRateLimit(bytesPerSecond int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rate = bytesPerSecond
}

// Create copies every top-level regular file of sourceDir into a sibling
// directory named after the source and the current time, and returns the
// backup directory path. Files are copied, never moved.
func (b *BackupManager) Create(ctx context.Context, sourceDir string) (string, error) {
	absDir, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve source directory: %w", err)
	}

	info, err := os.Stat(absDir)
	if err != nil {
		return "", &models.PathError{Path: sourceDir, Message: "directory not found"}
	}
	if !info.IsDir() {
		return "", &models.PathError{Path: sourceDir, Message: "not a directory"}
	}

	parent := filepath.Dir(absDir)
	base := filepath.Base(absDir)
	backupName := fmt.Sprintf("backup_%s_%d", base, time.Now().Unix())

	store, err := storage.NewLocal(parent)
	if err != nil {
		return "", err
	}
	defer store.Close()

	b.mu.Lock()
	store.SetRateLimit(b.rate)
	b.mu.Unlock()

	if err := store.MkdirAll(ctx, backupName); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	entries, err := store.ListDir(ctx, base)
	if err != nil {
		return "", fmt.Errorf("failed to list source directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir || !entry.Mode.IsRegular() {
			continue
		}
		src := filepath.Join(base, entry.Name)
		dest := filepath.Join(backupName, entry.Name)
		if err := store.Copy(ctx, src, dest); err != nil {
			return "", fmt.Errorf("failed to back up %s: %w", entry.Name, err)
		}
	}

	backupPath := filepath.Join(parent, backupName)

	b.mu.Lock()
	b.backupDir = backupPath
	b.sourceDir = absDir
	b.mu.Unlock()

	return backupPath, nil
}

// Restore copies every file from the tracked backup back into the
// backup's original parent directory, overwriting files of the same
// name. Per-file copy failures are logged and counted; the remaining
// files are still attempted.
//
// Returns models.ErrNoBackup when no backup has been created.
func (b *BackupManager) Restore(ctx context.Context, logger logging.Logger) (*models.RestoreReport, error) {
	b.mu.Lock()
	backupDir := b.backupDir
	sourceDir := b.sourceDir
	rate := b.rate
	b.mu.Unlock()

	if backupDir == "" {
		return nil, models.ErrNoBackup
	}
	if _, err := os.Stat(backupDir); err != nil {
		return nil, fmt.Errorf("%w: backup directory is gone: %s", models.ErrNoBackup, backupDir)
	}

	parent := filepath.Dir(backupDir)
	store, err := storage.NewLocal(parent)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	store.SetRateLimit(rate)

	backupBase := filepath.Base(backupDir)
	sourceBase := filepath.Base(sourceDir)

	entries, err := store.ListDir(ctx, backupBase)
	if err != nil {
		return nil, fmt.Errorf("failed to list backup directory: %w", err)
	}

	if err := store.MkdirAll(ctx, sourceBase); err != nil {
		return nil, fmt.Errorf("failed to recreate source directory: %w", err)
	}

	report := &models.RestoreReport{}

	for _, entry := range entries {
		if entry.IsDir {
			continue
		}

		if err := ctx.Err(); err != nil {
			return report, err
		}

		src := filepath.Join(backupBase, entry.Name)
		dest := filepath.Join(sourceBase, entry.Name)

		if err := store.Copy(ctx, src, dest); err != nil {
			logger.Error(ctx, "failed to restore file from backup", err, logging.Fields{
				"file": entry.Name,
			})
			report.Errored++
			report.Errors = append(report.Errors, models.SortError{
				FilePath:  entry.Name,
				Operation: "restore",
				Error:     err.Error(),
				Timestamp: time.Now(),
			})
			continue
		}

		logger.Info(ctx, "restored file from backup", logging.Fields{
			"file": entry.Name,
		})
		report.Restored++
	}

	return report, nil
}

// Last returns the tracked backup directory and its source directory,
// empty strings when no backup has been created
func (b *BackupManager) Last() (backupDir, sourceDir string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.backupDir, b.sourceDir
}

// SetLast replaces the tracked backup reference. Used by callers that
// persist the reference across process lifetimes.
func (b *BackupManager) SetLast(backupDir, sourceDir string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.backupDir = backupDir
	b.sourceDir = sourceDir
}
