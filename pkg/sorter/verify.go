package sorter

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/tvernaillen/filesorter/pkg/logging"
	"github.com/tvernaillen/filesorter/pkg/models"
	"github.com/tvernaillen/filesorter/pkg/storage"
)

const verifyBufferSize = 64 * 1024

// Verify checks every file of the tracked backup against the file of the
// same name at the top level of the source directory. A source file that
// has since moved or changed shows up as missing or mismatched; that is
// a divergence report, not a failure.
//
// Returns models.ErrNoBackup when no backup has been created.
func (b *BackupManager) Verify(ctx context.Context, logger logging.Logger) (*models.VerifyReport, error) {
	b.mu.Lock()
	backupDir := b.backupDir
	sourceDir := b.sourceDir
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

	backupBase := filepath.Base(backupDir)
	sourceBase := filepath.Base(sourceDir)

	entries, err := store.ListDir(ctx, backupBase)
	if err != nil {
		return nil, fmt.Errorf("failed to list backup directory: %w", err)
	}

	report := &models.VerifyReport{}

	for _, entry := range entries {
		if entry.IsDir {
			continue
		}

		if err := ctx.Err(); err != nil {
			return report, err
		}

		backupPath := filepath.Join(backupBase, entry.Name)
		sourcePath := filepath.Join(sourceBase, entry.Name)

		sourceInfo, err := store.Stat(ctx, sourcePath)
		if err != nil {
			report.Missing++
			report.Problems = append(report.Problems, models.SortError{
				FilePath:  entry.Name,
				Operation: "verify",
				Error:     "missing from source directory",
				Timestamp: time.Now(),
			})
			continue
		}

		// Size differences need no hashing
		if sourceInfo.Size != entry.Size {
			report.Mismatched++
			report.Problems = append(report.Problems, models.SortError{
				FilePath:  entry.Name,
				Operation: "verify",
				Error:     "file sizes differ",
				Timestamp: time.Now(),
			})
			continue
		}

		backupHash, err := hashFile(ctx, store, backupPath)
		if err != nil {
			report.Errored++
			report.Problems = append(report.Problems, models.SortError{
				FilePath:  entry.Name,
				Operation: "verify",
				Error:     err.Error(),
				Timestamp: time.Now(),
			})
			continue
		}
		sourceHash, err := hashFile(ctx, store, sourcePath)
		if err != nil {
			report.Errored++
			report.Problems = append(report.Problems, models.SortError{
				FilePath:  entry.Name,
				Operation: "verify",
				Error:     err.Error(),
				Timestamp: time.Now(),
			})
			continue
		}

		if backupHash != sourceHash {
			logger.Warn(ctx, "backup file diverges from source", logging.Fields{
				"file": entry.Name,
			})
			report.Mismatched++
			report.Problems = append(report.Problems, models.SortError{
				FilePath:  entry.Name,
				Operation: "verify",
				Error:     "file hashes differ",
				Timestamp: time.Now(),
			})
			continue
		}

		report.Matched++
	}

	return report, nil
}

// hashFile computes the SHA-256 of a file using streaming reads
func hashFile(ctx context.Context, store storage.Backend, path string) (string, error) {
	reader, err := store.Read(ctx, path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer reader.Close()

	hasher := sha256.New()
	buffer := make([]byte, verifyBufferSize)

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		n, err := reader.Read(buffer)
		if n > 0 {
			hasher.Write(buffer[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
	}

	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}
