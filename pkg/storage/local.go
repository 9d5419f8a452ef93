package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/tvernaillen/filesorter/internal/platform"
	"github.com/tvernaillen/filesorter/pkg/ratelimit"
)

// Local is a filesystem-based storage backend rooted at one directory
type Local struct {
	rootPath string
	limiter  *ratelimit.Limiter
}

// NewLocal creates a new local filesystem backend. The root must be an
// existing directory.
func NewLocal(rootPath string) (*Local, error) {
	absPath, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to access path: %w", err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", absPath)
	}

	return &Local{rootPath: absPath}, nil
}

// SetRateLimit throttles subsequent copy operations to bytesPerSecond.
// Zero or negative removes the limit.
func (l *Local) SetRateLimit(bytesPerSecond int64) {
	l.limiter = ratelimit.NewLimiter(bytesPerSecond)
}

// ListDir returns the direct children of path in lexical order
func (l *Local) ListDir(ctx context.Context, path string) ([]FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fullPath := filepath.Join(l.rootPath, path)
	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to list directory: %w", err)
	}

	files := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to read entry %s: %w", entry.Name(), err)
		}
		files = append(files, l.fileInfo(filepath.Join(fullPath, entry.Name()), info))
	}

	return files, nil
}

// Stat returns file metadata
func (l *Local) Stat(ctx context.Context, path string) (*FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fullPath := filepath.Join(l.rootPath, path)
	info, err := os.Stat(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	fi := l.fileInfo(fullPath, info)
	return &fi, nil
}

// Exists checks if a file or directory exists
func (l *Local) Exists(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	_, err := os.Stat(filepath.Join(l.rootPath, path))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check existence: %w", err)
}

// Read opens a file for streaming reads
func (l *Local) Read(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(l.rootPath, path))
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return f, nil
}

// Move relocates a file. Rename is attempted first; when the filesystem
// rejects it (cross-device link, for instance) the file is copied and the
// original removed.
func (l *Local) Move(ctx context.Context, oldPath, newPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	oldFull := filepath.Join(l.rootPath, oldPath)
	newFull := filepath.Join(l.rootPath, newPath)

	if err := os.Rename(oldFull, newFull); err == nil {
		return nil
	}

	if err := l.copyFile(ctx, oldFull, newFull); err != nil {
		return fmt.Errorf("failed to move file: %w", err)
	}
	if err := os.Remove(oldFull); err != nil {
		return fmt.Errorf("failed to remove source after copy: %w", err)
	}

	return nil
}

// Copy duplicates a regular file, preserving mode and timestamps
func (l *Local) Copy(ctx context.Context, srcPath, destPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	srcFull := filepath.Join(l.rootPath, srcPath)
	destFull := filepath.Join(l.rootPath, destPath)

	if err := l.copyFile(ctx, srcFull, destFull); err != nil {
		return fmt.Errorf("failed to copy file: %w", err)
	}

	return nil
}

// MkdirAll creates a directory and all necessary parents
func (l *Local) MkdirAll(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Join(l.rootPath, path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	return nil
}

// Chtimes sets the access and modification times of a file
func (l *Local) Chtimes(ctx context.Context, path string, atime, mtime time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Chtimes(filepath.Join(l.rootPath, path), atime, mtime); err != nil {
		return fmt.Errorf("failed to set file times: %w", err)
	}

	return nil
}

// Root returns the absolute root directory of the backend
func (l *Local) Root() string {
	return l.rootPath
}

// Close releases resources (no-op for local filesystem)
func (l *Local) Close() error {
	return nil
}

func (l *Local) fileInfo(fullPath string, info os.FileInfo) FileInfo {
	atime, mtime := platform.FileTimes(info)
	return FileInfo{
		Name:       info.Name(),
		Path:       fullPath,
		Size:       info.Size(),
		Mode:       info.Mode(),
		ModTime:    mtime,
		AccessTime: atime,
		IsDir:      info.IsDir(),
	}
}

// copyFile copies src to dest with mode and timestamps carried over.
// Reads go through the rate limiter when one is set.
func (l *Local) copyFile(ctx context.Context, src, dest string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	reader := ratelimit.NewReader(ctx, in, l.limiter)
	if _, err := io.Copy(out, reader); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	atime, mtime := platform.FileTimes(info)
	return os.Chtimes(dest, atime, mtime)
}
