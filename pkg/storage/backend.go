package storage

import (
	"context"
	"io"
	"io/fs"
	"time"
)

// FileInfo represents metadata about a file
type FileInfo struct {
	Name       string
	Path       string
	Size       int64
	Mode       fs.FileMode
	ModTime    time.Time
	AccessTime time.Time
	IsDir      bool
}

// Backend defines the interface for filesystem operations rooted at one
// directory. All paths are relative to that root. The local filesystem is
// the only implementation today; the interface keeps the engine testable
// and leaves room for other backends.
type Backend interface {
	// ListDir returns the direct children of path, without recursing
	ListDir(ctx context.Context, path string) ([]FileInfo, error)

	// Stat returns file metadata
	Stat(ctx context.Context, path string) (*FileInfo, error)

	// Exists checks if a file or directory exists
	Exists(ctx context.Context, path string) (bool, error)

	// Read opens a file for streaming reads
	Read(ctx context.Context, path string) (io.ReadCloser, error)

	// Move relocates a file, by rename where the filesystem allows it
	// and by copy-and-delete otherwise
	Move(ctx context.Context, oldPath, newPath string) error

	// Copy duplicates a regular file, preserving mode and timestamps
	Copy(ctx context.Context, srcPath, destPath string) error

	// MkdirAll creates a directory and all necessary parents
	MkdirAll(ctx context.Context, path string) error

	// Chtimes sets the access and modification times of a file
	Chtimes(ctx context.Context, path string, atime, mtime time.Time) error

	// Root returns the absolute root directory of the backend
	Root() string

	// Close releases any resources held by the backend
	Close() error
}
