//go:build !linux && !darwin && !windows

package platform

import (
	"os"
	"time"
)

// FileTimes extracts the access and modification times from file metadata.
// Platforms without a known stat layout fall back to the modification time
// for both values.
func FileTimes(info os.FileInfo) (atime, mtime time.Time) {
	return info.ModTime(), info.ModTime()
}
