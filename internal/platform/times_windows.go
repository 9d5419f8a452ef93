//go:build windows

package platform

import (
	"os"
	"syscall"
	"time"
)

// FileTimes extracts the access and modification times from file metadata
func FileTimes(info os.FileInfo) (atime, mtime time.Time) {
	mtime = info.ModTime()
	if d, ok := info.Sys().(*syscall.Win32FileAttributeData); ok {
		atime = time.Unix(0, d.LastAccessTime.Nanoseconds())
		return atime, mtime
	}
	return mtime, mtime
}
