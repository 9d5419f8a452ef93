//go:build darwin

package platform

import (
	"os"
	"syscall"
	"time"
)

// FileTimes extracts the access and modification times from file metadata
func FileTimes(info os.FileInfo) (atime, mtime time.Time) {
	mtime = info.ModTime()
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		atime = time.Unix(st.Atimespec.Sec, st.Atimespec.Nsec)
		return atime, mtime
	}
	return mtime, mtime
}
