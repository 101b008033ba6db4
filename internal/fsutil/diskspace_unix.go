//go:build unix

// ABOUTME: Free space query for Unix filesystems
// ABOUTME: Uses statfs through golang.org/x/sys/unix
package fsutil

import "golang.org/x/sys/unix"

// FreeSpace returns the bytes available to unprivileged users under dir
func FreeSpace(dir string) (uint64, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(dir, &st); err != nil {
		return 0, err
	}
	return uint64(st.Bavail) * uint64(st.Bsize), nil
}
