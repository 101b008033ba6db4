//go:build !unix

// ABOUTME: Free space query stub for platforms without statfs
// ABOUTME: Reports the query as unsupported so checks are skipped
package fsutil

import "errors"

// FreeSpace is not available on this platform
func FreeSpace(dir string) (uint64, error) {
	return 0, errors.ErrUnsupported
}
