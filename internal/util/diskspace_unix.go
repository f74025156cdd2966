//go:build linux || darwin

package util

import "golang.org/x/sys/unix"

// availableSpace reports the space available to an unprivileged user at path, in bytes.
func availableSpace(path string) uint64 {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0
	}
	return uint64(stat.Bavail) * uint64(stat.Bsize) //nolint:unconvert
}
