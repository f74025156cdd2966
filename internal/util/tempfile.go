package util

// GetAvailableSpace returns the available disk space in bytes at path, or 0 if it
// cannot be determined.
func GetAvailableSpace(path string) uint64 {
	return availableSpace(path)
}

// DiskSpaceLogger receives formatted disk-space warnings.
type DiskSpaceLogger func(format string, args ...any)

// CheckDiskSpace logs a warning via logger (if non-nil) when available space at path
// is low. Returns the available space in bytes.
func CheckDiskSpace(path string, logger DiskSpaceLogger) uint64 {
	space := GetAvailableSpace(path)
	const lowSpaceThreshold = 5 * 1024 * 1024 * 1024 // 5 GiB
	if space != 0 && space < lowSpaceThreshold && logger != nil {
		logger("low disk space at %s: %.2f GiB available", path, float64(space)/(1024*1024*1024))
	}
	return space
}
