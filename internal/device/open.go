package device

import (
	"fmt"
	"os"
	"strings"
)

// OpenHandle opens a path to a block device or disk image for reading.
// Platform file descriptor opening is an external collaborator per
// spec.md §1; this is the thin host-side helper the orchestrator calls
// before constructing a Reader. When path looks like a raw device node,
// openRawDevice is given the chance to pass platform-specific advisory
// flags (see open_unix.go); any failure there falls back to a plain
// os.Open rather than aborting.
func OpenHandle(path string) (*os.File, int64, error) {
	if looksLikeRawDevice(path) {
		if f, err := openRawDevice(path); err == nil {
			stat, statErr := f.Stat()
			if statErr == nil {
				return f, stat.Size(), nil
			}
			f.Close()
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("opening %s: %w", path, err)
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("statting %s: %w", path, err)
	}
	return f, stat.Size(), nil
}

func looksLikeRawDevice(path string) bool {
	return strings.HasPrefix(path, "/dev/")
}
