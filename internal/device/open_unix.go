//go:build linux

package device

import (
	"os"

	"golang.org/x/sys/unix"
)

// openRawDevice opens a raw device node with O_DIRECT when the kernel
// supports it, so reads bypass the page cache and see the device's true
// contents. Advisory only: some filesystems or device types reject
// O_DIRECT, in which case OpenHandle falls back to a plain os.Open.
func openRawDevice(path string) (*os.File, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_DIRECT, 0)
	if err != nil {
		return nil, err
	}
	return os.NewFile(uintptr(fd), path), nil
}
