//go:build !linux

package device

import "os"

// openRawDevice has no advisory-flags path outside Linux; OpenHandle
// always falls back to a plain os.Open on these platforms.
func openRawDevice(path string) (*os.File, error) {
	return os.Open(path)
}
