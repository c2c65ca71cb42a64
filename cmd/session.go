package cmd

import (
	"fmt"
	"os"

	"github.com/deploymenttheory/hfsx/internal/device"
	"github.com/deploymenttheory/hfsx/internal/orchestrator"
)

// openSession opens devicePath as a raw block device or disk image and
// wraps it in an orchestrator.Session. The caller must close the
// returned file once done with the session, since the session's fork
// readers hold no independent handle of their own (spec.md §3
// "Ownership": orchestration owns the underlying handle for the
// duration of an operation).
func openSession(devicePath string) (*orchestrator.Session, *os.File, error) {
	f, size, err := device.OpenHandle(devicePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", devicePath, err)
	}

	sess, err := orchestrator.Open(f, size)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("open volume: %w", err)
	}

	return sess, f, nil
}
