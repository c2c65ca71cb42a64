package orchestrator

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/deploymenttheory/hfsx/internal/catalog"
	"github.com/deploymenttheory/hfsx/internal/hfserr"
	"github.com/deploymenttheory/hfsx/internal/types"
)

// ExtractOptions controls the extract action's behavior, mirroring the
// teacher's cmd/extract.go flag set (recursive, overwrite) minus the
// host-permission/metadata flags spec.md's Non-goals exclude (no write
// path means no permission bits to preserve).
type ExtractOptions struct {
	Recursive bool
	Overwrite bool
}

// ExtractResult summarizes one extract invocation.
type ExtractResult struct {
	RunID      string
	FilesCopied int
	BytesCopied int64
}

// Extract copies sourcePath (a file, or a folder when opts.Recursive) out
// of the volume to destPath on the host filesystem. An empty sourcePath
// extracts the entire volume (spec.md §4.9 "extract" action's "default:
// entire volume" case).
func (s *Session) Extract(sourcePath, destPath string, opts ExtractOptions) (ExtractResult, error) {
	result := ExtractResult{RunID: s.RunID}

	cnid, isFolder, name, err := s.resolveHFSEntry(sourcePath)
	if err != nil {
		return result, err
	}

	if isFolder {
		if sourcePath != "" && !opts.Recursive {
			return result, hfserr.New(hfserr.PathSyntax, "Extract", fmt.Errorf("%q is a folder; pass Recursive to extract it", sourcePath))
		}
		if err := s.extractFolder(cnid, destPath, opts, &result); err != nil {
			return result, err
		}
		return result, nil
	}

	item, ok := findByCnid(s, cnid, name)
	if !ok {
		return result, hfserr.New(hfserr.NotFound, "Extract", fmt.Errorf("catalog record for cnid %d vanished mid-walk", cnid))
	}
	if err := s.extractFile(item, destPath, opts, &result); err != nil {
		return result, err
	}
	return result, nil
}

// findByCnid re-fetches one catalog item by walking every catalog leaf
// record until one has a matching CNID (name is not consulted); used
// when Extract already knows the
// leaf CNID/name from resolveHFSEntry and needs the full DehydratedItem
// (fork descriptors) to copy its data.
func findByCnid(s *Session, cnid types.Cnid, name string) (catalog.DehydratedItem, bool) {
	var found catalog.DehydratedItem
	var ok bool
	_ = s.cat.WalkAll(func(item catalog.DehydratedItem) bool {
		if item.Cnid == cnid {
			found, ok = item, true
			return false
		}
		return true
	})
	return found, ok
}

func (s *Session) extractFolder(cnid types.Cnid, destPath string, opts ExtractOptions, result *ExtractResult) error {
	if err := os.MkdirAll(destPath, 0o755); err != nil {
		return hfserr.New(hfserr.DeviceIo, "extractFolder", err)
	}
	children, err := s.cat.Children(cnid)
	if err != nil {
		return err
	}
	for _, child := range children {
		childDest := filepath.Join(destPath, child.Name)
		if child.IsFolder {
			if err := s.extractFolder(child.Cnid, childDest, opts, result); err != nil {
				return err
			}
			continue
		}
		if err := s.extractFile(child, childDest, opts, result); err != nil {
			return err
		}
	}
	return nil
}

// extractFile copies item's data fork to destPath, staging the write
// under a run-tagged temporary name and renaming it into place once the
// copy completes, so a failed or interrupted copy never leaves a
// partial file at destPath (SPEC_FULL.md §3, "namespace temporary
// staging files before the host-side rename").
func (s *Session) extractFile(item catalog.DehydratedItem, destPath string, opts ExtractOptions, result *ExtractResult) error {
	if !opts.Overwrite {
		if _, err := os.Stat(destPath); err == nil {
			return hfserr.New(hfserr.DestinationExists, "extractFile", fmt.Errorf("%s already exists; pass Overwrite to replace it", destPath))
		}
	}

	fr, err := s.openFork(item.DataFork, types.ForkTypeData, item.Cnid)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return hfserr.New(hfserr.DeviceIo, "extractFile", err)
	}

	stagingPath := destPath + ".hfsx-" + s.RunID + ".tmp"
	out, err := os.OpenFile(stagingPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return hfserr.New(hfserr.DeviceIo, "extractFile", err)
	}
	defer os.Remove(stagingPath)

	n, copyErr := io.Copy(out, io.NewSectionReader(fr, 0, fr.Size()))
	closeErr := out.Close()
	if copyErr != nil {
		return hfserr.New(hfserr.DeviceIo, "extractFile", copyErr)
	}
	if closeErr != nil {
		return hfserr.New(hfserr.DeviceIo, "extractFile", closeErr)
	}

	if err := os.Rename(stagingPath, destPath); err != nil {
		return hfserr.New(hfserr.DeviceIo, "extractFile", err)
	}

	result.FilesCopied++
	result.BytesCopied += n
	return nil
}
