package orchestrator

import (
	"fmt"
	"strings"

	"github.com/deploymenttheory/hfsx/internal/catalog"
	"github.com/deploymenttheory/hfsx/internal/hfserr"
	"github.com/deploymenttheory/hfsx/internal/types"
)

// ResolvePath walks down from the root folder through p, a TN1041
// colon-separated HFS pathname, matching names case-insensitively (Open
// Question 1, SPEC_FULL.md §12: "a separate case-insensitive match step
// runs at the leaf for name lookups by the CLI"), and returns the
// matched item's CNID. An empty path resolves to the root folder
// itself.
func (s *Session) ResolvePath(p string) (types.Cnid, error) {
	cnid, _, _, err := s.resolveHFSEntry(p)
	return cnid, err
}

// resolveHFSEntry is ResolvePath plus the isFolder/name detail Extract
// needs without a second catalog round-trip. Since this tool always
// descends from the volume root rather than a working directory, a
// leading volume name and a leading colon (TN1041's "relative to
// current directory") are equivalent here: both simply name the root
// as the path's starting point, so ParseHFSPath's first token is
// dropped either way.
func (s *Session) resolveHFSEntry(p string) (cnid types.Cnid, isFolder bool, name string, err error) {
	if p == "" {
		return types.CnidRootFolder, true, "", nil
	}

	tokens, err := ParseHFSPath(p)
	if err != nil {
		return 0, false, "", err
	}

	current := types.CnidRootFolder
	isFolder = true
	name = ""
	for _, part := range tokens[1:] {
		children, cerr := s.cat.Children(current)
		if cerr != nil {
			return 0, false, "", cerr
		}
		item, ok := findByName(children, part)
		if !ok {
			return 0, false, "", hfserr.New(hfserr.NotFound, "ResolvePath", fmt.Errorf("no entry named %q under cnid %d", part, current))
		}
		current = item.Cnid
		isFolder = item.IsFolder
		name = item.Name
	}
	return current, isFolder, name, nil
}

func findByName(items []catalog.DehydratedItem, name string) (catalog.DehydratedItem, bool) {
	for _, it := range items {
		if strings.EqualFold(it.Name, name) {
			return it, true
		}
	}
	return catalog.DehydratedItem{}, false
}
