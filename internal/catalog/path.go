package catalog

import (
	"fmt"
	"strings"

	"github.com/deploymenttheory/hfsx/internal/hfserr"
	"github.com/deploymenttheory/hfsx/internal/types"
)

// ReconstructPath walks thread records upward from cnid to the volume
// root, prepending each ancestor's name, and returns the colon-
// separated path (spec.md §4.7 "Path reconstruction"). The volume name
// itself is not included; callers that want a fully-qualified
// "Volume:a:b:c" path prepend it themselves.
func (c *Catalog) ReconstructPath(cnid types.Cnid) (string, error) {
	var segments []string
	id := cnid

	for id != types.CnidRootFolder {
		thread, found, err := c.threadFor(id)
		if err != nil {
			return "", err
		}
		if !found {
			return "", hfserr.New(hfserr.BrokenChain, "ReconstructPath", fmt.Errorf("no thread record for cnid %d", id))
		}
		segments = append([]string{thread.NodeName}, segments...)
		id = thread.ParentID
	}

	return strings.Join(segments, ":"), nil
}
