// Package orchestrator implements the analyze, list, extract, and
// discover operator actions (C10): wiring the volume probe, volume
// header model, B-tree files, and catalog into the end-to-end flows a
// CLI invocation drives, exactly as the teacher's internal/services
// wraps its parsers for pkg/app's handlers to call.
package orchestrator

import (
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/deploymenttheory/hfsx/internal/btree"
	"github.com/deploymenttheory/hfsx/internal/catalog"
	"github.com/deploymenttheory/hfsx/internal/device"
	"github.com/deploymenttheory/hfsx/internal/forkreader"
	"github.com/deploymenttheory/hfsx/internal/hfserr"
	"github.com/deploymenttheory/hfsx/internal/probe"
	"github.com/deploymenttheory/hfsx/internal/types"
	"github.com/deploymenttheory/hfsx/internal/volume"
)

// Session is one open volume, ready to drive analyze/list/extract/
// discover. RunID tags the invocation for correlation across log lines
// and extract staging paths (SPEC_FULL.md §3, "google/uuid").
type Session struct {
	RunID string

	Kind probe.Kind
	vol  volume.Volume
	ext  *btree.File
	cat  *catalog.Catalog
}

// Open probes ra for a volume, opens it, wraps its extents-overflow and
// catalog forks as B-trees, and — for HFS+ — resolves the volume's
// display name from the root folder's thread record (spec.md §4.3).
// When Probe finds more than one location (an HFS wrapper plus its
// embedded HFS+ volume) the innermost one is preferred, since that's
// the volume an operator almost always means by "the volume on this
// image" (spec.md §4.2's two-location case exists "for completeness").
func Open(ra io.ReaderAt, sizeHint int64) (*Session, error) {
	locs, err := probe.Probe(ra, sizeHint)
	if err != nil {
		return nil, err
	}
	if len(locs) == 0 {
		return nil, hfserr.New(hfserr.UnknownVolume, "orchestrator.Open", fmt.Errorf("no recognized HFS/HFS+ signature found"))
	}
	loc := locs[len(locs)-1]

	vol, err := volume.Open(ra, loc)
	if err != nil {
		return nil, err
	}

	extFile, err := btree.Open(vol.Reader(), vol.ExtentsFileFork())
	if err != nil {
		return nil, fmt.Errorf("orchestrator.Open: extents overflow b-tree: %w", err)
	}

	catFile, err := btree.Open(vol.Reader(), vol.CatalogFileFork())
	if err != nil {
		return nil, fmt.Errorf("orchestrator.Open: catalog b-tree: %w", err)
	}

	s := &Session{
		RunID: uuid.NewString(),
		Kind:  loc.Kind,
		vol:   vol,
		ext:   extFile,
		cat:   catalog.Open(catFile, loc.Kind == probe.KindHFSPlus),
	}

	if loc.Kind == probe.KindHFSPlus {
		if name, err := s.cat.VolumeName(); err == nil {
			vol.SetName(name)
		}
	}

	return s, nil
}

// VolumeName returns the volume's display name.
func (s *Session) VolumeName() string { return s.vol.Name() }

// lookupOverflow adapts the extents-overflow B-tree as a
// forkreader.OverflowLookup, the shape forkreader.New needs to extend a
// fork's inline extents past its three/eight inline slots.
func (s *Session) lookupOverflow(key types.ExtentOverflowKey) ([]types.Extent, bool, error) {
	return btree.LookupOverflowExtents(s.ext, key, s.Kind == probe.KindHFSPlus)
}

// openFork wraps one of an item's forks (data or resource) as a
// forkreader.Reader, fetching overflow extents on demand.
func (s *Session) openFork(fork types.ForkDescriptor, forkType types.ForkType, fileID types.Cnid) (*forkreader.Reader, error) {
	return forkreader.New(s.vol.Reader(), fork, forkType, fileID, s.lookupOverflow)
}

// deviceReader exposes the volume's device.Reader without leaking the
// Volume interface itself. Nothing calls it at present; the analyze
// action's bitmap cross-check reads through volume.CountFreeBlocks.
func (s *Session) deviceReader() *device.Reader { return s.vol.Reader() }
