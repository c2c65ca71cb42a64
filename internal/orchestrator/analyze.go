package orchestrator

import (
	"fmt"

	"github.com/deploymenttheory/hfsx/internal/catalog"
	"github.com/deploymenttheory/hfsx/internal/types"
	"github.com/deploymenttheory/hfsx/internal/volume"
)

// Anomaly is one structural or accounting inconsistency surfaced by
// Analyze. Kind names the check that produced it; none of these stop
// the walk — analyze reports everything it finds in one pass (spec.md
// §4.9 "analyze" action).
type Anomaly struct {
	Kind string
	Item string
	Detail string
}

// Report is the analyze action's structural dump: volume-level
// geometry and accounting, plus every cross-check anomaly found during
// a full catalog walk (SPEC_FULL.md §6.2's per-file fork diagnostics).
type Report struct {
	Kind           string
	Name           string
	AllocBlockSize uint32
	TotalBlocks    uint32
	HeaderFreeBlocks uint32
	BitmapFreeBlocks uint32
	FileCount      uint32
	FolderCount    uint32
	FilesWalked    int
	FoldersWalked  int
	Anomalies      []Anomaly
}

// Analyze performs the three cross-checks spec.md §4.9 names for the
// analyze action — logicalSize vs. physical fork coverage per file,
// the bitmap's free-block popcount against the header's own FreeBlocks
// field (Open Question 2: mismatches are warnings, never errors), and a
// fork-geometry walk of the whole catalog — and returns a structural
// report an operator can read directly or a formatter can render.
func (s *Session) Analyze() (*Report, error) {
	r := &Report{
		Kind:             s.Kind.String(),
		Name:             s.vol.Name(),
		AllocBlockSize:   s.vol.AllocBlockSize(),
		TotalBlocks:      s.vol.TotalBlocks(),
		HeaderFreeBlocks: s.vol.FreeBlocks(),
		FileCount:        s.vol.FileCount(),
		FolderCount:      s.vol.FolderCount(),
	}

	bitmapFree, err := volume.CountFreeBlocks(s.vol)
	if err != nil {
		r.Anomalies = append(r.Anomalies, Anomaly{Kind: "BitmapUnreadable", Detail: err.Error()})
	} else {
		r.BitmapFreeBlocks = bitmapFree
		if bitmapFree != r.HeaderFreeBlocks {
			r.Anomalies = append(r.Anomalies, Anomaly{
				Kind:   "FreeBlocksMismatch",
				Detail: fmt.Sprintf("header reports %d free blocks, bitmap popcount finds %d", r.HeaderFreeBlocks, bitmapFree),
			})
		}
	}

	if _, _, leafRecords, err := s.cat.StructuralNodeCounts(); err != nil {
		r.Anomalies = append(r.Anomalies, Anomaly{Kind: "CatalogTreeUnwalkable", Detail: err.Error()})
	} else if declared := s.cat.LeafRecords(); uint32(leafRecords) != declared {
		r.Anomalies = append(r.Anomalies, Anomaly{
			Kind:   "CatalogLeafRecordMismatch",
			Detail: fmt.Sprintf("header declares %d leaf records, breadth-first sweep found %d", declared, leafRecords),
		})
	}

	walkErr := s.cat.WalkAll(func(item catalog.DehydratedItem) bool {
		if item.IsFolder {
			r.FoldersWalked++
			return true
		}
		r.FilesWalked++
		s.analyzeFile(r, item)
		return true
	})
	if walkErr != nil {
		return nil, walkErr
	}

	return r, nil
}

func (s *Session) analyzeFile(r *Report, item catalog.DehydratedItem) {
	s.analyzeFork(r, item, item.DataFork, types.ForkTypeData, "data")
	if item.ResourceFork.LogicalSize > 0 || item.ResourceFork.TotalBlocks > 0 {
		s.analyzeFork(r, item, item.ResourceFork, types.ForkTypeResource, "resource")
	}
}

func (s *Session) analyzeFork(r *Report, item catalog.DehydratedItem, fork types.ForkDescriptor, forkType types.ForkType, label string) {
	fr, err := s.openFork(fork, forkType, item.Cnid)
	if err != nil {
		r.Anomalies = append(r.Anomalies, Anomaly{
			Kind:   "ShortFork",
			Item:   item.Name,
			Detail: fmt.Sprintf("%s fork: %v", label, err),
		})
		return
	}
	info := fr.Stat()
	if info.LogicalSize > info.PhysicalSize {
		r.Anomalies = append(r.Anomalies, Anomaly{
			Kind:   "LogicalExceedsPhysical",
			Item:   item.Name,
			Detail: fmt.Sprintf("%s fork: logical size %d exceeds physical coverage %d", label, info.LogicalSize, info.PhysicalSize),
		})
	}
}
