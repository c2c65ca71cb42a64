// Package forkreader implements the fork reader (C6): a logical
// byte-address space over a fork's extent list, fetching additional
// extents from the extents-overflow B-tree on demand when the inline
// extents don't cover the fork's total block count.
package forkreader

import (
	"fmt"
	"io"

	"github.com/deploymenttheory/hfsx/internal/device"
	"github.com/deploymenttheory/hfsx/internal/hfserr"
	"github.com/deploymenttheory/hfsx/internal/types"
)

// OverflowLookup searches the extents-overflow B-tree for the extent
// record keyed by key, returning the additional extents it maps to.
type OverflowLookup func(key types.ExtentOverflowKey) ([]types.Extent, bool, error)

// Reader is a materialized, fully-covering extent list for one fork,
// addressable as a flat logical byte stream.
type Reader struct {
	device      *device.Reader
	extents     []types.Extent
	logicalSize int64
	forkType    types.ForkType
	fileID      types.Cnid
}

// New builds a Reader for fork, fetching overflow extents through
// lookup as needed until the extent list's block coverage reaches
// fork.TotalBlocks. lookup may be nil when the caller already knows
// the inline extents are exhaustive (e.g. the volume's own extents-
// overflow or catalog forks, which spec.md's typical case never
// overflows); in that case a short inline list fails with ShortFork
// rather than panicking.
func New(dr *device.Reader, fork types.ForkDescriptor, forkType types.ForkType, fileID types.Cnid, lookup OverflowLookup) (*Reader, error) {
	extents := append([]types.Extent{}, fork.Extents...)
	// Trim trailing zero-length inline extent slots (HFS/HFS+ pad the
	// fixed-size extent arrays with (0,0) entries once the fork's real
	// extents run out).
	extents = trimZeroExtents(extents)

	covered := sumBlocks(extents)
	for covered < fork.TotalBlocks {
		if lookup == nil {
			return nil, hfserr.New(hfserr.ShortFork, "forkreader.New", fmt.Errorf("fork covers %d of %d blocks, no overflow lookup available", covered, fork.TotalBlocks))
		}
		key := types.ExtentOverflowKey{ForkType: forkType, FileID: fileID, StartBlock: covered}
		more, found, err := lookup(key)
		if err != nil {
			return nil, err
		}
		more = trimZeroExtents(more)
		if !found || len(more) == 0 {
			return nil, hfserr.New(hfserr.ShortFork, "forkreader.New", fmt.Errorf("overflow search for fork %d/%d exhausted at %d of %d blocks", forkType, fileID, covered, fork.TotalBlocks))
		}
		extents = append(extents, more...)
		covered += sumBlocks(more)
	}

	return &Reader{
		device:      dr,
		extents:     extents,
		logicalSize: int64(fork.LogicalSize),
		forkType:    forkType,
		fileID:      fileID,
	}, nil
}

func trimZeroExtents(extents []types.Extent) []types.Extent {
	out := extents[:0:0]
	for _, e := range extents {
		if e.BlockCount == 0 {
			break
		}
		out = append(out, e)
	}
	return out
}

func sumBlocks(extents []types.Extent) uint32 {
	var total uint32
	for _, e := range extents {
		total += e.BlockCount
	}
	return total
}

// Size returns the fork's logical size in bytes.
func (r *Reader) Size() int64 { return r.logicalSize }

// ReadRange returns length bytes starting at offset in the fork's
// logical byte-address space. Reading up to and including the fork's
// last byte succeeds; a range that reaches even one byte past
// logicalSize fails with OutOfRange rather than silently truncating
// (spec.md §3, §8 S5). The range is located by ReadExtentRange's linear
// scan over the extent list, so locating it costs O(k) in the number of
// extents k; there is no binary search.
func (r *Reader) ReadRange(offset, length int64) ([]byte, error) {
	if offset < 0 {
		return nil, hfserr.New(hfserr.DeviceIo, "forkreader.ReadRange", fmt.Errorf("negative offset %d", offset))
	}
	if offset+length > r.logicalSize {
		return nil, hfserr.New(hfserr.OutOfRange, "forkreader.ReadRange", fmt.Errorf("range [%d,%d) exceeds logical size %d", offset, offset+length, r.logicalSize))
	}
	return r.device.ReadExtentRange(r.extents, offset, length)
}

// ReadAt implements io.ReaderAt over the fork's logical byte stream, so
// extraction can drive it with io.Copy / io.SectionReader.
func (r *Reader) ReadAt(p []byte, off int64) (int, error) {
	if off >= r.logicalSize {
		return 0, io.EOF
	}
	n := int64(len(p))
	if off+n > r.logicalSize {
		n = r.logicalSize - off
	}
	chunk, err := r.device.ReadExtentRange(r.extents, off, n)
	if err != nil {
		return 0, err
	}
	copy(p, chunk)
	if n < int64(len(p)) {
		return int(n), io.EOF
	}
	return int(n), nil
}

// Info summarizes a fork's extent geometry for the analyze action's
// per-file diagnostics (spec.md's fork reader description doesn't name
// this, but every reference implementation surfaces it — see
// SPEC_FULL.md §6.2).
type Info struct {
	LogicalSize  int64
	PhysicalSize int64
	ExtentCount  int
	Fragmented   bool
}

// Stat reports the fork's size and fragmentation summary.
func (r *Reader) Stat() Info {
	var physical int64
	for _, e := range r.extents {
		physical += int64(e.BlockCount) * int64(r.device.AllocBlockSize())
	}
	return Info{
		LogicalSize:  r.logicalSize,
		PhysicalSize: physical,
		ExtentCount:  len(r.extents),
		Fragmented:   len(r.extents) > 1,
	}
}
