// Package volume implements the volume header model (C5): parsing the
// HFS Master Directory Block or the HFS+ Volume Header, and exposing
// geometry and fork descriptors in a kind-agnostic way.
package volume

import (
	"github.com/deploymenttheory/hfsx/internal/codec"
	"github.com/deploymenttheory/hfsx/internal/device"
	"github.com/deploymenttheory/hfsx/internal/hfserr"
	"github.com/deploymenttheory/hfsx/internal/probe"
	"github.com/deploymenttheory/hfsx/internal/types"
)

// Volume is the kind-agnostic view of an HFS or HFS+ volume a
// kind-agnostic caller needs: geometry and the three system forks the
// orchestrator wraps in B-trees (spec.md §2 data flow; §9 "Polymorphic
// volume kinds").
type Volume interface {
	// Kind reports whether this is an HFS or HFS+ volume.
	Kind() probe.Kind
	// Name is the volume name. For HFS, this is read directly from the
	// MDB; for HFS+, spec.md §4.3 says it is read from the root folder's
	// thread record, so it is populated by the caller after the catalog
	// is opened (empty until then).
	Name() string
	SetName(string)
	// AllocBlockSize is the size in bytes of one allocation block.
	AllocBlockSize() uint32
	// TotalBlocks, FreeBlocks are the volume's block accounting fields.
	TotalBlocks() uint32
	FreeBlocks() uint32
	// FileCount, FolderCount are the volume's item-count fields.
	FileCount() uint32
	FolderCount() uint32
	// AllocationBitmapFork, ExtentsFileFork, CatalogFileFork are the fork
	// descriptors for the volume's special files.
	AllocationBitmapFork() types.ForkDescriptor
	ExtentsFileFork() types.ForkDescriptor
	CatalogFileFork() types.ForkDescriptor
	// Reader returns the block device reader this volume was opened
	// against, already shifted to the volume's own start offset.
	Reader() *device.Reader
}

// Open parses the volume header at loc and returns the kind-appropriate
// Volume implementation. The returned Volume's Reader() is shifted by
// loc.StartByteOffset, matching spec.md §3's "absolute startOffset in
// bytes from the beginning of the device".
func Open(ra readerAt, loc probe.Location) (Volume, error) {
	switch loc.Kind {
	case probe.KindHFS:
		return openHFS(ra, loc)
	case probe.KindHFSPlus:
		return openHFSPlus(ra, loc)
	default:
		return nil, hfserr.New(hfserr.UnknownVolume, "Open", nil)
	}
}

// readerAt is the minimal surface volume.Open needs from the caller's
// handle; satisfied by *os.File, bytes.Reader, etc.
type readerAt interface {
	ReadAt(p []byte, off int64) (int, error)
}

// decodeExtent decodes one (startBlock, blockCount) pair, sized per kind.
func decodeExtentHFS(data []byte, offset int) (types.Extent, error) {
	start, err := codec.Uint16(data, offset)
	if err != nil {
		return types.Extent{}, err
	}
	count, err := codec.Uint16(data, offset+2)
	if err != nil {
		return types.Extent{}, err
	}
	return types.Extent{StartBlock: uint32(start), BlockCount: uint32(count)}, nil
}

func decodeExtentHFSPlus(data []byte, offset int) (types.Extent, error) {
	start, err := codec.Uint32(data, offset)
	if err != nil {
		return types.Extent{}, err
	}
	count, err := codec.Uint32(data, offset+4)
	if err != nil {
		return types.Extent{}, err
	}
	return types.Extent{StartBlock: start, BlockCount: count}, nil
}
