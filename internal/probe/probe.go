// Package probe implements volume detection (C4): scanning candidate
// offsets on a block device for an HFS or HFS+ signature and yielding
// one or more located volumes.
package probe

import (
	"io"

	"github.com/deploymenttheory/hfsx/internal/codec"
)

// Kind distinguishes HFS from HFS+ (and HFSX, accepted but not treated
// as case-sensitive per spec.md Non-goals).
type Kind int

const (
	KindHFS Kind = iota
	KindHFSPlus
)

func (k Kind) String() string {
	if k == KindHFS {
		return "HFS"
	}
	return "HFS+"
}

// Location names a detected volume: its byte offset and length within
// the device, and its kind.
type Location struct {
	StartByteOffset int64
	ByteLength      int64
	Kind            Kind
}

// volumeHeaderOffset is the standard offset, in bytes, of the MDB/
// HFSPlusVolumeHeader from the start of a volume (spec.md §4.2).
const volumeHeaderOffset = 1024

// mdbSize is large enough to cover every fixed-offset MDB field this
// package and internal/volume read, including the embedded-volume
// extent and the catalog/extents inline extent records.
const mdbSize = 162

// Probe scans candidate offsets — 1024 (standard), 0 (partitioned
// images) — for a recognized signature, and, for an HFS volume wrapping
// an embedded HFS+ volume, yields both the outer HFS location and the
// inner HFS+ location (spec.md §4.2). An unrecognized signature at a
// candidate offset is silently skipped, never an error: detection is
// non-fatal.
func Probe(ra io.ReaderAt, sizeHint int64) ([]Location, error) {
	var found []Location

	for _, candidate := range []int64{volumeHeaderOffset, 0} {
		loc, ok, err := probeAt(ra, candidate, sizeHint)
		if err != nil {
			continue
		}
		if !ok {
			continue
		}
		found = append(found, loc...)
	}
	return found, nil
}

// probeAt inspects the 162-byte header-candidate region at base bytes
// into ra, where base is the absolute file offset of the MDB/VolumeHeader
// itself (spec.md §4.2's "candidate offsets"). Returns ok=false (not an
// error) when no recognized signature is present. A located volume's
// StartByteOffset is reported relative to the volume's own start — base
// minus the standard header-within-volume offset — so that it composes
// directly with internal/volume and internal/device, both of which read
// the header at startOffset+volumeHeaderOffset and address allocation
// blocks relative to startOffset (spec.md §3, §4.1).
func probeAt(ra io.ReaderAt, base int64, sizeHint int64) ([]Location, bool, error) {
	buf := make([]byte, mdbSize)
	n, err := ra.ReadAt(buf, base)
	if err != nil && n < 16 {
		return nil, false, err
	}

	sig, sigErr := codec.Uint16(buf, 0)
	if sigErr != nil {
		return nil, false, nil
	}

	// base==0 means the signature sits at the very start of the device
	// (a partitioned image with no leading boot-block region), so the
	// volume itself also starts at 0 rather than at the negative offset
	// a bare subtraction would produce.
	volumeStart := base - volumeHeaderOffset
	if volumeStart < 0 {
		volumeStart = 0
	}

	switch sig {
	case 0x482B, 0x4858: // 'H+', 'HX': a bare HFS+/HFSX volume at this offset
		length := sizeHint - volumeStart
		kind := KindHFSPlus
		return []Location{{StartByteOffset: volumeStart, ByteLength: length, Kind: kind}}, true, nil

	case 0x4244: // 'BD': HFS — may wrap an embedded HFS+ volume
		return probeHFS(buf, volumeStart, sizeHint)

	default:
		return nil, false, nil
	}
}

// probeHFS builds the outer HFS location (and, if wrapped, the inner
// HFS+ location) given volumeStart, the absolute offset of the HFS
// volume's own start (not the MDB's address — mdb's fields, e.g.
// drEmbedExtent, are already relative to volumeStart per spec.md §4.2).
func probeHFS(mdb []byte, volumeStart int64, sizeHint int64) ([]Location, bool, error) {
	alBlkSiz, err := codec.Uint32(mdb, 0x14)
	if err != nil {
		return nil, false, err
	}
	alBlSt, err := codec.Uint16(mdb, 0x1c)
	if err != nil {
		return nil, false, err
	}
	embedSig, err := codec.Uint16(mdb, 0x7c)
	if err != nil {
		return nil, false, err
	}

	outer := Location{StartByteOffset: volumeStart, ByteLength: sizeHint - volumeStart, Kind: KindHFS}

	if embedSig != 0x482B && embedSig != 0x4858 {
		return []Location{outer}, true, nil
	}

	// drEmbedExtent: startBlock (u16) at 0x7e, blockCount (u16) at 0x80,
	// both relative to the outer volume's allocation blocks.
	embedStartBlock, err := codec.Uint16(mdb, 0x7e)
	if err != nil {
		return []Location{outer}, true, nil
	}
	embedBlockCount, err := codec.Uint16(mdb, 0x80)
	if err != nil {
		return []Location{outer}, true, nil
	}

	innerOffset := volumeStart + int64(alBlSt)*512 + int64(embedStartBlock)*int64(alBlkSiz)
	innerLength := int64(embedBlockCount) * int64(alBlkSiz)

	inner := Location{StartByteOffset: innerOffset, ByteLength: innerLength, Kind: KindHFSPlus}
	return []Location{outer, inner}, true, nil
}
