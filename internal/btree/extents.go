package btree

import (
	"fmt"

	"github.com/deploymenttheory/hfsx/internal/codec"
	"github.com/deploymenttheory/hfsx/internal/hfserr"
	"github.com/deploymenttheory/hfsx/internal/types"
)

// extentOverflowKeyLen returns the on-disk key length of an
// extents-overflow record. HFS keys are fixed at 8 bytes (1-byte length
// prefix + forkType + fileID + startBlock); HFS+ keys are fixed at 12
// bytes (2-byte length prefix + forkType + pad + fileID + startBlock).
// hfsPlus selects which fixed layout applies.
func extentOverflowKeyLen(hfsPlus bool) KeyLenFunc {
	if hfsPlus {
		return func(rec []byte) int { return 12 }
	}
	return func(rec []byte) int { return 8 }
}

// ParseExtentOverflowKey decodes an extents-overflow B-tree key.
func ParseExtentOverflowKey(rec []byte, hfsPlus bool) (types.ExtentOverflowKey, error) {
	var k types.ExtentOverflowKey
	if hfsPlus {
		if len(rec) < 12 {
			return k, fmt.Errorf("hfs+ extent overflow key needs 12 bytes, got %d", len(rec))
		}
		k.ForkType = types.ForkType(rec[2])
		fileID, err := codec.Uint32(rec, 4)
		if err != nil {
			return k, err
		}
		startBlock, err := codec.Uint32(rec, 8)
		if err != nil {
			return k, err
		}
		k.FileID = types.Cnid(fileID)
		k.StartBlock = startBlock
		return k, nil
	}

	if len(rec) < 8 {
		return k, fmt.Errorf("hfs extent overflow key needs 8 bytes, got %d", len(rec))
	}
	k.ForkType = types.ForkType(rec[1])
	fileID, err := codec.Uint32(rec, 2)
	if err != nil {
		return k, err
	}
	startBlock16, err := codec.Uint16(rec, 6)
	if err != nil {
		return k, err
	}
	k.FileID = types.Cnid(fileID)
	k.StartBlock = uint32(startBlock16)
	return k, nil
}

// compareExtentOverflowKey implements the extents-overflow comparator:
// lexicographic order over (forkType, fileID, startBlock), matching
// spec.md §4.4's key shape.
func compareExtentOverflowKey(target types.ExtentOverflowKey, hfsPlus bool) KeyComparator {
	return func(rec []byte) int {
		candidate, err := ParseExtentOverflowKey(rec, hfsPlus)
		if err != nil {
			return -1
		}
		if target.ForkType != candidate.ForkType {
			return int(target.ForkType) - int(candidate.ForkType)
		}
		if target.FileID != candidate.FileID {
			if target.FileID < candidate.FileID {
				return -1
			}
			return 1
		}
		if target.StartBlock == candidate.StartBlock {
			return 0
		}
		if target.StartBlock < candidate.StartBlock {
			return -1
		}
		return 1
	}
}

// extentRecordValueOffset is where an extents-overflow record's value
// (an inline extent record of types.HfsExtentCount or
// types.HfsPlusExtentCount entries) begins, right after the fixed-size
// key.
func extentRecordValueOffset(hfsPlus bool) int {
	if hfsPlus {
		return 12
	}
	return 8
}

// LookupOverflowExtents searches the extents-overflow B-tree for the
// extent record keyed (forkType, fileID, startBlock) and decodes its
// value into a slice of additional extents (spec.md §4.4, "additional
// extents are fetched by searching the extents-overflow B-tree").
func LookupOverflowExtents(f *File, key types.ExtentOverflowKey, hfsPlus bool) ([]types.Extent, bool, error) {
	rec, found, err := f.Search(extentOverflowKeyLen(hfsPlus), compareExtentOverflowKey(key, hfsPlus))
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}

	valueOff := extentRecordValueOffset(hfsPlus)
	count := types.HfsExtentCount
	entrySize := 4
	if hfsPlus {
		count = types.HfsPlusExtentCount
		entrySize = 8
	}

	extents := make([]types.Extent, 0, count)
	for i := 0; i < count; i++ {
		off := valueOff + i*entrySize
		var ext types.Extent
		var err error
		if hfsPlus {
			start, e1 := codec.Uint32(rec, off)
			cnt, e2 := codec.Uint32(rec, off+4)
			if e1 != nil {
				err = e1
			} else if e2 != nil {
				err = e2
			}
			ext = types.Extent{StartBlock: start, BlockCount: cnt}
		} else {
			start, e1 := codec.Uint16(rec, off)
			cnt, e2 := codec.Uint16(rec, off+2)
			if e1 != nil {
				err = e1
			} else if e2 != nil {
				err = e2
			}
			ext = types.Extent{StartBlock: uint32(start), BlockCount: uint32(cnt)}
		}
		if err != nil {
			return nil, false, hfserr.New(hfserr.CorruptNode, "LookupOverflowExtents", err)
		}
		if ext.BlockCount == 0 {
			break
		}
		extents = append(extents, ext)
	}
	return extents, true, nil
}
