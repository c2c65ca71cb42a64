package volume

import (
	"math/bits"

	"github.com/deploymenttheory/hfsx/internal/hfserr"
	"github.com/deploymenttheory/hfsx/internal/probe"
)

// CountFreeBlocks reads v's allocation bitmap and counts zero bits (free
// ⇔ bit == 0, spec.md §9 Open Question 2), up to v.TotalBlocks() bits.
// It reads the bitmap directly through the volume's Reader rather than
// through a full B-tree/fork-reader stack, since the bitmap is a flat
// bit-packed vector, not a B-tree.
func CountFreeBlocks(v Volume) (uint32, error) {
	fork := v.AllocationBitmapFork()
	if len(fork.Extents) == 0 {
		return 0, hfserr.New(hfserr.DeviceIo, "CountFreeBlocks", nil)
	}

	total := v.TotalBlocks()
	needBytes := (total + 7) / 8

	var data []byte
	switch v.Kind() {
	case probe.KindHFS:
		// HFS stores the bitmap start as a 512-byte block number,
		// independent of the allocation block size; read it directly via
		// ReadExtentRangeRaw512, which addresses in 512-byte units.
		ext := fork.Extents[0]
		raw, err := v.Reader().ReadExtentRangeRaw512(ext.StartBlock, int64(needBytes))
		if err != nil {
			return 0, hfserr.New(hfserr.DeviceIo, "CountFreeBlocks", err)
		}
		data = raw
	default:
		raw, err := v.Reader().ReadExtentRange(fork.Extents, 0, int64(needBytes))
		if err != nil {
			return 0, hfserr.New(hfserr.DeviceIo, "CountFreeBlocks", err)
		}
		data = raw
	}

	var freeCount uint32
	for i, b := range data {
		bitsInByte := 8
		if i == len(data)-1 && total%8 != 0 {
			bitsInByte = int(total % 8)
			// Bits are MSB-first; drop the padding bits past total.
			b &= byte(0xFF << (8 - bitsInByte))
		}
		setBits := bits.OnesCount8(b)
		freeCount += uint32(bitsInByte - min(setBits, bitsInByte))
	}
	return freeCount, nil
}
