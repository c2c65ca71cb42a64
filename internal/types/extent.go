package types

// Extent names a contiguous run of allocation blocks belonging to a fork.
type Extent struct {
	// StartBlock is the first allocation block of the run.
	StartBlock uint32
	// BlockCount is the number of allocation blocks in the run.
	BlockCount uint32
}

// HfsExtentCount is the number of inline extent descriptors an HFS fork
// record carries (three (startBlock,blockCount) u16 pairs).
const HfsExtentCount = 3

// HfsPlusExtentCount is the number of inline extent descriptors an HFS+
// fork record carries (eight (startBlock,blockCount) u32 pairs).
const HfsPlusExtentCount = 8

// ForkType discriminates a file's data fork from its resource fork, as
// used in extents-overflow keys.
type ForkType uint8

const (
	ForkTypeData     ForkType = 0x00
	ForkTypeResource ForkType = 0xFF
)

// ForkDescriptor is the logical view of a fork shared by HFS and HFS+:
// a size plus an inline extent record. HFS stores three 16-bit extents;
// HFS+ stores eight 32-bit extents plus richer size bookkeeping.
type ForkDescriptor struct {
	// LogicalSize is the number of bytes of valid fork data.
	LogicalSize uint64
	// ClumpSize is the number of bytes to allocate at a time when growing
	// the fork (write path only; read here for diagnostics).
	ClumpSize uint32
	// TotalBlocks is the number of allocation blocks occupied by the fork,
	// summed across inline and overflow extents.
	TotalBlocks uint32
	// Extents is the inline extent record (first 3 or 8 extents).
	Extents []Extent
}
