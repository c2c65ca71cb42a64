// Package btree implements the generic HFS/HFS+ B-tree node and file
// model (C7/C8): node descriptor + record-offset-table parsing, sibling
// navigation, comparator-driven descent, and the two traversal orders
// (breadth-first and leaf-sequential) the catalog and extents-overflow
// readers are built on.
package btree

import (
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/hfsx/internal/codec"
	"github.com/deploymenttheory/hfsx/internal/hfserr"
	"github.com/deploymenttheory/hfsx/internal/types"
)

// Node is a parsed B-tree node: its descriptor plus the raw record
// slices sliced out of the record-offset trailer table (Inside
// Macintosh: Files §4, "Records in a Node").
type Node struct {
	Descriptor types.NodeDescriptor
	// Records holds each record's raw bytes, in on-disk order.
	Records [][]byte
	number   uint32
	nodeSize uint16
}

// NewNode parses a single node of size nodeSize out of data, which must
// be exactly nodeSize bytes (one allocation unit of the B-tree file).
func NewNode(data []byte, nodeSize uint16, number uint32) (*Node, error) {
	if len(data) != int(nodeSize) {
		return nil, hfserr.New(hfserr.CorruptNode, "NewNode", fmt.Errorf("node %d: got %d bytes, want %d", number, len(data), nodeSize))
	}
	desc, err := parseNodeDescriptor(data)
	if err != nil {
		return nil, hfserr.New(hfserr.CorruptNode, "NewNode", err)
	}

	records, err := sliceRecords(data, desc.NumRecords)
	if err != nil {
		return nil, hfserr.New(hfserr.CorruptNode, "NewNode", fmt.Errorf("node %d: %w", number, err))
	}

	return &Node{Descriptor: desc, Records: records, number: number, nodeSize: nodeSize}, nil
}

func parseNodeDescriptor(data []byte) (types.NodeDescriptor, error) {
	var d types.NodeDescriptor
	if len(data) < types.NodeDescriptorSize {
		return d, fmt.Errorf("node descriptor needs %d bytes, got %d", types.NodeDescriptorSize, len(data))
	}
	fLink, err := codec.Uint32(data, 0)
	if err != nil {
		return d, err
	}
	bLink, err := codec.Uint32(data, 4)
	if err != nil {
		return d, err
	}
	numRecords, err := codec.Uint16(data, 10)
	if err != nil {
		return d, err
	}
	d.FLink = fLink
	d.BLink = bLink
	d.Kind = types.NodeKind(int8(data[8]))
	d.Height = data[9]
	d.NumRecords = numRecords
	return d, nil
}

// sliceRecords reads the record-offset table at the tail of the node
// (one big-endian uint16 per record plus a terminating free-space
// offset, in descending address order) and slices out each record's
// bytes. Offsets must be strictly increasing toward the node start and
// within bounds, or the node is treated as corrupt (spec.md §4.5).
func sliceRecords(data []byte, numRecords uint16) ([][]byte, error) {
	if numRecords == 0 {
		return nil, nil
	}
	nodeSize := len(data)
	tableEntries := int(numRecords) + 1
	tableBytes := tableEntries * 2
	if tableBytes > nodeSize {
		return nil, fmt.Errorf("record offset table (%d entries) exceeds node size %d", tableEntries, nodeSize)
	}

	offsets := make([]uint16, tableEntries)
	for i := 0; i < tableEntries; i++ {
		off := nodeSize - (i+1)*2
		v, err := codec.Uint16(data, off)
		if err != nil {
			return nil, err
		}
		offsets[i] = v
	}

	records := make([][]byte, numRecords)
	for i := 0; i < int(numRecords); i++ {
		start, end := int(offsets[i]), int(offsets[i+1])
		if start < types.NodeDescriptorSize || end <= start || end > nodeSize {
			return nil, fmt.Errorf("record %d offsets [%d,%d) invalid for node size %d", i, start, end, nodeSize)
		}
		records[i] = data[start:end]
	}
	return records, nil
}

// Number returns the node's own node number within its B-tree file.
func (n *Node) Number() uint32 { return n.number }

// IsLeaf reports whether n is a leaf node.
func (n *Node) IsLeaf() bool { return n.Descriptor.Kind == types.NodeKindLeaf }

// IsIndex reports whether n is an index node.
func (n *Node) IsIndex() bool { return n.Descriptor.Kind == types.NodeKindIndex }

// parseHeaderRec decodes the BTreeHeaderRec payload of the header
// node's first record.
func parseHeaderRec(rec []byte) (types.BTreeHeaderRec, error) {
	var h types.BTreeHeaderRec
	const size = 106
	if len(rec) < size {
		return h, fmt.Errorf("header record needs %d bytes, got %d", size, len(rec))
	}
	order := binary.BigEndian
	h.TreeDepth = order.Uint16(rec[0:2])
	h.RootNode = order.Uint32(rec[2:6])
	h.LeafRecords = order.Uint32(rec[6:10])
	h.FirstLeafNode = order.Uint32(rec[10:14])
	h.LastLeafNode = order.Uint32(rec[14:18])
	h.NodeSize = order.Uint16(rec[18:20])
	h.MaxKeyLength = order.Uint16(rec[20:22])
	h.TotalNodes = order.Uint32(rec[22:26])
	h.FreeNodes = order.Uint32(rec[26:30])
	// rec[30:32] is reserved1; rec[32:36] clumpSize; rec[36] btreeType;
	// rec[37] keyCompareType; rec[38:42] attributes.
	h.ClumpSize = order.Uint32(rec[32:36])
	h.BTreeType = rec[36]
	h.KeyCompareType = rec[37]
	h.Attributes = order.Uint32(rec[38:42])
	return h, nil
}

// indexRecordChild extracts the child node number stored after the key
// in an index node record: a variable-length key followed by a 4-byte
// node number. keyLen is the on-disk key length (the 1 or 2 length-
// prefix bytes plus the key body), so the child pointer starts right
// after it and is padded to an even offset (Inside Macintosh: Files).
func indexRecordChild(rec []byte, keyLen int) (uint32, error) {
	ptrOffset := keyLen
	if ptrOffset%2 == 1 {
		ptrOffset++
	}
	return codec.Uint32(rec, ptrOffset)
}
