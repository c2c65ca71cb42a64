package btree

import (
	"fmt"

	"github.com/deploymenttheory/hfsx/internal/device"
	"github.com/deploymenttheory/hfsx/internal/hfserr"
	"github.com/deploymenttheory/hfsx/internal/types"
)

// blockReader is the slice of device.Reader a B-tree file needs: byte
// ranges addressed through its own extent list, not raw allocation
// blocks, since a B-tree file (catalog, extents-overflow) is itself
// just a fork.
type blockReader interface {
	ReadExtentRange(extents []types.Extent, firstByte int64, length int64) ([]byte, error)
}

// File is an open B-tree file: the parsed header plus a node cache
// keyed by node number, read lazily through a fork's extent list
// (spec.md §4.4 "wrap each B-tree fork").
type File struct {
	reader  blockReader
	extents []types.Extent
	header  types.BTreeHeaderRec
	cache   map[uint32]*Node
}

// compile-time assurance the concrete device.Reader satisfies blockReader.
var _ blockReader = (*device.Reader)(nil)

// Open reads the header node (node 0) of fork and returns a File ready
// for descent and traversal.
func Open(reader blockReader, fork types.ForkDescriptor) (*File, error) {
	f := &File{reader: reader, extents: fork.Extents, cache: make(map[uint32]*Node)}

	// The header node's true size isn't known until the header record is
	// read, but that record always starts immediately after the fixed
	// 14-byte node descriptor, regardless of node size — so it can be
	// read directly without going through the generic offset-table
	// parser, which needs the real node boundary to locate the table.
	const headerProbeSize = types.NodeDescriptorSize + 106
	probeBuf, err := reader.ReadExtentRange(fork.Extents, 0, headerProbeSize)
	if err != nil {
		return nil, hfserr.New(hfserr.DeviceIo, "btree.Open", err)
	}
	header, err := parseHeaderRec(probeBuf[types.NodeDescriptorSize:])
	if err != nil {
		return nil, hfserr.New(hfserr.CorruptNode, "btree.Open", err)
	}
	if header.NodeSize == 0 {
		return nil, hfserr.New(hfserr.CorruptNode, "btree.Open", fmt.Errorf("header record declares node size 0"))
	}
	f.header = header

	raw, err := reader.ReadExtentRange(fork.Extents, 0, int64(header.NodeSize))
	if err != nil {
		return nil, hfserr.New(hfserr.DeviceIo, "btree.Open", err)
	}
	node, err := NewNode(raw, header.NodeSize, 0)
	if err != nil {
		return nil, err
	}
	f.cache[0] = node

	return f, nil
}

// Header returns the B-tree's header record.
func (f *File) Header() types.BTreeHeaderRec { return f.header }

// Node returns the node at the given node number, reading and parsing
// it on first access and caching the result in a map keyed by node
// number.
func (f *File) Node(number uint32) (*Node, error) {
	if n, ok := f.cache[number]; ok {
		return n, nil
	}
	offset := int64(number) * int64(f.header.NodeSize)
	raw, err := f.reader.ReadExtentRange(f.extents, offset, int64(f.header.NodeSize))
	if err != nil {
		return nil, hfserr.New(hfserr.InvalidNodeIndex, "btree.Node", fmt.Errorf("node %d: %w", number, err))
	}
	node, err := NewNode(raw, f.header.NodeSize, number)
	if err != nil {
		return nil, err
	}
	f.cache[number] = node
	return node, nil
}

// Root returns the tree's root node.
func (f *File) Root() (*Node, error) {
	return f.Node(f.header.RootNode)
}

// FirstLeaf returns the leftmost leaf node, the start of leaf-sequential order.
func (f *File) FirstLeaf() (*Node, error) {
	return f.Node(f.header.FirstLeafNode)
}

// NextSibling follows a node's FLink, returning nil, nil at the end of
// the sibling chain (FLink == 0).
func (f *File) NextSibling(n *Node) (*Node, error) {
	if n.Descriptor.FLink == 0 {
		return nil, nil
	}
	return f.Node(n.Descriptor.FLink)
}

// PrevSibling follows a node's BLink, returning nil, nil at the start
// of the sibling chain (BLink == 0). Mirrors NextSibling for the
// reverse direction spec.md §4.5 names alongside nextSibling.
func (f *File) PrevSibling(n *Node) (*Node, error) {
	if n.Descriptor.BLink == 0 {
		return nil, nil
	}
	return f.Node(n.Descriptor.BLink)
}

// WalkLeaves calls visit for every record in leaf-sequential order
// (spec.md §4.6 "enumerate a folder's immediate children"), starting
// from the first leaf and following fLink chains, until visit returns
// false or the chain ends.
func (f *File) WalkLeaves(visit func(record []byte) bool) error {
	node, err := f.FirstLeaf()
	if err != nil {
		return err
	}
	for node != nil {
		for _, rec := range node.Records {
			if !visit(rec) {
				return nil
			}
		}
		node, err = f.NextSibling(node)
		if err != nil {
			return err
		}
	}
	return nil
}

// WalkBreadthFirst calls visit for every node in the tree, level by
// level starting from the root, following each index node's child
// pointers (used by the analyze action's structural sweep, spec.md §6).
// keyLen must report the on-disk length of an index record's key given
// its raw bytes, so the child pointer that follows it can be located.
func (f *File) WalkBreadthFirst(keyLen func(rec []byte) int, visit func(n *Node) bool) error {
	root, err := f.Root()
	if err != nil {
		return err
	}
	queue := []*Node{root}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if !visit(n) {
			return nil
		}
		if n.IsIndex() {
			for _, rec := range n.Records {
				childNum, err := indexRecordChild(rec, keyLen(rec))
				if err != nil {
					return hfserr.New(hfserr.CorruptNode, "WalkBreadthFirst", err)
				}
				child, err := f.Node(childNum)
				if err != nil {
					return err
				}
				queue = append(queue, child)
			}
		}
	}
	return nil
}
