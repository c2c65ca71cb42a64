package types

// NodeKind discriminates the four B-tree node roles (Inside Macintosh:
// Files §4, "The Node Descriptor").
type NodeKind int8

const (
	NodeKindIndex  NodeKind = 0x00
	NodeKindHeader NodeKind = 0x01
	NodeKindMap    NodeKind = 0x02
	NodeKindLeaf   NodeKind = -1
)

func (k NodeKind) String() string {
	switch k {
	case NodeKindIndex:
		return "index"
	case NodeKindHeader:
		return "header"
	case NodeKindMap:
		return "map"
	case NodeKindLeaf:
		return "leaf"
	default:
		return "unknown"
	}
}

// NodeDescriptor is the 14-byte preamble shared by every B-tree node.
type NodeDescriptor struct {
	// FLink is the forward link: the node number of the next node at the
	// same level, or 0 if none.
	FLink uint32
	// BLink is the backward link: the node number of the previous node at
	// the same level, or 0 if none.
	BLink uint32
	// Kind is the node's role.
	Kind NodeKind
	// Height is the node's depth above the leaf level (0 for leaves).
	Height uint8
	// NumRecords is the number of records stored in the node.
	NumRecords uint16
	// Reserved is unused padding.
	Reserved uint16
}

// NodeDescriptorSize is the on-disk size in bytes of NodeDescriptor.
const NodeDescriptorSize = 14

// BTreeHeaderRec is the fixed-layout header record stored in a B-tree's
// header node (node 0), immediately following the node descriptor.
type BTreeHeaderRec struct {
	// TreeDepth is the current height of the tree.
	TreeDepth uint16
	// RootNode is the node number of the root node.
	RootNode uint32
	// LeafRecords is the number of records contained in all leaf nodes.
	LeafRecords uint32
	// FirstLeafNode is the node number of the first leaf node.
	FirstLeafNode uint32
	// LastLeafNode is the node number of the last leaf node.
	LastLeafNode uint32
	// NodeSize is the size in bytes of a node; a power of two, 512-32768.
	NodeSize uint16
	// MaxKeyLength is the maximum length in bytes of a key.
	MaxKeyLength uint16
	// TotalNodes is the total number of nodes, used and free, in the tree.
	TotalNodes uint32
	// FreeNodes is the number of unused nodes in the tree.
	FreeNodes uint32
	// ClumpSize is the clump size used when the tree file grows.
	ClumpSize uint32
	// BTreeType distinguishes HFS-standard (0) from other B-tree variants.
	BTreeType uint8
	// KeyCompareType selects the key comparison algorithm (relevant to
	// HFS+ catalogs: case-folding vs binary compare).
	KeyCompareType uint8
	// Attributes holds the B-tree attribute flags (bits for "big keys",
	// "variable index keys", etc).
	Attributes uint32
}

// B-tree header attribute bits (Inside Macintosh: Files §4).
const (
	BTreeAttrBadClose         uint32 = 0x00000001
	BTreeAttrBigKeys          uint32 = 0x00000002
	BTreeAttrVariableIndexKey uint32 = 0x00000004
)

// CatalogRecordType discriminates the four catalog record payload shapes.
// HFS stores these as i16 values 1-4; HFS+ stores the same four values.
type CatalogRecordType int16

const (
	RecordTypeFolder       CatalogRecordType = 1
	RecordTypeFile         CatalogRecordType = 2
	RecordTypeFolderThread CatalogRecordType = 3
	RecordTypeFileThread   CatalogRecordType = 4
)
