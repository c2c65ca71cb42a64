package types

// CatalogKey is the shared logical shape of an HFS or HFS+ catalog key:
// a parent CNID plus a name. HFS names are MacRoman Pascal strings (≤31
// bytes); HFS+ names are UTF-16BE code-unit sequences (≤255 units). The
// raw bytes are preserved alongside the decoded name so that descent can
// compare against the volume's native on-disk ordering.
type CatalogKey struct {
	ParentID Cnid
	// Name is the decoded (Unicode) name; empty for a thread-record quarry
	// key (parent, ε).
	Name string
	// RawName is the undecoded on-disk name bytes (MacRoman for HFS,
	// UTF-16BE for HFS+), used by comparators that must replicate the
	// volume's native collation exactly.
	RawName []byte
}

// CatalogFolderRec is the HFS/HFS+ folder record payload (recordType ==
// RecordTypeFolder).
type CatalogFolderRec struct {
	Flags       uint16
	Valence     uint32 // number of items directly contained
	FolderID    Cnid
	CreateDate  uint32
	ContentMod  uint32
	BackupDate  uint32
	FinderInfo  [16]byte
	ExtraFinder [16]byte // HFS+ only; zero on HFS
}

// CatalogFileRec is the HFS/HFS+ file record payload (recordType ==
// RecordTypeFile).
type CatalogFileRec struct {
	Flags       uint16
	FileID      Cnid
	CreateDate  uint32
	ContentMod  uint32
	BackupDate  uint32
	FinderInfo  [16]byte
	ExtraFinder [16]byte // HFS+ only; zero on HFS
	DataFork    ForkDescriptor
	ResourceFork ForkDescriptor
}

// CatalogThreadRec is the HFS/HFS+ thread record payload (recordType ==
// RecordTypeFolderThread or RecordTypeFileThread). Its key is
// (childCNID, ε); the payload carries the child's parent and own name,
// forming the inverse edge used for upward path reconstruction.
type CatalogThreadRec struct {
	ParentID Cnid
	NodeName string
}

// ExtentOverflowKey is the key shape of the extents-overflow B-tree:
// (forkType, fileID, startBlock), lexicographically ordered.
type ExtentOverflowKey struct {
	ForkType   ForkType
	FileID     Cnid
	StartBlock uint32
}
