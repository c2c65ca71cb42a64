package types

// VolumeHeader is the HFS+ "HFSPlusVolumeHeader" (TN1150), a 512-byte
// structure located 1024 bytes from the start of the volume.
type VolumeHeader struct {
	// Signature is 'H+' for HFS+ or 'HX' for HFSX.
	Signature uint16
	// Version is 4 for HFS+ and 5 for HFSX.
	Version uint16
	// Attributes holds the volume attribute flags.
	Attributes uint32
	// LastMountedVersion identifies the implementation that last mounted
	// the volume for writing.
	LastMountedVersion uint32
	// JournalInfoBlock is the allocation block of the journal information
	// block, when the volume is journaled (HFSJ is tolerated, not
	// interpreted).
	JournalInfoBlock uint32
	// CreateDate, ModifyDate, BackupDate, CheckedDate are seconds since
	// 1904-01-01, in local time for CreateDate and UTC for the rest.
	CreateDate  uint32
	ModifyDate  uint32
	BackupDate  uint32
	CheckedDate uint32
	// FileCount and FolderCount are the number of files/folders on the
	// volume, not counting the root folder or special files.
	FileCount   uint32
	FolderCount uint32
	// BlockSize is the allocation block size in bytes.
	BlockSize uint32
	// TotalBlocks is the total number of allocation blocks.
	TotalBlocks uint32
	// FreeBlocks is the number of unused allocation blocks.
	FreeBlocks uint32
	// NextAllocation is a hint for the next allocation block to try first.
	NextAllocation uint32
	// RsrcClumpSize is the default clump size for resource forks.
	RsrcClumpSize uint32
	// DataClumpSize is the default clump size for data forks.
	DataClumpSize uint32
	// NextCatalogID is the next unused catalog node ID.
	NextCatalogID Cnid
	// WriteCount counts the number of times the volume has been mounted
	// read-write.
	WriteCount uint32
	// EncodingsBitmap tracks which text encodings have been used on the
	// volume.
	EncodingsBitmap uint64
	// FinderInfo holds Finder-private information, including the
	// bootable-system and startup-app folder CNIDs.
	FinderInfo [8]uint32
	// AllocationFile, ExtentsFile, CatalogFile, AttributesFile,
	// StartupFile are the special files' fork descriptors.
	AllocationFile ForkDescriptor
	ExtentsFile    ForkDescriptor
	CatalogFile    ForkDescriptor
	AttributesFile ForkDescriptor
	StartupFile    ForkDescriptor
}

// SigWordHFSPlus is the Signature value for a plain HFS+ volume.
const SigWordHFSPlus uint16 = 0x482B // 'H+'

// SigWordHFSX is the Signature value for an HFSX volume. Accepted, per
// spec.md Non-goals, but never treated as case-sensitive.
const SigWordHFSX uint16 = 0x4858 // 'HX'
