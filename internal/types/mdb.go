package types

// MasterDirectoryBlock is the HFS "Master Directory Block" (Inside
// Macintosh: Files §2), a 162-byte structure located 1024 bytes from the
// start of the volume.
type MasterDirectoryBlock struct {
	// DrSigWord is the volume signature; 'BD' (0x4244) for HFS.
	DrSigWord uint16
	// DrCrDate is the volume creation date (seconds since 1904-01-01).
	DrCrDate uint32
	// DrLsMod is the volume last-modified date.
	DrLsMod uint32
	// DrAtrb holds the volume attribute flags.
	DrAtrb uint16
	// DrNmFls is the number of files in the root directory.
	DrNmFls uint16
	// DrVBMSt is the first block of the volume allocation bitmap (in
	// 512-byte blocks from the start of the volume).
	DrVBMSt uint16
	// DrAllocPtr is the start of the next allocation search.
	DrAllocPtr uint16
	// DrNmAlBlks is the number of allocation blocks on the volume.
	DrNmAlBlks uint16
	// DrAlBlkSiz is the size, in bytes, of each allocation block. Always a
	// multiple of 512.
	DrAlBlkSiz uint32
	// DrClpSiz is the default clump size.
	DrClpSiz uint32
	// DrAlBlSt is the first 512-byte block belonging to allocation block 0.
	DrAlBlSt uint16
	// DrNxtCNID is the next unused catalog node ID.
	DrNxtCNID Cnid
	// DrFreeBks is the number of unused allocation blocks.
	DrFreeBks uint16
	// DrVN is the volume name, a Pascal string up to 27 bytes (MacRoman).
	DrVN []byte
	// DrVolBkUp is the date of the last backup.
	DrVolBkUp uint32
	// DrVSeqNum is the volume backup sequence number.
	DrVSeqNum uint16
	// DrWrCnt counts the number of times the volume has been mounted
	// read-write.
	DrWrCnt uint32
	// DrXTClpSiz is the clump size for the extents overflow file.
	DrXTClpSiz uint32
	// DrCTClpSiz is the clump size for the catalog file.
	DrCTClpSiz uint32
	// DrNmRtDirs is the number of directories in the root directory.
	DrNmRtDirs uint16
	// DrFilCnt is the total number of files on the volume.
	DrFilCnt uint32
	// DrDirCnt is the total number of directories on the volume.
	DrDirCnt uint32
	// DrFndrInfo holds Finder-private information.
	DrFndrInfo [32]byte
	// DrEmbedSigWord is, when non-zero, the signature of a volume embedded
	// inside this one ('H+' or 'HX' for an HFS+ volume wrapped by this HFS
	// volume).
	DrEmbedSigWord uint16
	// DrEmbedExtent locates the embedded volume's extent, in allocation
	// blocks of this (outer HFS) volume.
	DrEmbedExtent Extent
	// DrXTExtRec is the inline extent record for the extents overflow file.
	DrXTExtRec [HfsExtentCount]Extent
	// DrCTExtRec is the inline extent record for the catalog file.
	DrCTExtRec [HfsExtentCount]Extent
}

// SigWordHFS is the MDB signature for a plain HFS volume.
const SigWordHFS uint16 = 0x4244 // 'BD'

// SigWordHFSPlusEmbed is the drEmbedSigWord value for a case-insensitive
// HFS+ volume embedded in an HFS wrapper.
const SigWordHFSPlusEmbed uint16 = 0x482B // 'H+'

// SigWordHFSXEmbed is the drEmbedSigWord value for an HFSX volume embedded
// in an HFS wrapper.
const SigWordHFSXEmbed uint16 = 0x4858 // 'HX'
