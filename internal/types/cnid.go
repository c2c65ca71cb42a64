// Package types defines the on-disk structures of the HFS and HFS+ volume
// formats, as described in Inside Macintosh: Files and Apple Technote 1150.
package types

// Cnid is a Catalog Node ID: a 32-bit integer uniquely identifying a file,
// folder, or special catalog entity within a volume.
type Cnid uint32

// Reserved catalog node IDs (TN1150, "Catalog File").
const (
	CnidParentOfRoot Cnid = 1
	CnidRootFolder   Cnid = 2
	CnidExtentsFile  Cnid = 3
	CnidCatalogFile  Cnid = 4
	CnidBadBlocks    Cnid = 5
	CnidAllocFile    Cnid = 6
	CnidStartupFile  Cnid = 7
	CnidAttrFile     Cnid = 8
)
