package catalog

import (
	"time"

	"github.com/deploymenttheory/hfsx/internal/codec"
	"github.com/deploymenttheory/hfsx/internal/types"
)

// DehydratedItem is the catalog-walk-time view of one file or folder:
// enough to print a listing row or drive extraction, without holding
// open any fork readers (spec.md §4.9 "list" action).
type DehydratedItem struct {
	Cnid        types.Cnid
	ParentID    types.Cnid
	Name        string
	IsFolder    bool
	Valence     uint32 // folders only
	CreateDate  time.Time
	ContentMod  time.Time
	BackupDate  time.Time
	DataFork    types.ForkDescriptor
	ResourceFork types.ForkDescriptor
}

func itemFromFolder(key types.CatalogKey, f types.CatalogFolderRec) DehydratedItem {
	return DehydratedItem{
		Cnid:       f.FolderID,
		ParentID:   key.ParentID,
		Name:       key.Name,
		IsFolder:   true,
		Valence:    f.Valence,
		CreateDate: codec.MacTimeToUTC(f.CreateDate),
		ContentMod: codec.MacTimeToUTC(f.ContentMod),
		BackupDate: codec.MacTimeToUTC(f.BackupDate),
	}
}

func itemFromFile(key types.CatalogKey, f types.CatalogFileRec) DehydratedItem {
	return DehydratedItem{
		Cnid:         f.FileID,
		ParentID:     key.ParentID,
		Name:         key.Name,
		IsFolder:     false,
		CreateDate:   codec.MacTimeToUTC(f.CreateDate),
		ContentMod:   codec.MacTimeToUTC(f.ContentMod),
		BackupDate:   codec.MacTimeToUTC(f.BackupDate),
		DataFork:     f.DataFork,
		ResourceFork: f.ResourceFork,
	}
}
