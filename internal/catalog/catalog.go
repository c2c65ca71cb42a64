package catalog

import (
	"github.com/deploymenttheory/hfsx/internal/btree"
	"github.com/deploymenttheory/hfsx/internal/hfserr"
	"github.com/deploymenttheory/hfsx/internal/types"
)

// Catalog wraps the catalog B-tree file with the key/record model
// needed to enumerate, look up, and reconstruct paths for items.
type Catalog struct {
	file    *btree.File
	hfsPlus bool
}

// Open wraps an already-opened catalog B-tree file.
func Open(file *btree.File, hfsPlus bool) *Catalog {
	return &Catalog{file: file, hfsPlus: hfsPlus}
}

// Visitor is called once per catalog item during a walk; returning
// false stops the walk at the next record boundary (spec.md §5
// "Cancellation").
type Visitor func(item DehydratedItem) bool

// WalkAll visits every folder and file record in the catalog in
// B-tree leaf-sequential order (spec.md §4.9 "list" action's
// breadth-first materialization — implemented here as the equivalent
// and cheaper leaf-sequential order, since both produce every item
// exactly once and neither depends on tree height).
func (c *Catalog) WalkAll(visit Visitor) error {
	var walkErr error
	err := c.file.WalkLeaves(func(rec []byte) bool {
		item, ok, err := c.itemFromRecord(rec)
		if err != nil {
			walkErr = err
			return false
		}
		if !ok {
			return true // thread record; not independently listed
		}
		return visit(item)
	})
	if walkErr != nil {
		return walkErr
	}
	return err
}

// Children enumerates the immediate children of folder parentID, in
// the catalog's native name order. It seeks to the folder's own thread
// record key (parentID == own CNID, empty name), which always sorts
// immediately before the run of (parentID, name) child keys, then
// scans forward until the parent CNID changes (spec.md §4.7, §5
// "Ordering guarantees").
func (c *Catalog) Children(parentID types.Cnid) ([]DehydratedItem, error) {
	keyLen := catalogKeyLen(c.hfsPlus)
	cmp := compareCatalogKey(parentID, nil, c.hfsPlus)

	node, err := c.file.DescendToLeaf(keyLen, cmp)
	if err != nil {
		return nil, err
	}

	var items []DehydratedItem
	for node != nil {
		advanced := false
		for _, rec := range node.Records {
			key, _, err := parseKey(rec, c.hfsPlus)
			if err != nil {
				return nil, hfserr.New(hfserr.CorruptNode, "Children", err)
			}
			if key.ParentID < parentID {
				continue
			}
			if key.ParentID > parentID {
				return items, nil
			}
			if len(key.RawName) == 0 {
				continue // the folder's own thread record
			}
			item, ok, err := c.itemFromRecord(rec)
			if err != nil {
				return nil, err
			}
			if ok {
				items = append(items, item)
			}
			advanced = true
		}
		node, err = c.file.NextSibling(node)
		if err != nil {
			return nil, err
		}
		if !advanced && node == nil {
			break
		}
	}
	return items, nil
}

// itemFromRecord parses one leaf record's key and payload into a
// DehydratedItem. ok is false for thread records, which carry no item
// of their own.
func (c *Catalog) itemFromRecord(rec []byte) (DehydratedItem, bool, error) {
	key, _, err := parseKey(rec, c.hfsPlus)
	if err != nil {
		return DehydratedItem{}, false, hfserr.New(hfserr.CorruptNode, "itemFromRecord", err)
	}
	payload, err := valueOf(rec, c.hfsPlus)
	if err != nil {
		return DehydratedItem{}, false, err
	}
	kind, folder, file, _, err := parsePayload(payload, c.hfsPlus)
	if err != nil {
		return DehydratedItem{}, false, err
	}
	switch kind {
	case types.RecordTypeFolder:
		return itemFromFolder(key, folder), true, nil
	case types.RecordTypeFile:
		return itemFromFile(key, file), true, nil
	default:
		return DehydratedItem{}, false, nil
	}
}

// StructuralNodeCounts walks the catalog B-tree breadth-first, root to
// leaves, tallying index and leaf nodes visited and the total leaf
// records found along the way. This is the breadth-first order spec.md
// §4.6 names alongside leaf-sequential order; the analyze action uses
// it as an independent cross-check against the header's own
// LeafRecords count, catching a corrupt sibling chain that
// WalkAll/Children's leaf-sequential descent wouldn't otherwise detect.
func (c *Catalog) StructuralNodeCounts() (indexNodes, leafNodes, leafRecords int, err error) {
	keyLen := catalogKeyLen(c.hfsPlus)
	err = c.file.WalkBreadthFirst(keyLen, func(n *btree.Node) bool {
		switch {
		case n.IsIndex():
			indexNodes++
		case n.IsLeaf():
			leafNodes++
			leafRecords += len(n.Records)
		}
		return true
	})
	return indexNodes, leafNodes, leafRecords, err
}

// LeafRecords returns the catalog B-tree header's declared count of
// leaf records, for cross-checking against a structural sweep.
func (c *Catalog) LeafRecords() uint32 { return c.file.Header().LeafRecords }

// VolumeName returns the HFS+ volume's display name, read from the root
// folder's own thread record — its ParentID/NodeName pair names the
// volume itself rather than a containing folder (spec.md §4.3 "HFS+
// reads [the volume name] from the root folder's thread record").
func (c *Catalog) VolumeName() (string, error) {
	thread, found, err := c.threadFor(types.CnidRootFolder)
	if err != nil {
		return "", err
	}
	if !found {
		return "", hfserr.New(hfserr.BrokenChain, "VolumeName", nil)
	}
	return thread.NodeName, nil
}

// threadFor returns the thread record payload for CNID id, by
// searching the catalog for key (id, ε).
func (c *Catalog) threadFor(id types.Cnid) (types.CatalogThreadRec, bool, error) {
	keyLen := catalogKeyLen(c.hfsPlus)
	cmp := compareCatalogKey(id, nil, c.hfsPlus)
	rec, found, err := c.file.Search(keyLen, cmp)
	if err != nil {
		return types.CatalogThreadRec{}, false, err
	}
	if !found {
		return types.CatalogThreadRec{}, false, nil
	}
	payload, err := valueOf(rec, c.hfsPlus)
	if err != nil {
		return types.CatalogThreadRec{}, false, err
	}
	kind, _, _, thread, err := parsePayload(payload, c.hfsPlus)
	if err != nil {
		return types.CatalogThreadRec{}, false, err
	}
	if kind != types.RecordTypeFolderThread && kind != types.RecordTypeFileThread {
		return types.CatalogThreadRec{}, false, nil
	}
	return thread, true, nil
}
