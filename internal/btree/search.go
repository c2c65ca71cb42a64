package btree

import (
	"fmt"

	"github.com/deploymenttheory/hfsx/internal/hfserr"
)

// KeyComparator compares a search target against the key embedded in a
// raw record. It returns a negative number if the target sorts before
// the record's key, zero if they match, and positive if the target
// sorts after it — the same convention as bytes.Compare(target, key).
type KeyComparator func(record []byte) int

// KeyLenFunc reports the on-disk length of the key portion of a raw
// record (length prefix included), needed to locate an index record's
// trailing child pointer.
type KeyLenFunc func(record []byte) int

// Search descends the tree from the root using cmp to choose each
// index node's child, then scans the resulting leaf for a matching
// record. If the leaf runs out of records without finding one >= the
// target, Search steps across the leaf's fLink sibling and continues
// scanning — the node boundary doesn't imply the key doesn't exist,
// only that this node's slice of the ordering ended first (spec.md
// §4.5 "sibling-search" rule, exercised by extents-overflow lookups
// whose keys advance node-by-node at a fixed forkType/fileID prefix).
func (f *File) Search(keyLen KeyLenFunc, cmp KeyComparator) ([]byte, bool, error) {
	node, err := f.descendToLeaf(keyLen, cmp)
	if err != nil {
		return nil, false, err
	}

	for node != nil {
		for _, rec := range node.Records {
			c := cmp(rec)
			switch {
			case c == 0:
				return rec, true, nil
			case c < 0:
				// Target sorts before this record; since records within a
				// node are strictly ascending, no later record can match.
				return nil, false, nil
			}
		}
		node, err = f.NextSibling(node)
		if err != nil {
			return nil, false, err
		}
	}
	return nil, false, nil
}

// DescendToLeaf descends from the root using cmp to choose each index
// node's child and returns the leaf node the descent lands on, without
// scanning it. Callers that need a range scan rather than an exact
// match (e.g. catalog child enumeration) use this directly instead of
// Search.
func (f *File) DescendToLeaf(keyLen KeyLenFunc, cmp KeyComparator) (*Node, error) {
	return f.descendToLeaf(keyLen, cmp)
}

func (f *File) descendToLeaf(keyLen KeyLenFunc, cmp KeyComparator) (*Node, error) {
	node, err := f.Root()
	if err != nil {
		return nil, err
	}

	for node.IsIndex() {
		if len(node.Records) == 0 {
			return nil, hfserr.New(hfserr.CorruptNode, "descendToLeaf", fmt.Errorf("index node %d has no records", node.Number()))
		}
		chosen := node.Records[0]
		for _, rec := range node.Records {
			if cmp(rec) >= 0 {
				chosen = rec
			} else {
				break
			}
		}
		childNum, err := indexRecordChild(chosen, keyLen(chosen))
		if err != nil {
			return nil, hfserr.New(hfserr.CorruptNode, "descendToLeaf", err)
		}
		node, err = f.Node(childNum)
		if err != nil {
			return nil, err
		}
	}
	return node, nil
}
