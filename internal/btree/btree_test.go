package btree

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/deploymenttheory/hfsx/internal/types"
)

// fakeReader implements blockReader over a single contiguous in-memory
// buffer addressed as one extent, for exercising btree.File without a
// real device.
type fakeReader struct {
	buf []byte
}

func (r *fakeReader) ReadExtentRange(extents []types.Extent, firstByte int64, length int64) ([]byte, error) {
	return r.buf[firstByte : firstByte+length], nil
}

// buildNode lays out a node of nodeSize bytes: a 14-byte descriptor,
// the concatenated records, and a trailing record-offset table in
// descending order (last entry is the free-space offset).
func buildNode(fLink, bLink uint32, kind types.NodeKind, height uint8, records [][]byte, nodeSize int) []byte {
	buf := make([]byte, nodeSize)
	binary.BigEndian.PutUint32(buf[0:4], fLink)
	binary.BigEndian.PutUint32(buf[4:8], bLink)
	buf[8] = byte(kind)
	buf[9] = height
	binary.BigEndian.PutUint16(buf[10:12], uint16(len(records)))

	offsetsAsc := make([]uint16, 0, len(records)+1)
	pos := types.NodeDescriptorSize
	for _, rec := range records {
		offsetsAsc = append(offsetsAsc, uint16(pos))
		copy(buf[pos:], rec)
		pos += len(rec)
	}
	offsetsAsc = append(offsetsAsc, uint16(pos)) // free-space marker

	// The on-disk table stores these offsets in reverse: the last two
	// bytes of the node hold the offset to record 0, and the table
	// entry nearest the free space holds the largest (free-space) value.
	n := len(offsetsAsc)
	tableStart := nodeSize - n*2
	for k := 0; k < n; k++ {
		binary.BigEndian.PutUint16(buf[tableStart+k*2:], offsetsAsc[n-1-k])
	}
	return buf
}

func buildHeaderRecord(depth uint16, root, leafRecords, firstLeaf, lastLeaf uint32, nodeSize uint16, totalNodes, freeNodes uint32) []byte {
	rec := make([]byte, 106)
	binary.BigEndian.PutUint16(rec[0:2], depth)
	binary.BigEndian.PutUint32(rec[2:6], root)
	binary.BigEndian.PutUint32(rec[6:10], leafRecords)
	binary.BigEndian.PutUint32(rec[10:14], firstLeaf)
	binary.BigEndian.PutUint32(rec[14:18], lastLeaf)
	binary.BigEndian.PutUint16(rec[18:20], nodeSize)
	binary.BigEndian.PutUint16(rec[20:22], 512)
	binary.BigEndian.PutUint32(rec[22:26], totalNodes)
	binary.BigEndian.PutUint32(rec[26:30], freeNodes)
	return rec
}

func buildSingleLeafTree(nodeSize int, leafRecords [][]byte) []byte {
	header := buildNode(0, 0, types.NodeKindHeader, 0, [][]byte{
		buildHeaderRecord(1, 1, uint32(len(leafRecords)), 1, 1, uint16(nodeSize), 2, 0),
	}, nodeSize)
	leaf := buildNode(0, 0, types.NodeKindLeaf, 0, leafRecords, nodeSize)
	return append(header, leaf...)
}

func TestOpenAndWalkLeaves(t *testing.T) {
	records := [][]byte{
		append([]byte{0x00, 0x0a}, []byte("record-a")...),
		append([]byte{0x00, 0x14}, []byte("record-b")...),
	}
	img := buildSingleLeafTree(512, records)
	f, err := Open(&fakeReader{buf: img}, types.ForkDescriptor{Extents: []types.Extent{{StartBlock: 0, BlockCount: 2}}})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if f.Header().RootNode != 1 {
		t.Errorf("RootNode = %d, want 1", f.Header().RootNode)
	}

	var seen [][]byte
	err = f.WalkLeaves(func(rec []byte) bool {
		seen = append(seen, rec)
		return true
	})
	if err != nil {
		t.Fatalf("WalkLeaves: %v", err)
	}
	if len(seen) != 2 {
		t.Fatalf("got %d records, want 2", len(seen))
	}
	if !bytes.Equal(seen[0], records[0]) || !bytes.Equal(seen[1], records[1]) {
		t.Errorf("record bytes mismatch")
	}
}

func TestSearchFindsExactMatch(t *testing.T) {
	rec1 := append([]byte{0x00, 0x0a}, []byte("AAAAAAAA")...)
	rec2 := append([]byte{0x00, 0x14}, []byte("BBBBBBBB")...)
	img := buildSingleLeafTree(512, [][]byte{rec1, rec2})
	f, err := Open(&fakeReader{buf: img}, types.ForkDescriptor{Extents: []types.Extent{{StartBlock: 0, BlockCount: 2}}})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	keyLen := func(rec []byte) int { return 2 }
	target := uint16(0x14)
	cmp := func(rec []byte) int {
		candidate := binary.BigEndian.Uint16(rec[0:2])
		if target == candidate {
			return 0
		}
		if target < candidate {
			return -1
		}
		return 1
	}

	found, ok, err := f.Search(keyLen, cmp)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !ok {
		t.Fatal("expected match")
	}
	if !bytes.Equal(found, rec2) {
		t.Errorf("found wrong record")
	}
}

func TestNextAndPrevSibling(t *testing.T) {
	leafA := buildNode(0, 0, types.NodeKindLeaf, 0, [][]byte{append([]byte{0x00, 0x0a}, []byte("record-a")...)}, 512)
	leafB := buildNode(0, 0, types.NodeKindLeaf, 0, [][]byte{append([]byte{0x00, 0x14}, []byte("record-b")...)}, 512)
	header := buildNode(0, 0, types.NodeKindHeader, 0, [][]byte{
		buildHeaderRecord(1, 1, 2, 1, 2, 512, 3, 0),
	}, 512)
	img := append(append(header, leafA...), leafB...)
	// wire leafA <-> leafB directly since buildNode already fixed their
	// fLink/bLink to 0; patch the sibling pointers in place.
	binary.BigEndian.PutUint32(img[512:516], 2)   // leafA.fLink -> node 2
	binary.BigEndian.PutUint32(img[1028:1032], 1) // leafB.bLink -> node 1

	f, err := Open(&fakeReader{buf: img}, types.ForkDescriptor{Extents: []types.Extent{{StartBlock: 0, BlockCount: 3}}})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	first, err := f.FirstLeaf()
	if err != nil {
		t.Fatalf("FirstLeaf: %v", err)
	}
	second, err := f.NextSibling(first)
	if err != nil {
		t.Fatalf("NextSibling: %v", err)
	}
	if second == nil || second.Number() != 2 {
		t.Fatalf("NextSibling = %v, want node 2", second)
	}

	back, err := f.PrevSibling(second)
	if err != nil {
		t.Fatalf("PrevSibling: %v", err)
	}
	if back == nil || back.Number() != 1 {
		t.Fatalf("PrevSibling = %v, want node 1", back)
	}

	none, err := f.PrevSibling(first)
	if err != nil {
		t.Fatalf("PrevSibling: %v", err)
	}
	if none != nil {
		t.Fatalf("PrevSibling of first leaf = %v, want nil", none)
	}
}

func TestWalkBreadthFirstVisitsLevelByLevel(t *testing.T) {
	// index records: 2-byte key, 4-byte child pointer, no padding needed
	// since 2 is already even (Inside Macintosh: Files).
	indexRec := func(key uint16, child uint32) []byte {
		rec := make([]byte, 6)
		binary.BigEndian.PutUint16(rec[0:2], key)
		binary.BigEndian.PutUint32(rec[2:6], child)
		return rec
	}
	root := buildNode(0, 0, types.NodeKindIndex, 1, [][]byte{
		indexRec(0x0010, 2),
		indexRec(0xffff, 3),
	}, 512)
	leafLeft := buildNode(0, 3, types.NodeKindLeaf, 0, [][]byte{
		append([]byte{0x00, 0x0a}, []byte("record-a")...),
	}, 512)
	leafRight := buildNode(2, 0, types.NodeKindLeaf, 0, [][]byte{
		append([]byte{0x00, 0x14}, []byte("record-b")...),
	}, 512)
	header := buildNode(0, 0, types.NodeKindHeader, 0, [][]byte{
		buildHeaderRecord(2, 1, 2, 2, 3, 512, 4, 0),
	}, 512)
	img := append(append(append(header, root...), leafLeft...), leafRight...)

	f, err := Open(&fakeReader{buf: img}, types.ForkDescriptor{Extents: []types.Extent{{StartBlock: 0, BlockCount: 4}}})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	keyLen := func(rec []byte) int { return 2 }
	var order []uint32
	err = f.WalkBreadthFirst(keyLen, func(n *Node) bool {
		order = append(order, n.Number())
		return true
	})
	if err != nil {
		t.Fatalf("WalkBreadthFirst: %v", err)
	}
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("visit order = %v, want [1 2 3] (root before its children)", order)
	}
}

func TestSearchNotFound(t *testing.T) {
	rec1 := append([]byte{0x00, 0x0a}, []byte("AAAAAAAA")...)
	img := buildSingleLeafTree(512, [][]byte{rec1})
	f, err := Open(&fakeReader{buf: img}, types.ForkDescriptor{Extents: []types.Extent{{StartBlock: 0, BlockCount: 2}}})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	keyLen := func(rec []byte) int { return 2 }
	cmp := func(rec []byte) int {
		candidate := binary.BigEndian.Uint16(rec[0:2])
		target := uint16(0xff)
		if target == candidate {
			return 0
		}
		if target < candidate {
			return -1
		}
		return 1
	}

	_, ok, err := f.Search(keyLen, cmp)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if ok {
		t.Fatal("expected no match")
	}
}
