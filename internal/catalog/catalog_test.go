package catalog

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/deploymenttheory/hfsx/internal/btree"
	"github.com/deploymenttheory/hfsx/internal/device"
	"github.com/deploymenttheory/hfsx/internal/types"
)

func utf16beName(s string) []byte {
	out := make([]byte, len(s)*2)
	for i, r := range s {
		binary.BigEndian.PutUint16(out[i*2:], uint16(r))
	}
	return out
}

func buildKeyHFSPlus(parentID uint32, name string) []byte {
	nameBytes := utf16beName(name)
	keyLen := 4 + 2 + len(nameBytes)
	body := make([]byte, keyLen)
	binary.BigEndian.PutUint32(body[0:4], parentID)
	binary.BigEndian.PutUint16(body[4:6], uint16(len(name)))
	copy(body[6:], nameBytes)

	total := 2 + keyLen
	if total%2 != 0 {
		total++
	}
	out := make([]byte, total)
	binary.BigEndian.PutUint16(out[0:2], uint16(keyLen))
	copy(out[2:], body)
	return out
}

func buildThreadPayload(kind int16, parentID uint32, name string) []byte {
	nameBytes := utf16beName(name)
	payload := make([]byte, 2+2+4+2+len(nameBytes))
	binary.BigEndian.PutUint16(payload[0:2], uint16(kind))
	binary.BigEndian.PutUint32(payload[4:8], parentID)
	binary.BigEndian.PutUint16(payload[8:10], uint16(len(name)))
	copy(payload[10:], nameBytes)
	return payload
}

func buildFolderPayload(folderID uint32, valence uint32) []byte {
	payload := make([]byte, 88)
	binary.BigEndian.PutUint16(payload[0:2], uint16(types.RecordTypeFolder))
	binary.BigEndian.PutUint32(payload[4:8], valence)
	binary.BigEndian.PutUint32(payload[8:12], folderID)
	return payload
}

func buildFilePayload(fileID uint32) []byte {
	payload := make([]byte, 248)
	binary.BigEndian.PutUint16(payload[0:2], uint16(types.RecordTypeFile))
	binary.BigEndian.PutUint32(payload[8:12], fileID)
	return payload
}

func rec(key, payload []byte) []byte {
	return append(append([]byte{}, key...), payload...)
}

// buildNode and buildHeaderRecord mirror internal/btree's test helpers;
// duplicated here since they're unexported across packages.
func buildNode(fLink, bLink uint32, kind types.NodeKind, records [][]byte, nodeSize int) []byte {
	buf := make([]byte, nodeSize)
	binary.BigEndian.PutUint32(buf[0:4], fLink)
	binary.BigEndian.PutUint32(buf[4:8], bLink)
	buf[8] = byte(kind)
	binary.BigEndian.PutUint16(buf[10:12], uint16(len(records)))

	offsetsAsc := make([]uint16, 0, len(records)+1)
	pos := types.NodeDescriptorSize
	for _, r := range records {
		offsetsAsc = append(offsetsAsc, uint16(pos))
		copy(buf[pos:], r)
		pos += len(r)
	}
	offsetsAsc = append(offsetsAsc, uint16(pos))

	n := len(offsetsAsc)
	tableStart := nodeSize - n*2
	for k := 0; k < n; k++ {
		binary.BigEndian.PutUint16(buf[tableStart+k*2:], offsetsAsc[n-1-k])
	}
	return buf
}

func buildHeaderRecord(root, firstLeaf, lastLeaf uint32, nodeSize uint16) []byte {
	rec := make([]byte, 106)
	binary.BigEndian.PutUint16(rec[0:2], 1)
	binary.BigEndian.PutUint32(rec[2:6], root)
	binary.BigEndian.PutUint32(rec[10:14], firstLeaf)
	binary.BigEndian.PutUint32(rec[14:18], lastLeaf)
	binary.BigEndian.PutUint16(rec[18:20], nodeSize)
	return rec
}

func buildTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	const nodeSize = 1024

	records := [][]byte{
		rec(buildKeyHFSPlus(2, ""), buildThreadPayload(int16(types.RecordTypeFolderThread), 1, "Volume")),
		rec(buildKeyHFSPlus(2, "Docs"), buildFolderPayload(20, 1)),
		rec(buildKeyHFSPlus(20, ""), buildThreadPayload(int16(types.RecordTypeFolderThread), 2, "Docs")),
		rec(buildKeyHFSPlus(20, "hello.txt"), buildFilePayload(21)),
		rec(buildKeyHFSPlus(21, ""), buildThreadPayload(int16(types.RecordTypeFileThread), 20, "hello.txt")),
	}

	header := buildNode(0, 0, types.NodeKindHeader, [][]byte{buildHeaderRecord(1, 1, 1, nodeSize)}, nodeSize)
	leaf := buildNode(0, 0, types.NodeKindLeaf, records, nodeSize)
	img := append(header, leaf...)

	dr := device.New(bytes.NewReader(img), 0, nodeSize, int64(len(img)))
	fork := types.ForkDescriptor{Extents: []types.Extent{{StartBlock: 0, BlockCount: 2}}}
	file, err := btree.Open(dr, fork)
	if err != nil {
		t.Fatalf("btree.Open: %v", err)
	}
	return Open(file, true)
}

func TestChildrenOfRoot(t *testing.T) {
	c := buildTestCatalog(t)
	items, err := c.Children(types.CnidRootFolder)
	if err != nil {
		t.Fatalf("Children: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Docs" || !items[0].IsFolder {
		t.Fatalf("unexpected children of root: %+v", items)
	}
}

func TestChildrenOfSubfolder(t *testing.T) {
	c := buildTestCatalog(t)
	items, err := c.Children(types.Cnid(20))
	if err != nil {
		t.Fatalf("Children: %v", err)
	}
	if len(items) != 1 || items[0].Name != "hello.txt" || items[0].IsFolder {
		t.Fatalf("unexpected children of Docs: %+v", items)
	}
}

func TestReconstructPath(t *testing.T) {
	c := buildTestCatalog(t)
	path, err := c.ReconstructPath(types.Cnid(21))
	if err != nil {
		t.Fatalf("ReconstructPath: %v", err)
	}
	if path != "Docs:hello.txt" {
		t.Errorf("path = %q, want %q", path, "Docs:hello.txt")
	}
}

func TestReconstructPathBrokenChain(t *testing.T) {
	c := buildTestCatalog(t)
	_, err := c.ReconstructPath(types.Cnid(999))
	if err == nil {
		t.Fatal("expected BrokenChain error")
	}
}
