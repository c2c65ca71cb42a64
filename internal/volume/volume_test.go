package volume

import (
	"bytes"
	"testing"

	"github.com/deploymenttheory/hfsx/internal/codec"
	"github.com/deploymenttheory/hfsx/internal/probe"
)

func buildHFSImage() []byte {
	img := make([]byte, mdbHeaderOffset+mdbReadSize+8192)
	mdb := img[mdbHeaderOffset:]
	codec.Endian.PutUint16(mdb[0x00:], 0x4244)
	codec.Endian.PutUint16(mdb[0x12:], 16) // drNmAlBlks
	codec.Endian.PutUint32(mdb[0x14:], 512) // drAlBlkSiz
	codec.Endian.PutUint16(mdb[0x1c:], 3)   // drAlBlSt
	codec.Endian.PutUint32(mdb[0x1e:], 16)  // drNxtCNID
	codec.Endian.PutUint16(mdb[0x22:], 5)   // drFreeBks
	mdb[0x24] = 4
	copy(mdb[0x25:], []byte("Test"))
	codec.Endian.PutUint32(mdb[0x54:], 0) // drFilCnt
	codec.Endian.PutUint32(mdb[0x58:], 1) // drDirCnt
	return img
}

func TestOpenHFS(t *testing.T) {
	img := buildHFSImage()
	v, err := Open(bytes.NewReader(img), probe.Location{StartByteOffset: 0, ByteLength: int64(len(img)), Kind: probe.KindHFS})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if v.Kind() != probe.KindHFS {
		t.Errorf("Kind = %v, want HFS", v.Kind())
	}
	if v.AllocBlockSize() != 512 {
		t.Errorf("AllocBlockSize = %d, want 512", v.AllocBlockSize())
	}
	if v.TotalBlocks() != 16 {
		t.Errorf("TotalBlocks = %d, want 16", v.TotalBlocks())
	}
	if v.FreeBlocks() != 5 {
		t.Errorf("FreeBlocks = %d, want 5", v.FreeBlocks())
	}
}

func TestOpenHFS_WrongSignature(t *testing.T) {
	img := buildHFSImage()
	codec.Endian.PutUint16(img[mdbHeaderOffset:], 0x0000)
	_, err := Open(bytes.NewReader(img), probe.Location{StartByteOffset: 0, ByteLength: int64(len(img)), Kind: probe.KindHFS})
	if err == nil {
		t.Fatal("expected error for bad signature")
	}
}

func buildHFSPlusImage() []byte {
	img := make([]byte, mdbHeaderOffset+volumeHeaderReadSize+8192)
	h := img[mdbHeaderOffset:]
	codec.Endian.PutUint16(h[0:], 0x482B)
	codec.Endian.PutUint16(h[2:], 4)
	codec.Endian.PutUint32(h[40:], 4096) // blockSize
	codec.Endian.PutUint32(h[44:], 100)  // totalBlocks
	codec.Endian.PutUint32(h[48:], 10)   // freeBlocks
	codec.Endian.PutUint32(h[32:], 3)    // fileCount
	codec.Endian.PutUint32(h[36:], 2)    // folderCount
	return img
}

func TestOpenHFSPlus(t *testing.T) {
	img := buildHFSPlusImage()
	v, err := Open(bytes.NewReader(img), probe.Location{StartByteOffset: 0, ByteLength: int64(len(img)), Kind: probe.KindHFSPlus})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if v.Kind() != probe.KindHFSPlus {
		t.Errorf("Kind = %v, want HFS+", v.Kind())
	}
	if v.AllocBlockSize() != 4096 {
		t.Errorf("AllocBlockSize = %d, want 4096", v.AllocBlockSize())
	}
	if v.TotalBlocks() != 100 || v.FreeBlocks() != 10 {
		t.Errorf("block accounting = (%d,%d), want (100,10)", v.TotalBlocks(), v.FreeBlocks())
	}
	if v.FileCount() != 3 || v.FolderCount() != 2 {
		t.Errorf("item counts = (%d,%d), want (3,2)", v.FileCount(), v.FolderCount())
	}
}
