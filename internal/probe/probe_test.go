package probe

import (
	"bytes"
	"testing"

	"github.com/deploymenttheory/hfsx/internal/codec"
)

func buildHFSMDB(embedSig uint16, embedStart, embedCount uint16) []byte {
	buf := make([]byte, mdbSize)
	codec.Endian.PutUint16(buf[0:2], 0x4244) // 'BD'
	codec.Endian.PutUint32(buf[0x14:0x18], 1024) // alBlkSiz
	codec.Endian.PutUint16(buf[0x1c:0x1e], 3)    // alBlSt
	codec.Endian.PutUint16(buf[0x7c:0x7e], embedSig)
	codec.Endian.PutUint16(buf[0x7e:0x80], embedStart)
	codec.Endian.PutUint16(buf[0x80:0x82], embedCount)
	return buf
}

func deviceImage(mdb []byte) []byte {
	img := make([]byte, volumeHeaderOffset+mdbSize+4096)
	copy(img[volumeHeaderOffset:], mdb)
	return img
}

func TestProbe_PlainHFS(t *testing.T) {
	mdb := buildHFSMDB(0, 0, 0)
	img := deviceImage(mdb)

	locs, err := Probe(bytes.NewReader(img), int64(len(img)))
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if len(locs) != 1 || locs[0].Kind != KindHFS {
		t.Fatalf("expected exactly one HFS location, got %+v", locs)
	}
	if locs[0].StartByteOffset != 0 {
		t.Errorf("StartByteOffset = %d, want 0 (volume start, not MDB address)", locs[0].StartByteOffset)
	}
}

func TestProbe_WrappedHFSPlus(t *testing.T) {
	mdb := buildHFSMDB(0x482B, 2, 100)
	img := deviceImage(mdb)

	locs, err := Probe(bytes.NewReader(img), int64(len(img)))
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if len(locs) != 2 {
		t.Fatalf("expected outer HFS + inner HFS+, got %d locations: %+v", len(locs), locs)
	}
	if locs[0].Kind != KindHFS || locs[1].Kind != KindHFSPlus {
		t.Errorf("expected [HFS, HFS+], got [%v, %v]", locs[0].Kind, locs[1].Kind)
	}
	wantInnerOffset := int64(0) + 3*512 + 2*1024 // outer volume start (0) + drAlBlSt*512 + embedStart*alBlkSiz
	if locs[1].StartByteOffset != wantInnerOffset {
		t.Errorf("inner offset = %d, want %d", locs[1].StartByteOffset, wantInnerOffset)
	}
	if locs[0].StartByteOffset != 0 {
		t.Errorf("outer StartByteOffset = %d, want 0", locs[0].StartByteOffset)
	}
}

func TestProbe_SignatureAtOffsetZero(t *testing.T) {
	// A signature found at the base=0 candidate names a volume that
	// starts at byte 0 itself, not at a negative offset.
	buf := make([]byte, mdbSize)
	codec.Endian.PutUint16(buf[0:2], 0x482B) // 'H+'
	img := append(append([]byte{}, buf...), make([]byte, 4096)...)

	locs, err := Probe(bytes.NewReader(img), int64(len(img)))
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if len(locs) != 1 {
		t.Fatalf("expected exactly one location, got %+v", locs)
	}
	if locs[0].StartByteOffset != 0 {
		t.Errorf("StartByteOffset = %d, want 0", locs[0].StartByteOffset)
	}
}

func TestProbe_Unrecognized(t *testing.T) {
	img := make([]byte, volumeHeaderOffset+mdbSize)
	locs, err := Probe(bytes.NewReader(img), int64(len(img)))
	if err != nil {
		t.Fatalf("Probe should not error on unrecognized signature: %v", err)
	}
	if len(locs) != 0 {
		t.Errorf("expected no locations, got %+v", locs)
	}
}
