package device

import (
	"bytes"
	"testing"

	"github.com/deploymenttheory/hfsx/internal/hfserr"
	"github.com/deploymenttheory/hfsx/internal/types"
)

func TestReadBlocks(t *testing.T) {
	data := make([]byte, 4096)
	for i := range data {
		data[i] = byte(i)
	}
	r := New(bytes.NewReader(data), 0, 512, int64(len(data)))

	got, err := r.ReadBlocks(2, 2)
	if err != nil {
		t.Fatalf("ReadBlocks: %v", err)
	}
	want := data[1024:2048]
	if !bytes.Equal(got, want) {
		t.Errorf("ReadBlocks mismatch")
	}
}

func TestReadExtentRange(t *testing.T) {
	data := make([]byte, 4096)
	for i := range data {
		data[i] = byte(i % 251)
	}
	r := New(bytes.NewReader(data), 0, 512, int64(len(data)))

	extents := []types.Extent{
		{StartBlock: 0, BlockCount: 2}, // blocks 0-1 -> bytes [0,1024)
		{StartBlock: 4, BlockCount: 2}, // blocks 4-5 -> bytes [2048,3072)
	}

	// read spanning the boundary between the two extents
	got, err := r.ReadExtentRange(extents, 1000, 100)
	if err != nil {
		t.Fatalf("ReadExtentRange: %v", err)
	}
	want := append(append([]byte{}, data[1000:1024]...), data[2048:2048+76]...)
	if !bytes.Equal(got, want) {
		t.Errorf("ReadExtentRange mismatch: got % x, want % x", got, want)
	}
}

func TestReadExtentRange_OutOfRange(t *testing.T) {
	data := make([]byte, 1024)
	r := New(bytes.NewReader(data), 0, 512, int64(len(data)))
	extents := []types.Extent{{StartBlock: 0, BlockCount: 2}}

	_, err := r.ReadExtentRange(extents, 900, 200)
	if !hfserr.Is(err, hfserr.OutOfRange) {
		t.Fatalf("expected OutOfRange error, got %v", err)
	}
}

func TestStartOffsetShift(t *testing.T) {
	data := make([]byte, 2048)
	for i := range data {
		data[i] = byte(i)
	}
	r := New(bytes.NewReader(data), 512, 512, int64(len(data))-512)

	got, err := r.ReadBlocks(0, 1)
	if err != nil {
		t.Fatalf("ReadBlocks: %v", err)
	}
	if !bytes.Equal(got, data[512:1024]) {
		t.Errorf("start-offset shift not applied correctly")
	}
}
