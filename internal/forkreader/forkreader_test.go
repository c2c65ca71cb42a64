package forkreader

import (
	"bytes"
	"testing"

	"github.com/deploymenttheory/hfsx/internal/device"
	"github.com/deploymenttheory/hfsx/internal/hfserr"
	"github.com/deploymenttheory/hfsx/internal/types"
)

func buildDevice(t *testing.T, blockSize uint32, blocks int) (*device.Reader, []byte) {
	t.Helper()
	buf := make([]byte, int(blockSize)*blocks)
	for i := range buf {
		buf[i] = byte(i % 256)
	}
	return device.New(bytes.NewReader(buf), 0, blockSize, int64(len(buf))), buf
}

func TestReadRangeWithinInlineExtents(t *testing.T) {
	dr, buf := buildDevice(t, 512, 8)
	fork := types.ForkDescriptor{
		LogicalSize: 1024,
		TotalBlocks: 2,
		Extents:     []types.Extent{{StartBlock: 2, BlockCount: 2}, {}, {}},
	}
	r, err := New(dr, fork, types.ForkTypeData, 16, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := r.ReadRange(0, 1024)
	if err != nil {
		t.Fatalf("ReadRange: %v", err)
	}
	want := buf[2*512 : 2*512+1024]
	if !bytes.Equal(got, want) {
		t.Errorf("data mismatch")
	}
}

func TestReadRangePastLogicalSizeFails(t *testing.T) {
	dr, _ := buildDevice(t, 512, 4)
	fork := types.ForkDescriptor{LogicalSize: 100, TotalBlocks: 1, Extents: []types.Extent{{StartBlock: 0, BlockCount: 1}}}
	r, err := New(dr, fork, types.ForkTypeData, 16, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := r.ReadRange(50, 1000); !hfserr.Is(err, hfserr.OutOfRange) {
		t.Fatalf("expected OutOfRange, got %v", err)
	}
}

func TestReadRangeLastByteSucceeds(t *testing.T) {
	dr, buf := buildDevice(t, 512, 4)
	fork := types.ForkDescriptor{LogicalSize: 100, TotalBlocks: 1, Extents: []types.Extent{{StartBlock: 0, BlockCount: 1}}}
	r, err := New(dr, fork, types.ForkTypeData, 16, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := r.ReadRange(99, 1)
	if err != nil {
		t.Fatalf("ReadRange: %v", err)
	}
	if !bytes.Equal(got, buf[99:100]) {
		t.Errorf("data mismatch reading last byte")
	}
	if _, err := r.ReadRange(100, 1); !hfserr.Is(err, hfserr.OutOfRange) {
		t.Fatalf("expected OutOfRange reading one past logicalSize, got %v", err)
	}
}

func TestNewFailsShortForkWithoutOverflow(t *testing.T) {
	dr, _ := buildDevice(t, 512, 4)
	fork := types.ForkDescriptor{LogicalSize: 4096, TotalBlocks: 8, Extents: []types.Extent{{StartBlock: 0, BlockCount: 2}}}
	_, err := New(dr, fork, types.ForkTypeData, 16, nil)
	if !hfserr.Is(err, hfserr.ShortFork) {
		t.Fatalf("expected ShortFork, got %v", err)
	}
}

func TestNewFetchesOverflowExtents(t *testing.T) {
	dr, buf := buildDevice(t, 512, 8)
	fork := types.ForkDescriptor{LogicalSize: 2048, TotalBlocks: 4, Extents: []types.Extent{{StartBlock: 0, BlockCount: 2}}}
	lookup := func(key types.ExtentOverflowKey) ([]types.Extent, bool, error) {
		if key.StartBlock == 2 {
			return []types.Extent{{StartBlock: 4, BlockCount: 2}}, true, nil
		}
		return nil, false, nil
	}
	r, err := New(dr, fork, types.ForkTypeData, 16, lookup)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	info := r.Stat()
	if info.ExtentCount != 2 || !info.Fragmented {
		t.Errorf("expected fragmented 2-extent fork, got %+v", info)
	}
	got, err := r.ReadRange(1024, 1024)
	if err != nil {
		t.Fatalf("ReadRange: %v", err)
	}
	want := buf[4*512 : 4*512+1024]
	if !bytes.Equal(got, want) {
		t.Errorf("overflow extent data mismatch")
	}
}
