package volume

import (
	"fmt"

	"github.com/deploymenttheory/hfsx/internal/codec"
	"github.com/deploymenttheory/hfsx/internal/device"
	"github.com/deploymenttheory/hfsx/internal/hfserr"
	"github.com/deploymenttheory/hfsx/internal/probe"
	"github.com/deploymenttheory/hfsx/internal/types"
)

const volumeHeaderReadSize = 512

type hfsPlusVolume struct {
	header types.VolumeHeader
	name   string
	reader *device.Reader
}

func openHFSPlus(ra readerAt, loc probe.Location) (Volume, error) {
	buf := make([]byte, volumeHeaderReadSize)
	if _, err := ra.ReadAt(buf, loc.StartByteOffset+mdbHeaderOffset); err != nil {
		return nil, hfserr.New(hfserr.DeviceIo, "openHFSPlus", err)
	}

	header, err := parseVolumeHeader(buf)
	if err != nil {
		return nil, hfserr.New(hfserr.UnsupportedVersion, "openHFSPlus", err)
	}
	if header.Signature != types.SigWordHFSPlus && header.Signature != types.SigWordHFSX {
		return nil, hfserr.New(hfserr.UnknownVolume, "openHFSPlus", fmt.Errorf("signature %#04x is not 'H+' or 'HX'", header.Signature))
	}

	return &hfsPlusVolume{
		header: header,
		reader: device.New(ra, loc.StartByteOffset, header.BlockSize, loc.ByteLength),
	}, nil
}

func parseVolumeHeader(buf []byte) (types.VolumeHeader, error) {
	var h types.VolumeHeader
	var err error

	read16 := func(off int) uint16 { v, e := codec.Uint16(buf, off); if e != nil { err = e }; return v }
	read32 := func(off int) uint32 { v, e := codec.Uint32(buf, off); if e != nil { err = e }; return v }
	read64 := func(off int) uint64 { v, e := codec.Uint64(buf, off); if e != nil { err = e }; return v }

	h.Signature = read16(0)
	h.Version = read16(2)
	h.Attributes = read32(4)
	h.LastMountedVersion = read32(8)
	h.JournalInfoBlock = read32(12)
	h.CreateDate = read32(16)
	h.ModifyDate = read32(20)
	h.BackupDate = read32(24)
	h.CheckedDate = read32(28)
	h.FileCount = read32(32)
	h.FolderCount = read32(36)
	h.BlockSize = read32(40)
	h.TotalBlocks = read32(44)
	h.FreeBlocks = read32(48)
	h.NextAllocation = read32(52)
	h.RsrcClumpSize = read32(56)
	h.DataClumpSize = read32(60)
	h.NextCatalogID = types.Cnid(read32(64))
	h.WriteCount = read32(68)
	h.EncodingsBitmap = read64(72)
	if err != nil {
		return h, err
	}
	for i := 0; i < 8; i++ {
		h.FinderInfo[i] = read32(80 + i*4)
	}
	if err != nil {
		return h, err
	}

	const forkSize = 80
	forkOffsets := []int{112, 112 + forkSize, 112 + 2*forkSize, 112 + 3*forkSize, 112 + 4*forkSize}
	forks := make([]types.ForkDescriptor, 5)
	for i, off := range forkOffsets {
		fd, e := parseForkData(buf, off)
		if e != nil {
			return h, e
		}
		forks[i] = fd
	}
	h.AllocationFile = forks[0]
	h.ExtentsFile = forks[1]
	h.CatalogFile = forks[2]
	h.AttributesFile = forks[3]
	h.StartupFile = forks[4]

	return h, nil
}

// parseForkData decodes an HFSPlusForkData structure: logicalSize (u64),
// clumpSize (u32), totalBlocks (u32), then 8 (startBlock,blockCount) u32
// extent pairs.
func parseForkData(buf []byte, offset int) (types.ForkDescriptor, error) {
	logicalSize, err := codec.Uint64(buf, offset)
	if err != nil {
		return types.ForkDescriptor{}, err
	}
	clumpSize, err := codec.Uint32(buf, offset+8)
	if err != nil {
		return types.ForkDescriptor{}, err
	}
	totalBlocks, err := codec.Uint32(buf, offset+12)
	if err != nil {
		return types.ForkDescriptor{}, err
	}

	extents := make([]types.Extent, types.HfsPlusExtentCount)
	for i := 0; i < types.HfsPlusExtentCount; i++ {
		ext, e := decodeExtentHFSPlus(buf, offset+16+i*8)
		if e != nil {
			return types.ForkDescriptor{}, e
		}
		extents[i] = ext
	}

	return types.ForkDescriptor{
		LogicalSize: logicalSize,
		ClumpSize:   clumpSize,
		TotalBlocks: totalBlocks,
		Extents:     extents,
	}, nil
}

func (v *hfsPlusVolume) Kind() probe.Kind       { return probe.KindHFSPlus }
func (v *hfsPlusVolume) Name() string           { return v.name }
func (v *hfsPlusVolume) SetName(n string)       { v.name = n }
func (v *hfsPlusVolume) AllocBlockSize() uint32 { return v.header.BlockSize }
func (v *hfsPlusVolume) TotalBlocks() uint32    { return v.header.TotalBlocks }
func (v *hfsPlusVolume) FreeBlocks() uint32     { return v.header.FreeBlocks }
func (v *hfsPlusVolume) FileCount() uint32      { return v.header.FileCount }
func (v *hfsPlusVolume) FolderCount() uint32    { return v.header.FolderCount }
func (v *hfsPlusVolume) Reader() *device.Reader { return v.reader }

func (v *hfsPlusVolume) AllocationBitmapFork() types.ForkDescriptor { return v.header.AllocationFile }
func (v *hfsPlusVolume) ExtentsFileFork() types.ForkDescriptor     { return v.header.ExtentsFile }
func (v *hfsPlusVolume) CatalogFileFork() types.ForkDescriptor     { return v.header.CatalogFile }
