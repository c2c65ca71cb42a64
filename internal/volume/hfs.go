package volume

import (
	"fmt"

	"github.com/deploymenttheory/hfsx/internal/codec"
	"github.com/deploymenttheory/hfsx/internal/device"
	"github.com/deploymenttheory/hfsx/internal/hfserr"
	"github.com/deploymenttheory/hfsx/internal/probe"
	"github.com/deploymenttheory/hfsx/internal/textdecode"
	"github.com/deploymenttheory/hfsx/internal/types"
)

const mdbHeaderOffset = 1024
const mdbReadSize = 162

type hfsVolume struct {
	mdb    types.MasterDirectoryBlock
	name   string
	reader *device.Reader
}

func openHFS(ra readerAt, loc probe.Location) (Volume, error) {
	buf := make([]byte, mdbReadSize)
	if _, err := ra.ReadAt(buf, loc.StartByteOffset+mdbHeaderOffset); err != nil {
		return nil, hfserr.New(hfserr.DeviceIo, "openHFS", err)
	}

	mdb, err := parseMDB(buf)
	if err != nil {
		return nil, hfserr.New(hfserr.UnsupportedVersion, "openHFS", err)
	}
	if mdb.DrSigWord != types.SigWordHFS {
		return nil, hfserr.New(hfserr.UnknownVolume, "openHFS", fmt.Errorf("signature %#04x is not 'BD'", mdb.DrSigWord))
	}

	name := ""
	if raw, err := pascalStringAt(buf, 0x24, 28); err == nil {
		if decoded, derr := textdecode.PascalToUnicode(raw, textdecode.MacRoman); derr == nil {
			name = decoded
		}
	}

	return &hfsVolume{
		mdb:    mdb,
		name:   name,
		reader: device.New(ra, loc.StartByteOffset, mdb.DrAlBlkSiz, loc.ByteLength),
	}, nil
}

// pascalStringAt extracts the raw Pascal-string bytes (length byte
// included) without decoding; decoding through the volume's source
// encoding is the caller's job (textdecode.PascalToUnicode).
func pascalStringAt(buf []byte, offset int, maxLen int) ([]byte, error) {
	if offset >= len(buf) {
		return nil, fmt.Errorf("offset %d out of range", offset)
	}
	n := int(buf[offset])
	if n > maxLen-1 || offset+1+n > len(buf) {
		return nil, fmt.Errorf("pascal string length %d invalid", n)
	}
	return buf[offset : offset+1+n], nil
}

func parseMDB(buf []byte) (types.MasterDirectoryBlock, error) {
	var m types.MasterDirectoryBlock
	var err error

	read16 := func(off int) uint16 { v, e := codec.Uint16(buf, off); if e != nil { err = e }; return v }
	read32 := func(off int) uint32 { v, e := codec.Uint32(buf, off); if e != nil { err = e }; return v }

	m.DrSigWord = read16(0x00)
	m.DrCrDate = read32(0x02)
	m.DrLsMod = read32(0x06)
	m.DrAtrb = read16(0x0a)
	m.DrNmFls = read16(0x0c)
	m.DrVBMSt = read16(0x0e)
	m.DrAllocPtr = read16(0x10)
	m.DrNmAlBlks = read16(0x12)
	m.DrAlBlkSiz = read32(0x14)
	m.DrClpSiz = read32(0x18)
	m.DrAlBlSt = read16(0x1c)
	m.DrNxtCNID = types.Cnid(read32(0x1e))
	m.DrFreeBks = read16(0x22)
	m.DrVolBkUp = read32(0x40)
	m.DrVSeqNum = read16(0x44)
	m.DrWrCnt = read32(0x46)
	m.DrXTClpSiz = read32(0x4a)
	m.DrCTClpSiz = read32(0x4e)
	m.DrNmRtDirs = read16(0x52)
	m.DrFilCnt = read32(0x54)
	m.DrDirCnt = read32(0x58)
	m.DrEmbedSigWord = read16(0x7c)
	if err != nil {
		return m, err
	}

	embedStart := read16(0x7e)
	embedCount := read16(0x80)
	m.DrEmbedExtent = types.Extent{StartBlock: uint32(embedStart), BlockCount: uint32(embedCount)}

	for i := 0; i < types.HfsExtentCount; i++ {
		ext, e := decodeExtentHFS(buf, 0x86+i*4)
		if e != nil {
			return m, e
		}
		m.DrXTExtRec[i] = ext
	}
	for i := 0; i < types.HfsExtentCount; i++ {
		ext, e := decodeExtentHFS(buf, 0x96+i*4)
		if e != nil {
			return m, e
		}
		m.DrCTExtRec[i] = ext
	}
	if err != nil {
		return m, err
	}
	return m, nil
}

func (v *hfsVolume) Kind() probe.Kind      { return probe.KindHFS }
func (v *hfsVolume) Name() string          { return v.name }
func (v *hfsVolume) SetName(n string)      { v.name = n }
func (v *hfsVolume) AllocBlockSize() uint32 { return v.mdb.DrAlBlkSiz }
func (v *hfsVolume) TotalBlocks() uint32   { return uint32(v.mdb.DrNmAlBlks) }
func (v *hfsVolume) FreeBlocks() uint32    { return uint32(v.mdb.DrFreeBks) }
func (v *hfsVolume) FileCount() uint32     { return v.mdb.DrFilCnt }
func (v *hfsVolume) FolderCount() uint32   { return v.mdb.DrDirCnt }
func (v *hfsVolume) Reader() *device.Reader { return v.reader }

// AllocationBitmapFork synthesizes a ForkDescriptor for the HFS
// allocation bitmap, which (unlike HFS+) has no catalog record of its
// own — just a start block (drVBMSt, in 512-byte blocks) and a size
// derived from the volume's total block count (spec.md §4.3).
func (v *hfsVolume) AllocationBitmapFork() types.ForkDescriptor {
	bitmapBytes := (v.mdb.DrNmAlBlks + 7) / 8
	blockCount := (uint32(bitmapBytes)*512 + v.mdb.DrAlBlkSiz - 1) / v.mdb.DrAlBlkSiz
	startBlock512 := v.mdb.DrVBMSt
	// The start block stays in 512-byte units and is not translated into
	// allocation blocks; CountFreeBlocks (see bitmap.go) reads it through
	// the reader's ReadExtentRangeRaw512 helper.
	return types.ForkDescriptor{
		LogicalSize: uint64(bitmapBytes),
		TotalBlocks: blockCount,
		Extents:     []types.Extent{{StartBlock: uint32(startBlock512), BlockCount: blockCount}},
	}
}

func (v *hfsVolume) ExtentsFileFork() types.ForkDescriptor {
	return forkFromInline(v.mdb.DrXTExtRec[:], v.mdb.DrXTClpSiz, v.mdb.DrAlBlkSiz)
}

func (v *hfsVolume) CatalogFileFork() types.ForkDescriptor {
	return forkFromInline(v.mdb.DrCTExtRec[:], v.mdb.DrCTClpSiz, v.mdb.DrAlBlkSiz)
}

func forkFromInline(extents []types.Extent, clumpSize uint32, allocBlockSize uint32) types.ForkDescriptor {
	var total uint32
	for _, e := range extents {
		total += e.BlockCount
	}
	return types.ForkDescriptor{
		LogicalSize: uint64(total) * uint64(allocBlockSize),
		ClumpSize:   clumpSize,
		TotalBlocks: total,
		Extents:     append([]types.Extent{}, extents...),
	}
}
