package catalog

import (
	"fmt"

	"github.com/deploymenttheory/hfsx/internal/codec"
	"github.com/deploymenttheory/hfsx/internal/hfserr"
	"github.com/deploymenttheory/hfsx/internal/textdecode"
	"github.com/deploymenttheory/hfsx/internal/types"
)

// recordType reads the two-byte discriminator every catalog payload
// leads with (spec.md §4.7).
func recordType(payload []byte) (types.CatalogRecordType, error) {
	v, err := codec.Uint16(payload, 0)
	if err != nil {
		return 0, err
	}
	return types.CatalogRecordType(int16(v)), nil
}

// parseFolderRec decodes a folder record payload. Field offsets differ
// between the classic 70-byte CatalogFolder layout and the 88-byte
// HFSPlusCatalogFolder layout (Inside Macintosh: Files §6; TN1150).
func parseFolderRec(payload []byte, hfsPlus bool) (types.CatalogFolderRec, error) {
	var f types.CatalogFolderRec
	if hfsPlus {
		if len(payload) < 88 {
			return f, fmt.Errorf("hfs+ folder record needs 88 bytes, got %d", len(payload))
		}
		flags, _ := codec.Uint16(payload, 2)
		valence, _ := codec.Uint32(payload, 4)
		folderID, _ := codec.Uint32(payload, 8)
		createDate, _ := codec.Uint32(payload, 12)
		contentMod, _ := codec.Uint32(payload, 16)
		backupDate, _ := codec.Uint32(payload, 28)
		f.Flags = flags
		f.Valence = valence
		f.FolderID = types.Cnid(folderID)
		f.CreateDate = createDate
		f.ContentMod = contentMod
		f.BackupDate = backupDate
		copy(f.FinderInfo[:], payload[64:80])
		return f, nil
	}

	if len(payload) < 70 {
		return f, fmt.Errorf("hfs folder record needs 70 bytes, got %d", len(payload))
	}
	flags, _ := codec.Uint16(payload, 2)
	valence16, _ := codec.Uint16(payload, 4)
	folderID, _ := codec.Uint32(payload, 6)
	createDate, _ := codec.Uint32(payload, 10)
	contentMod, _ := codec.Uint32(payload, 14)
	backupDate, _ := codec.Uint32(payload, 18)
	f.Flags = flags
	f.Valence = uint32(valence16)
	f.FolderID = types.Cnid(folderID)
	f.CreateDate = createDate
	f.ContentMod = contentMod
	f.BackupDate = backupDate
	copy(f.FinderInfo[:], payload[38:54])
	return f, nil
}

// parseFileRec decodes a file record payload. HFS carries its two
// forks as a pair of fixed 3-extent arrays with separate size fields;
// HFS+ carries two full HFSPlusForkData structures (TN1150).
func parseFileRec(payload []byte, hfsPlus bool) (types.CatalogFileRec, error) {
	var rec types.CatalogFileRec
	if hfsPlus {
		if len(payload) < 248 {
			return rec, fmt.Errorf("hfs+ file record needs 248 bytes, got %d", len(payload))
		}
		flags, _ := codec.Uint16(payload, 2)
		fileID, _ := codec.Uint32(payload, 8)
		createDate, _ := codec.Uint32(payload, 12)
		contentMod, _ := codec.Uint32(payload, 16)
		backupDate, _ := codec.Uint32(payload, 28)
		rec.Flags = flags
		rec.FileID = types.Cnid(fileID)
		rec.CreateDate = createDate
		rec.ContentMod = contentMod
		rec.BackupDate = backupDate
		copy(rec.FinderInfo[:], payload[64:80])

		dataFork, err := parseHFSPlusForkData(payload[88:168])
		if err != nil {
			return rec, err
		}
		rsrcFork, err := parseHFSPlusForkData(payload[168:248])
		if err != nil {
			return rec, err
		}
		rec.DataFork = dataFork
		rec.ResourceFork = rsrcFork
		return rec, nil
	}

	if len(payload) < 102 {
		return rec, fmt.Errorf("hfs file record needs 102 bytes, got %d", len(payload))
	}
	flags := uint16(payload[2])
	fileID, _ := codec.Uint32(payload, 20)
	dataLogicalEOF, _ := codec.Uint32(payload, 26)
	dataPhysicalEOF, _ := codec.Uint32(payload, 30)
	rsrcLogicalEOF, _ := codec.Uint32(payload, 36)
	rsrcPhysicalEOF, _ := codec.Uint32(payload, 40)
	createDate, _ := codec.Uint32(payload, 44)
	contentMod, _ := codec.Uint32(payload, 48)
	backupDate, _ := codec.Uint32(payload, 52)
	clumpSize16, _ := codec.Uint16(payload, 72)

	rec.Flags = flags
	rec.FileID = types.Cnid(fileID)
	rec.CreateDate = createDate
	rec.ContentMod = contentMod
	rec.BackupDate = backupDate
	copy(rec.FinderInfo[:], payload[56:72])

	dataExtents, err := parseHFSExtentTriple(payload[74:86])
	if err != nil {
		return rec, err
	}
	rsrcExtents, err := parseHFSExtentTriple(payload[86:98])
	if err != nil {
		return rec, err
	}
	rec.DataFork = forkFromTriple(dataExtents, uint64(dataLogicalEOF), uint32(dataPhysicalEOF), uint32(clumpSize16))
	rec.ResourceFork = forkFromTriple(rsrcExtents, uint64(rsrcLogicalEOF), uint32(rsrcPhysicalEOF), uint32(clumpSize16))
	return rec, nil
}

// parseThreadRec decodes a thread record payload: the child's parent
// CNID and its own name, forming the inverse edge path reconstruction
// chases upward (spec.md §4.7).
func parseThreadRec(payload []byte, hfsPlus bool) (types.CatalogThreadRec, error) {
	var t types.CatalogThreadRec
	if hfsPlus {
		if len(payload) < 8 {
			return t, fmt.Errorf("hfs+ thread record needs 8 bytes, got %d", len(payload))
		}
		parentID, err := codec.Uint32(payload, 4)
		if err != nil {
			return t, err
		}
		// nodeName (HFSUniStr255) begins at offset 8: length u16 then units.
		nameLen, err := codec.Uint16(payload, 8)
		if err != nil {
			return t, err
		}
		nameBytes := payload[10 : 10+int(nameLen)*2]
		name, err := hfsPlusNameFromBytes(nameBytes)
		if err != nil {
			return t, err
		}
		t.ParentID = types.Cnid(parentID)
		t.NodeName = name
		return t, nil
	}

	if len(payload) < 15 {
		return t, fmt.Errorf("hfs thread record needs 15 bytes, got %d", len(payload))
	}
	parentID, err := codec.Uint32(payload, 10)
	if err != nil {
		return t, err
	}
	name, err := hfsNameFromPascal(payload[14:])
	if err != nil {
		return t, err
	}
	t.ParentID = types.Cnid(parentID)
	t.NodeName = name
	return t, nil
}

func parseHFSPlusForkData(buf []byte) (types.ForkDescriptor, error) {
	logicalSize, err := codec.Uint64(buf, 0)
	if err != nil {
		return types.ForkDescriptor{}, err
	}
	clumpSize, err := codec.Uint32(buf, 8)
	if err != nil {
		return types.ForkDescriptor{}, err
	}
	totalBlocks, err := codec.Uint32(buf, 12)
	if err != nil {
		return types.ForkDescriptor{}, err
	}
	extents := make([]types.Extent, types.HfsPlusExtentCount)
	for i := 0; i < types.HfsPlusExtentCount; i++ {
		off := 16 + i*8
		start, e1 := codec.Uint32(buf, off)
		count, e2 := codec.Uint32(buf, off+4)
		if e1 != nil {
			return types.ForkDescriptor{}, e1
		}
		if e2 != nil {
			return types.ForkDescriptor{}, e2
		}
		extents[i] = types.Extent{StartBlock: start, BlockCount: count}
	}
	return types.ForkDescriptor{LogicalSize: logicalSize, ClumpSize: clumpSize, TotalBlocks: totalBlocks, Extents: extents}, nil
}

func parseHFSExtentTriple(buf []byte) ([]types.Extent, error) {
	if len(buf) < 12 {
		return nil, fmt.Errorf("extent triple needs 12 bytes, got %d", len(buf))
	}
	extents := make([]types.Extent, types.HfsExtentCount)
	for i := 0; i < types.HfsExtentCount; i++ {
		off := i * 4
		start, err := codec.Uint16(buf, off)
		if err != nil {
			return nil, err
		}
		count, err := codec.Uint16(buf, off+2)
		if err != nil {
			return nil, err
		}
		extents[i] = types.Extent{StartBlock: uint32(start), BlockCount: uint32(count)}
	}
	return extents, nil
}

func forkFromTriple(extents []types.Extent, logicalSize uint64, physicalSize uint32, clumpSize uint32) types.ForkDescriptor {
	var blocks uint32
	for _, e := range extents {
		blocks += e.BlockCount
	}
	return types.ForkDescriptor{LogicalSize: logicalSize, ClumpSize: clumpSize, TotalBlocks: blocks, Extents: extents}
}

func hfsNameFromPascal(data []byte) (string, error) {
	return textdecode.PascalToUnicode(data, textdecode.MacRoman)
}

func hfsPlusNameFromBytes(data []byte) (string, error) {
	return textdecode.HFSUniStr255ToUnicode(data)
}

// parsePayload dispatches a catalog record's payload to the matching
// parser, returning whichever of the three shapes matched.
func parsePayload(payload []byte, hfsPlus bool) (kind types.CatalogRecordType, folder types.CatalogFolderRec, file types.CatalogFileRec, thread types.CatalogThreadRec, err error) {
	kind, err = recordType(payload)
	if err != nil {
		return
	}
	switch kind {
	case types.RecordTypeFolder:
		folder, err = parseFolderRec(payload, hfsPlus)
	case types.RecordTypeFile:
		file, err = parseFileRec(payload, hfsPlus)
	case types.RecordTypeFolderThread, types.RecordTypeFileThread:
		thread, err = parseThreadRec(payload, hfsPlus)
	default:
		err = hfserr.New(hfserr.CorruptNode, "parsePayload", fmt.Errorf("unknown catalog record type %d", kind))
	}
	return
}
