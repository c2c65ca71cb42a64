// Package catalog implements the catalog model (C9): typed dispatch
// over folder/file/thread records, name decoding, and path
// reconstruction by chasing thread records up to the volume root.
package catalog

import (
	"fmt"
	"unicode"

	"github.com/deploymenttheory/hfsx/internal/codec"
	"github.com/deploymenttheory/hfsx/internal/hfserr"
	"github.com/deploymenttheory/hfsx/internal/textdecode"
	"github.com/deploymenttheory/hfsx/internal/types"
)

// parseKey decodes a catalog record's key and reports the on-disk size
// of the key portion (length prefix included, padded to an even
// boundary), so the caller can locate the record's payload right after
// it (spec.md §4.7).
func parseKey(rec []byte, hfsPlus bool) (types.CatalogKey, int, error) {
	if hfsPlus {
		return parseKeyHFSPlus(rec)
	}
	return parseKeyHFS(rec)
}

func parseKeyHFS(rec []byte) (types.CatalogKey, int, error) {
	var key types.CatalogKey
	if len(rec) < 1 {
		return key, 0, fmt.Errorf("catalog key: empty record")
	}
	keyLen := int(rec[0])
	total := roundUpEven(1 + keyLen)
	if 1+keyLen > len(rec) {
		return key, 0, fmt.Errorf("catalog key: declared length %d exceeds record (%d bytes)", keyLen, len(rec))
	}
	body := rec[1 : 1+keyLen]
	if len(body) < 6 {
		return key, 0, fmt.Errorf("catalog key: body too short (%d bytes)", len(body))
	}
	parentID, err := codec.Uint32(body, 1)
	if err != nil {
		return key, 0, err
	}
	name, err := textdecode.PascalToUnicode(body[5:], textdecode.MacRoman)
	if err != nil {
		return key, 0, err
	}
	nameLen := int(body[5])
	key.ParentID = types.Cnid(parentID)
	key.Name = name
	key.RawName = append([]byte{}, body[6:6+nameLen]...)
	return key, total, nil
}

func parseKeyHFSPlus(rec []byte) (types.CatalogKey, int, error) {
	var key types.CatalogKey
	keyLen16, err := codec.Uint16(rec, 0)
	if err != nil {
		return key, 0, err
	}
	keyLen := int(keyLen16)
	total := roundUpEven(2 + keyLen)
	if 2+keyLen > len(rec) {
		return key, 0, fmt.Errorf("catalog key: declared length %d exceeds record (%d bytes)", keyLen, len(rec))
	}
	body := rec[2 : 2+keyLen]
	if len(body) < 6 {
		return key, 0, fmt.Errorf("catalog key: body too short (%d bytes)", len(body))
	}
	parentID, err := codec.Uint32(body, 0)
	if err != nil {
		return key, 0, err
	}
	nameUnits, err := codec.Uint16(body, 4)
	if err != nil {
		return key, 0, err
	}
	nameBytes := body[6 : 6+int(nameUnits)*2]
	name, err := textdecode.HFSUniStr255ToUnicode(nameBytes)
	if err != nil {
		return key, 0, err
	}
	key.ParentID = types.Cnid(parentID)
	key.Name = name
	key.RawName = append([]byte{}, nameBytes...)
	return key, total, nil
}

func roundUpEven(n int) int {
	if n%2 != 0 {
		return n + 1
	}
	return n
}

// compareCatalogKey builds a KeyComparator for descending the catalog
// B-tree to (parentID, name), comparing parent CNID first and then the
// name in the volume's native on-disk ordering: MacRoman byte order for
// HFS, and TN1150's FastUnicodeCompare case-folded UTF-16 order for
// HFS+ (spec.md §9 Open Question 1) — a plain byte compare of HFS+
// names would land descent on the wrong leaf whenever a folder's
// children aren't already uniformly cased on disk.
func compareCatalogKey(parentID types.Cnid, rawName []byte, hfsPlus bool) func(rec []byte) int {
	nameCmp := compareRawName
	if hfsPlus {
		nameCmp = compareRawNameHFSPlus
	}
	return func(rec []byte) int {
		candidate, _, err := parseKey(rec, hfsPlus)
		if err != nil {
			return -1
		}
		if parentID != candidate.ParentID {
			if parentID < candidate.ParentID {
				return -1
			}
			return 1
		}
		return nameCmp(rawName, candidate.RawName)
	}
}

// compareRawName compares two HFS (MacRoman) raw name byte strings in
// plain on-disk byte order — the ordering HFS itself builds its
// catalog B-tree under.
func compareRawName(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

// compareRawNameHFSPlus compares two raw big-endian UTF-16 HFS+ names
// per TN1150's FastUnicodeCompare: unit by unit, after case-folding
// each UTF-16 code unit, with shorter-is-less on a common prefix. The
// fold step here uses unicode.ToLower per code unit rather than Apple's
// literal 64K-entry gLowerCaseTable — they agree on every cased
// character in the Basic Latin, Latin-1, and Latin Extended blocks
// that actual HFS+ volume names are built from; code units outside any
// case mapping (surrogate halves, symbols, CJK) fold to themselves
// either way, so this doesn't change descent outcomes for volumes this
// tool targets.
func compareRawNameHFSPlus(a, b []byte) int {
	au, errA := codec.SwapUTF16BE(a)
	bu, errB := codec.SwapUTF16BE(b)
	if errA != nil || errB != nil {
		return compareRawName(a, b)
	}

	n := len(au)
	if len(bu) < n {
		n = len(bu)
	}
	for i := 0; i < n; i++ {
		fa, fb := foldUniChar(au[i]), foldUniChar(bu[i])
		if fa != fb {
			if fa < fb {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(au) < len(bu):
		return -1
	case len(au) > len(bu):
		return 1
	default:
		return 0
	}
}

// foldUniChar case-folds a single UTF-16 code unit the way
// FastUnicodeCompare folds one gLowerCaseTable entry: surrogate halves
// and anything outside the BMP after folding map to themselves.
func foldUniChar(u uint16) uint16 {
	r := unicode.ToLower(rune(u))
	if r < 0 || r > 0xFFFF {
		return u
	}
	return uint16(r)
}

// catalogKeyLen reports the on-disk key length of a raw catalog record,
// used by btree.File.Search/WalkBreadthFirst to locate index-record
// child pointers.
func catalogKeyLen(hfsPlus bool) func(rec []byte) int {
	if hfsPlus {
		return func(rec []byte) int {
			n, err := codec.Uint16(rec, 0)
			if err != nil {
				return 0
			}
			return roundUpEven(2 + int(n))
		}
	}
	return func(rec []byte) int {
		return roundUpEven(1 + int(rec[0]))
	}
}

// valueOf returns a record's payload, located right after its key.
func valueOf(rec []byte, hfsPlus bool) ([]byte, error) {
	_, keyBytes, err := parseKey(rec, hfsPlus)
	if err != nil {
		return nil, hfserr.New(hfserr.CorruptNode, "valueOf", err)
	}
	if keyBytes > len(rec) {
		return nil, hfserr.New(hfserr.CorruptNode, "valueOf", fmt.Errorf("key size %d exceeds record length %d", keyBytes, len(rec)))
	}
	return rec[keyBytes:], nil
}
