// Package textdecode converts the two on-disk name encodings HFS and
// HFS+ use — MacRoman Pascal strings and UTF-16BE HFSUniStr255 — into
// Unicode strings suitable for display and for constructing descent
// quarry keys (spec.md §4.8).
package textdecode

import (
	"fmt"
	"unicode/utf16"

	"github.com/deploymenttheory/hfsx/internal/codec"
	"github.com/deploymenttheory/hfsx/internal/hfserr"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// SourceEncoding names the single-byte Mac script a Pascal string is
// encoded in. Only MacRoman is supported; other Mac scripts map to the
// same charmap.Macintosh table here since the core never sees volumes
// created under other scripts in the field this tool targets.
type SourceEncoding int

const (
	MacRoman SourceEncoding = iota
)

// paddingUnits bounds the estimation contract from spec.md §4.8: the
// caller may assume 2x input length plus padding is enough; decoding
// fails with OutputTooSmall rather than silently truncating.
const paddingUnits = 4

// PascalToUnicode decodes a length-prefixed Pascal string (the first byte
// is the length, followed by that many MacRoman bytes) into a Unicode
// string, canonically decomposed per the HFS+ decomposition rules (i.e.
// NFD), so that the output is directly comparable against HFS+ catalog
// names without a further normalization pass.
func PascalToUnicode(data []byte, enc SourceEncoding) (string, error) {
	if len(data) == 0 {
		return "", hfserr.New(hfserr.OutputTooSmall, "PascalToUnicode", fmt.Errorf("empty input"))
	}
	n := int(data[0])
	if 1+n > len(data) {
		return "", hfserr.New(hfserr.OutputTooSmall, "PascalToUnicode", fmt.Errorf("pascal length %d exceeds buffer (%d bytes)", n, len(data)-1))
	}
	raw := data[1 : 1+n]
	maxUnits := 2*len(raw) + paddingUnits

	decoded, err := macRomanDecoder().Bytes(raw)
	if err != nil {
		return "", hfserr.New(hfserr.OutputTooSmall, "PascalToUnicode", err)
	}

	result := norm.NFD.String(string(decoded))
	if len(utf16.Encode([]rune(result))) > maxUnits {
		return "", hfserr.New(hfserr.OutputTooSmall, "PascalToUnicode", fmt.Errorf("decomposition of %d-byte name exceeds %d-unit bound", len(raw), maxUnits))
	}
	return result, nil
}

// RecomposeMacRoman reverses PascalToUnicode's decomposition step (NFC),
// then re-encodes to MacRoman bytes. Used by the round-trip property test
// (spec.md §8 property 7); the catalog's descent comparators do not call
// it.
func RecomposeMacRoman(s string) ([]byte, error) {
	composed := norm.NFC.String(s)
	encoded, err := macRomanEncoder().Bytes([]byte(composed))
	if err != nil {
		return nil, hfserr.New(hfserr.OutputTooSmall, "RecomposeMacRoman", err)
	}
	return encoded, nil
}

func macRomanDecoder() *decoderWrapper { return &decoderWrapper{} }
func macRomanEncoder() *encoderWrapper { return &encoderWrapper{} }

type decoderWrapper struct{}

func (decoderWrapper) Bytes(b []byte) ([]byte, error) {
	return charmap.Macintosh.NewDecoder().Bytes(b)
}

type encoderWrapper struct{}

func (encoderWrapper) Bytes(b []byte) ([]byte, error) {
	return charmap.Macintosh.NewEncoder().Bytes(b)
}

// HFSUniStr255ToUnicode byte-swaps a big-endian UTF-16 code-unit sequence
// (as stored in an HFSUniStr255 field) and interprets it as Unicode
// without further normalization — HFS+ already stores names canonically
// decomposed on disk.
func HFSUniStr255ToUnicode(data []byte) (string, error) {
	units, err := codec.SwapUTF16BE(data)
	if err != nil {
		return "", hfserr.New(hfserr.OutputTooSmall, "HFSUniStr255ToUnicode", err)
	}
	return string(utf16.Decode(units)), nil
}

// UnicodeToHFSUniStr255 converts a Unicode string into a big-endian
// UTF-16 byte sequence, for constructing HFS+ descent quarry keys from a
// CLI-supplied path component.
func UnicodeToHFSUniStr255(s string) []byte {
	units := utf16.Encode([]rune(s))
	out := make([]byte, len(units)*2)
	for i, u := range units {
		codec.Endian.PutUint16(out[i*2:i*2+2], u)
	}
	return out
}
