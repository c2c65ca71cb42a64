// Package codec decodes the big-endian primitive fields that every HFS
// and HFS+ on-disk structure is built from, plus the handful of
// conversions (Mac timestamps, UTF-16BE swap) that recur across them.
package codec

import (
	"encoding/binary"
	"fmt"
	"time"
)

// Endian is the byte order of every multi-byte field on an HFS or HFS+
// volume: big-endian, always. Kept as a value (rather than hardcoding
// binary.BigEndian at each call site) to match the teacher's practice of
// threading an explicit binary.ByteOrder through every parse function.
var Endian = binary.BigEndian

// Uint16 decodes a big-endian uint16, returning an error instead of
// panicking when data is short — mirrors the bounds checks the teacher's
// parse functions perform before every field read.
func Uint16(data []byte, offset int) (uint16, error) {
	if offset < 0 || offset+2 > len(data) {
		return 0, fmt.Errorf("codec: uint16 at offset %d out of range (len %d)", offset, len(data))
	}
	return Endian.Uint16(data[offset : offset+2]), nil
}

// Uint32 decodes a big-endian uint32.
func Uint32(data []byte, offset int) (uint32, error) {
	if offset < 0 || offset+4 > len(data) {
		return 0, fmt.Errorf("codec: uint32 at offset %d out of range (len %d)", offset, len(data))
	}
	return Endian.Uint32(data[offset : offset+4]), nil
}

// Uint64 decodes a big-endian uint64.
func Uint64(data []byte, offset int) (uint64, error) {
	if offset < 0 || offset+8 > len(data) {
		return 0, fmt.Errorf("codec: uint64 at offset %d out of range (len %d)", offset, len(data))
	}
	return Endian.Uint64(data[offset : offset+8]), nil
}

// macEpochOffset is the number of seconds between the HFS/HFS+ epoch
// (1904-01-01 00:00:00 UTC) and the Unix epoch (1970-01-01 00:00:00 UTC).
const macEpochOffset = 2082844800

// MacTimeToUTC converts an HFS/HFS+ on-disk timestamp (seconds since
// 1904-01-01) to a UTC time.Time. A zero timestamp, meaning "unset",
// converts to the zero time.Time.
func MacTimeToUTC(t uint32) time.Time {
	if t == 0 {
		return time.Time{}
	}
	return time.Unix(int64(t)-macEpochOffset, 0).UTC()
}

// SwapUTF16BE byte-swaps a slice of big-endian UTF-16 code units read
// directly off disk into the host's native uint16 order for use with
// utf16.Decode.
func SwapUTF16BE(data []byte) ([]uint16, error) {
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("codec: odd-length UTF-16 byte slice (%d bytes)", len(data))
	}
	units := make([]uint16, len(data)/2)
	for i := range units {
		units[i] = Endian.Uint16(data[i*2 : i*2+2])
	}
	return units, nil
}
