// Package device implements the random-access block device reader (C2):
// length-bounded reads against a raw device or disk image, offset-shifted
// by the volume's start offset within the underlying handle.
package device

import (
	"fmt"
	"io"

	"github.com/deploymenttheory/hfsx/internal/hfserr"
	"github.com/deploymenttheory/hfsx/internal/types"
)

// Reader is a random-access reader over a seekable handle, shifted by a
// volume's StartOffset. It is the sole I/O surface the rest of the core
// depends on; orchestration owns the underlying handle for the duration
// of an operation (spec.md §3 "Ownership").
type Reader struct {
	ra             io.ReaderAt
	startOffset    int64
	allocBlockSize uint32
	size           int64
}

// New wraps an io.ReaderAt as a block device reader for a volume located
// at startOffset bytes into the handle, with the given allocation block
// size. size, if known, bounds every read to the device (a read past it
// fails with DeviceIo); pass 0 when unknown.
func New(ra io.ReaderAt, startOffset int64, allocBlockSize uint32, size int64) *Reader {
	return &Reader{ra: ra, startOffset: startOffset, allocBlockSize: allocBlockSize, size: size}
}

// ReadBlocks reads count*allocBlockSize bytes beginning at
// startOffset + firstAllocBlock*allocBlockSize (spec.md §4.1).
func (r *Reader) ReadBlocks(firstAllocBlock uint32, count uint32) ([]byte, error) {
	length := int64(count) * int64(r.allocBlockSize)
	offset := r.startOffset + int64(firstAllocBlock)*int64(r.allocBlockSize)
	return r.readAt(offset, length)
}

// ReadExtentRange synthesizes a contiguous slice of length bytes starting
// at firstByte bytes into the logical byte stream described by extents,
// translating through the extent list (spec.md §4.1).
func (r *Reader) ReadExtentRange(extents []types.Extent, firstByte int64, length int64) ([]byte, error) {
	var total int64
	for _, e := range extents {
		total += int64(e.BlockCount) * int64(r.allocBlockSize)
	}
	if firstByte < 0 || firstByte+length > total {
		return nil, hfserr.New(hfserr.OutOfRange, "ReadExtentRange", fmt.Errorf("range [%d,%d) exceeds extent coverage %d", firstByte, firstByte+length, total))
	}

	out := make([]byte, 0, length)
	var consumed int64 // logical bytes consumed so far, across extents already passed
	remaining := length
	skip := firstByte

	for _, e := range extents {
		extentBytes := int64(e.BlockCount) * int64(r.allocBlockSize)
		if skip >= extentBytes {
			skip -= extentBytes
			consumed += extentBytes
			continue
		}
		readStart := int64(e.StartBlock)*int64(r.allocBlockSize) + skip
		readLen := extentBytes - skip
		if readLen > remaining {
			readLen = remaining
		}
		chunk, err := r.readAt(r.startOffset+readStart, readLen)
		if err != nil {
			return nil, err
		}
		out = append(out, chunk...)
		remaining -= readLen
		skip = 0
		if remaining == 0 {
			break
		}
	}
	if remaining > 0 {
		return nil, hfserr.New(hfserr.DeviceIo, "ReadExtentRange", fmt.Errorf("%d bytes short of requested %d", remaining, length))
	}
	return out, nil
}

func (r *Reader) readAt(offset, length int64) ([]byte, error) {
	if length == 0 {
		return nil, nil
	}
	if r.size > 0 && offset+length > r.startOffset+r.size {
		return nil, hfserr.New(hfserr.DeviceIo, "readAt", fmt.Errorf("read [%d,%d) exceeds device bounds", offset, offset+length))
	}
	buf := make([]byte, length)
	n, err := r.ra.ReadAt(buf, offset)
	if err != nil && err != io.EOF {
		return nil, hfserr.New(hfserr.DeviceIo, "readAt", err)
	}
	if int64(n) < length {
		return nil, hfserr.New(hfserr.DeviceIo, "readAt", fmt.Errorf("short read: got %d of %d bytes", n, length))
	}
	return buf, nil
}

// ReadExtentRangeRaw512 reads length bytes starting at start512*512 bytes
// into the volume (not scaled by the volume's allocation block size).
// HFS's allocation bitmap is addressed in fixed 512-byte blocks
// (drVBMSt), independent of drAlBlkSiz, unlike every other fork on the
// volume.
func (r *Reader) ReadExtentRangeRaw512(start512 uint32, length int64) ([]byte, error) {
	offset := r.startOffset + int64(start512)*512
	return r.readAt(offset, length)
}

// AllocBlockSize returns the reader's configured allocation block size.
func (r *Reader) AllocBlockSize() uint32 { return r.allocBlockSize }

// StartOffset returns the reader's configured volume start offset.
func (r *Reader) StartOffset() int64 { return r.startOffset }
