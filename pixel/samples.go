package pixel

import (
	"encoding/binary"
	"fmt"
	"math"
)

// ToByte rescales a sample of the given bit depth onto 0-255.
func ToByte(v uint16, depth int) uint8 {
	switch depth {
	case 8:
		return uint8(v)
	case 16:
		return uint8((uint32(v) + 128) / 257)
	}
	top := uint32(1)<<uint(depth) - 1
	return uint8((uint32(v)*255 + top/2) / top)
}

// Stride returns the number of bytes used by one row of samples.
func Stride(width, channels, depth int) int {
	return (width*channels*depth + 7) >> 3
}

type sampleReader struct {
	data   []byte
	wide   []uint16
	depth  int
	mask   byte
	stride int // in bytes, or elements for wide
	perRow int

	row int
	col int
	off int

	// Bit cursor for sub-byte depths, reset on every row
	cur  byte
	bits int
}

func newSampleReader(m *Image, perPixel int) (*sampleReader, error) {
	if m.Width > (math.MaxInt-7)/(perPixel*m.Depth) {
		return nil, fmt.Errorf("%w: %d pixel rows overflow", ErrInvalidDimensions, m.Width)
	}

	r := &sampleReader{
		data:   m.Data,
		depth:  m.Depth,
		mask:   byte(1<<uint(m.Depth%8) - 1),
		perRow: m.Width * perPixel,
	}

	var have int
	if m.Depth == 16 && m.Wide != nil {
		r.data, r.wide = nil, m.Wide
		r.stride = r.perRow
		have = len(m.Wide)
	} else {
		r.stride = Stride(m.Width, perPixel, m.Depth)
		have = len(m.Data)
	}

	// Compare by division, stride*height may not fit in an int
	if m.Height > have/r.stride {
		unit := "bytes"
		if r.wide != nil {
			unit = "samples"
		}
		return nil, fmt.Errorf("%w: expected %d rows of %d %s, got %d", ErrTruncatedData, m.Height, r.stride, unit, have)
	}

	return r, nil
}

// next returns the next raw sample. The caller guarantees it never reads
// past width*height*perPixel samples.
func (r *sampleReader) next() uint16 {
	if r.col == r.perRow {
		r.row++
		r.col = 0
		r.off = r.row * r.stride
		r.bits = 0
	}
	r.col++

	switch {
	case r.wide != nil:
		v := r.wide[r.off]
		r.off++
		return v
	case r.depth == 16:
		v := binary.BigEndian.Uint16(r.data[r.off:])
		r.off += 2
		return v
	case r.depth == 8:
		v := r.data[r.off]
		r.off++
		return uint16(v)
	}

	if r.bits < r.depth {
		r.cur = r.data[r.off]
		r.off++
		r.bits = 8
	}
	r.bits -= r.depth
	return uint16(r.cur >> uint(r.bits) & r.mask)
}
