/*
Package pixel implements a bit-depth agnostic sample decoder.

An Image holds the raw samples of an already parsed raster image; width,
height, channel count and bit depth plus an optional palette and
transparency key. Decode validates the record and returns a Stream that
yields one non-premultiplied 8-bit RGBA pixel at a time in raster order.

Samples of 1, 2 or 4 bits are packed most significant bit first and every
row starts on a byte boundary. 16-bit samples are stored big-endian in Data
unless already widened into Wide.
*/
package pixel

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrMissingPalette is returned when an indexed image has an empty palette
	ErrMissingPalette = errors.New("pixel: missing palette")
	// ErrUnsupportedPaletteFormat is returned when palette entries are not
	// all 3 or all 4 bytes wide
	ErrUnsupportedPaletteFormat = errors.New("pixel: unsupported palette format")
	// ErrIndexOutOfRange is returned when a palette index has no entry
	ErrIndexOutOfRange = errors.New("pixel: palette index out of range")
	// ErrTruncatedData is returned when there are not enough samples
	ErrTruncatedData = errors.New("pixel: truncated data")
	// ErrUnsupportedChannelCount is returned for channel counts outside 1-4
	ErrUnsupportedChannelCount = errors.New("pixel: unsupported channel count")
	// ErrUnsupportedDepth is returned for bit depths other than 1, 2, 4, 8 and 16
	ErrUnsupportedDepth = errors.New("pixel: unsupported bit depth")
	// ErrInvalidDimensions is returned when width or height is not positive
	ErrInvalidDimensions = errors.New("pixel: invalid dimensions")
)

// Image is a decoded image record. It is never modified by this package.
type Image struct {
	Width    int
	Height   int
	Channels int
	Depth    int

	// Data holds the samples, each row padded to a whole number of bytes
	Data []byte

	// Wide optionally holds 16-bit samples already in native form; when
	// set and Depth is 16 it is used instead of Data
	Wide []uint16

	// Palette entries are either all 3 (RGB) or all 4 (RGBA) bytes
	Palette [][]byte

	// Transparency is a native depth key color for images without an
	// alpha channel; one component for gray, three for truecolor
	Transparency []uint16
}

func validDepth(depth int) bool {
	switch depth {
	case 1, 2, 4, 8, 16:
		return true
	}
	return false
}

func (m *Image) validate() error {
	if m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, m.Width, m.Height)
	}
	if m.Width > math.MaxInt/m.Height {
		return fmt.Errorf("%w: %dx%d pixels overflow", ErrInvalidDimensions, m.Width, m.Height)
	}
	if !validDepth(m.Depth) {
		return fmt.Errorf("%w: %d", ErrUnsupportedDepth, m.Depth)
	}
	return nil
}
