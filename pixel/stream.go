package pixel

import (
	"fmt"
	"image/color"
)

// Stream is a forward-only sequence of pixels in raster order. It is not
// safe for concurrent use. Decode the same Image again to start over.
type Stream struct {
	r         *sampleReader
	palette   *palette
	assembler *assembler

	total     int
	remaining int

	window [4]uint16
	pixel  color.NRGBA
}

// Decode validates m and returns a Stream of its pixels. If the returned
// error is nil the stream yields exactly m.Width*m.Height pixels.
func Decode(m *Image) (*Stream, error) {
	if err := m.validate(); err != nil {
		return nil, err
	}

	s := &Stream{
		total: m.Width * m.Height,
	}
	s.remaining = s.total

	if m.Palette != nil {
		if m.Depth > 8 {
			return nil, fmt.Errorf("%w: indexed images cannot have %d bit samples", ErrUnsupportedPaletteFormat, m.Depth)
		}
		p, err := newPalette(m.Palette)
		if err != nil {
			return nil, err
		}
		if err := p.checkAll(m); err != nil {
			return nil, err
		}
		if s.r, err = newSampleReader(m, 1); err != nil {
			return nil, err
		}
		s.palette = p
		return s, nil
	}

	a, err := newAssembler(m)
	if err != nil {
		return nil, err
	}
	if s.r, err = newSampleReader(m, a.layout.samples()); err != nil {
		return nil, err
	}
	s.assembler = a

	return s, nil
}

// Next advances to the next pixel, which is then available through Pixel.
// It returns false when the stream is exhausted.
func (s *Stream) Next() bool {
	if s.remaining == 0 {
		return false
	}
	s.remaining--

	if s.palette != nil {
		s.pixel = s.palette.colors[s.r.next()]
		return true
	}

	n := s.assembler.layout.samples()
	for i := 0; i < n; i++ {
		s.window[i] = s.r.next()
	}
	s.pixel = s.assembler.assemble(&s.window)

	return true
}

// Pixel returns the pixel produced by the most recent call to Next.
func (s *Stream) Pixel() color.NRGBA {
	return s.pixel
}

// Len returns the total number of pixels in the stream.
func (s *Stream) Len() int {
	return s.total
}

// Remaining returns the number of pixels not yet produced.
func (s *Stream) Remaining() int {
	return s.remaining
}
