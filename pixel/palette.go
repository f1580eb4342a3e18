package pixel

import (
	"fmt"
	"image/color"
)

type palette struct {
	colors []color.NRGBA
}

func newPalette(entries [][]byte) (*palette, error) {
	if len(entries) == 0 {
		return nil, ErrMissingPalette
	}

	width := len(entries[0])
	if width != 3 && width != 4 {
		return nil, fmt.Errorf("%w: %d byte entries", ErrUnsupportedPaletteFormat, width)
	}

	p := &palette{
		colors: make([]color.NRGBA, len(entries)),
	}
	for i, e := range entries {
		if len(e) != width {
			return nil, fmt.Errorf("%w: entry %d is %d bytes, expected %d", ErrUnsupportedPaletteFormat, i, len(e), width)
		}
		p.colors[i] = color.NRGBA{e[0], e[1], e[2], 0xff}
		if width == 4 {
			p.colors[i].A = e[3]
		}
	}
	return p, nil
}

func (p *palette) check(index uint16) error {
	if int(index) >= len(p.colors) {
		return fmt.Errorf("%w: index %d, palette has %d entries", ErrIndexOutOfRange, index, len(p.colors))
	}
	return nil
}

// Scan every index up front so a bad one fails before any pixel is
// produced.
func (p *palette) checkAll(m *Image) error {
	r, err := newSampleReader(m, 1)
	if err != nil {
		return err
	}
	for i := m.Width * m.Height; i > 0; i-- {
		if err := p.check(r.next()); err != nil {
			return err
		}
	}
	return nil
}
