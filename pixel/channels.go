package pixel

import (
	"fmt"
	"image/color"
)

// layout is the interleaving of samples within a non-indexed pixel.
type layout int

const (
	layoutGray layout = iota + 1
	layoutGrayAlpha
	layoutRGB
	layoutRGBA
)

func layoutFor(channels int) (layout, error) {
	switch channels {
	case 1:
		return layoutGray, nil
	case 2:
		return layoutGrayAlpha, nil
	case 3:
		return layoutRGB, nil
	case 4:
		return layoutRGBA, nil
	}
	return 0, fmt.Errorf("%w: %d", ErrUnsupportedChannelCount, channels)
}

func (l layout) samples() int {
	return int(l)
}

// keyed returns the transparency key that applies to the layout, if any.
// Keys that are too short are ignored, as are keys on layouts that carry
// their own alpha.
func (l layout) key(transparency []uint16) ([3]uint16, bool) {
	var k [3]uint16
	switch l {
	case layoutGray:
		if len(transparency) < 1 {
			return k, false
		}
		k[0] = transparency[0]
	case layoutRGB:
		if len(transparency) < 3 {
			return k, false
		}
		copy(k[:], transparency[:3])
	default:
		return k, false
	}
	return k, true
}

type assembler struct {
	layout layout
	depth  int
	key    [3]uint16
	keyed  bool
}

func newAssembler(m *Image) (*assembler, error) {
	l, err := layoutFor(m.Channels)
	if err != nil {
		return nil, err
	}
	a := &assembler{
		layout: l,
		depth:  m.Depth,
	}
	a.key, a.keyed = l.key(m.Transparency)
	return a, nil
}

// assemble builds one pixel from s, which holds layout.samples() raw
// samples. Transparency keys are matched before rescaling.
func (a *assembler) assemble(s *[4]uint16) color.NRGBA {
	switch a.layout {
	case layoutGray:
		y := ToByte(s[0], a.depth)
		c := color.NRGBA{y, y, y, 0xff}
		if a.keyed && s[0] == a.key[0] {
			c.A = 0
		}
		return c
	case layoutGrayAlpha:
		y := ToByte(s[0], a.depth)
		return color.NRGBA{y, y, y, ToByte(s[1], a.depth)}
	case layoutRGB:
		c := color.NRGBA{
			ToByte(s[0], a.depth),
			ToByte(s[1], a.depth),
			ToByte(s[2], a.depth),
			0xff,
		}
		if a.keyed && s[0] == a.key[0] && s[1] == a.key[1] && s[2] == a.key[2] {
			c.A = 0
		}
		return c
	case layoutRGBA:
		return color.NRGBA{
			ToByte(s[0], a.depth),
			ToByte(s[1], a.depth),
			ToByte(s[2], a.depth),
			ToByte(s[3], a.depth),
		}
	}
	panic("pixel: unreachable layout")
}
