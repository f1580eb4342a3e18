package swatch

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sort"

	"github.com/bodgit/swatch/pixel"
	"github.com/ericpauley/go-quantize/quantize"
)

// DefaultColors is the number of colors extracted when not specified.
const DefaultColors = 8

// ErrNoOpaquePixels is returned when an image has no fully opaque pixels
var ErrNoOpaquePixels = errors.New("swatch: no opaque pixels")

// Options controls color extraction.
type Options struct {
	// Colors is the maximum number of colors returned
	Colors int
	// MaxPixels stops reading the image after this many opaque pixels,
	// zero reads them all
	MaxPixels int
}

// Color is an extracted color and the number of sampled pixels closest to
// it.
type Color struct {
	color.NRGBA
	Population int
}

// ARGB packs the color into a 32-bit integer, alpha in the top byte.
func (c Color) ARGB() uint32 {
	return uint32(c.A)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// Hex returns the color as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func fromARGB(v uint32) color.NRGBA {
	return color.NRGBA{byte(v >> 16), byte(v >> 8), byte(v), byte(v >> 24)}
}

// ExtractImage decodes m and extracts its dominant colors.
func ExtractImage(m *pixel.Image, options Options) ([]Color, error) {
	s, err := pixel.Decode(m)
	if err != nil {
		return nil, err
	}
	return Extract(s, options)
}

// Extract pulls the opaque pixels from s and quantizes them into at most
// options.Colors colors, most common first.
func Extract(s *pixel.Stream, options Options) ([]Color, error) {
	n := options.Colors
	if n <= 0 {
		n = DefaultColors
	}

	var pix []byte
	for s.Next() {
		p := s.Pixel()
		if p.A != 0xff {
			continue
		}
		pix = append(pix, p.R, p.G, p.B, p.A)
		if options.MaxPixels > 0 && len(pix)>>2 == options.MaxPixels {
			break
		}
	}

	count := len(pix) >> 2
	if count == 0 {
		return nil, ErrNoOpaquePixels
	}

	// Lay the samples out as a single row image for the quantizer
	m := &image.NRGBA{
		Pix:    pix,
		Stride: len(pix),
		Rect:   image.Rect(0, 0, count, 1),
	}

	q := quantize.MedianCutQuantizer{}
	p := q.Quantize(make(color.Palette, 0, n), m)

	colors := make([]Color, len(p))
	for i, c := range p {
		colors[i].NRGBA = color.NRGBAModel.Convert(c).(color.NRGBA)
	}
	for x := 0; x < count; x++ {
		colors[p.Index(m.NRGBAAt(x, 0))].Population++
	}

	sort.SliceStable(colors, func(i, j int) bool {
		return colors[i].Population > colors[j].Population
	})

	// Drop any colors nothing mapped to
	for len(colors) > 0 && colors[len(colors)-1].Population == 0 {
		colors = colors[:len(colors)-1]
	}

	return colors, nil
}
