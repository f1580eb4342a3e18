/*
Package source produces pixel.Image records from image files.

Files are decoded with the image formats registered with the standard
library (PNG, GIF, JPEG) and golang.org/x/image (BMP, TIFF, WebP). Input
compressed with zstd is decompressed transparently. Where Go keeps the
native layout of the decoded image, such as palettes, 16-bit samples or
grayscale, it is passed through rather than converted.
*/
package source

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // register GIF
	_ "image/jpeg" // register JPEG
	_ "image/png"  // register PNG
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/swatch/pixel"
	"github.com/klauspost/compress/zstd"
	_ "golang.org/x/image/bmp"  // register BMP
	_ "golang.org/x/image/tiff" // register TIFF
	_ "golang.org/x/image/webp" // register WebP
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// File is an image read from disk.
type File struct {
	Image  *pixel.Image
	Format string
	// SHA1 is the uppercase hex digest of the file as stored on disk
	SHA1 string
}

// Supported reports whether the filename has an extension this package
// is able to decode.
func Supported(file string) bool {
	ext := strings.ToLower(filepath.Ext(file))
	if ext == ".zst" {
		ext = strings.ToLower(filepath.Ext(strings.TrimSuffix(file, filepath.Ext(file))))
	}
	switch ext {
	case ".png", ".gif", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff", ".webp":
		return true
	}
	return false
}

// Open reads and decodes the named file.
func Open(file string) (*File, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h := sha1.New()
	tee := io.TeeReader(f, h)

	m, format, err := Read(tee)
	if err != nil {
		return nil, err
	}

	// Decoders may stop before EOF, hash the remainder
	if _, err := io.Copy(io.Discard, tee); err != nil {
		return nil, err
	}

	return &File{
		Image:  m,
		Format: format,
		SHA1:   fmt.Sprintf("%X", h.Sum(nil)),
	}, nil
}

// Read decodes an image from r, decompressing it first if it is zstd
// framed. It returns the record and the name of the image format.
func Read(r io.Reader) (*pixel.Image, string, error) {
	br := bufio.NewReader(r)

	magic, err := br.Peek(len(zstdMagic))
	if err != nil && err != io.EOF {
		return nil, "", err
	}

	var in io.Reader = br
	if bytes.Equal(magic, zstdMagic) {
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, "", err
		}
		defer zr.Close()
		in = zr
	}

	m, format, err := image.Decode(in)
	if err != nil {
		return nil, "", err
	}

	return FromImage(m), format, nil
}

// compact returns the height rows of rowBytes each starting at offset off
// in pix, dropping any stride padding.
func compact(pix []byte, off, stride, rowBytes, height int) []byte {
	if stride == rowBytes {
		return pix[off : off+rowBytes*height]
	}
	b := make([]byte, 0, rowBytes*height)
	for y := 0; y < height; y++ {
		start := off + y*stride
		b = append(b, pix[start:start+rowBytes]...)
	}
	return b
}

func fromPaletted(m *image.Paletted) *pixel.Image {
	b := m.Bounds()

	opaque := true
	colors := make([]color.NRGBA, len(m.Palette))
	for i, c := range m.Palette {
		colors[i] = color.NRGBAModel.Convert(c).(color.NRGBA)
		if colors[i].A != 0xff {
			opaque = false
		}
	}

	palette := make([][]byte, len(colors))
	for i, c := range colors {
		if opaque {
			palette[i] = []byte{c.R, c.G, c.B}
		} else {
			palette[i] = []byte{c.R, c.G, c.B, c.A}
		}
	}

	return &pixel.Image{
		Width:    b.Dx(),
		Height:   b.Dy(),
		Channels: 1,
		Depth:    8,
		Data:     compact(m.Pix, m.PixOffset(b.Min.X, b.Min.Y), m.Stride, b.Dx(), b.Dy()),
		Palette:  palette,
	}
}

// FromImage maps m onto a pixel.Image, keeping its native sample layout
// where possible. Pixel data may be shared with m.
func FromImage(m image.Image) *pixel.Image {
	b := m.Bounds()
	w, h := b.Dx(), b.Dy()

	record := func(channels, depth int, data []byte) *pixel.Image {
		return &pixel.Image{
			Width:    w,
			Height:   h,
			Channels: channels,
			Depth:    depth,
			Data:     data,
		}
	}

	if w <= 0 || h <= 0 {
		return record(4, 8, nil)
	}

	switch m := m.(type) {
	case *image.Paletted:
		return fromPaletted(m)
	case *image.Gray:
		return record(1, 8, compact(m.Pix, m.PixOffset(b.Min.X, b.Min.Y), m.Stride, w, h))
	case *image.Gray16:
		return record(1, 16, compact(m.Pix, m.PixOffset(b.Min.X, b.Min.Y), m.Stride, w*2, h))
	case *image.NRGBA:
		return record(4, 8, compact(m.Pix, m.PixOffset(b.Min.X, b.Min.Y), m.Stride, w*4, h))
	case *image.NRGBA64:
		return record(4, 16, compact(m.Pix, m.PixOffset(b.Min.X, b.Min.Y), m.Stride, w*8, h))
	}

	data := make([]byte, 0, w*h*4)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA)
			data = append(data, c.R, c.G, c.B, c.A)
		}
	}
	return record(4, 8, data)
}
