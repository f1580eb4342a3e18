package source

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/bodgit/swatch/pixel"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pixels(t *testing.T, m *pixel.Image) []color.NRGBA {
	t.Helper()
	s, err := pixel.Decode(m)
	require.NoError(t, err)
	var out []color.NRGBA
	for s.Next() {
		out = append(out, s.Pixel())
	}
	return out
}

func encodePNG(t *testing.T, m image.Image) []byte {
	t.Helper()
	b := new(bytes.Buffer)
	require.NoError(t, png.Encode(b, m))
	return b.Bytes()
}

func TestFromImage(t *testing.T) {
	gray16 := image.NewGray16(image.Rect(0, 0, 2, 1))
	gray16.SetGray16(0, 0, color.Gray16{Y: 0xffff})
	gray16.SetGray16(1, 0, color.Gray16{Y: 0x0101})

	paletted := image.NewPaletted(image.Rect(0, 0, 2, 1), color.Palette{
		color.NRGBA{1, 2, 3, 255},
		color.NRGBA{4, 5, 6, 255},
	})
	paletted.SetColorIndex(0, 0, 1)

	translucent := image.NewPaletted(image.Rect(0, 0, 1, 1), color.Palette{
		color.NRGBA{200, 100, 50, 0},
	})

	nrgba := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	nrgba.SetNRGBA(1, 0, color.NRGBA{9, 8, 7, 6})

	rgba := image.NewRGBA(image.Rect(0, 0, 1, 1))
	rgba.SetRGBA(0, 0, color.RGBA{10, 20, 30, 255})

	tables := []struct {
		name     string
		m        image.Image
		channels int
		depth    int
		want     []color.NRGBA
	}{
		{"gray16", gray16, 1, 16, []color.NRGBA{{255, 255, 255, 255}, {1, 1, 1, 255}}},
		{"paletted", paletted, 1, 8, []color.NRGBA{{4, 5, 6, 255}, {1, 2, 3, 255}}},
		{"translucent", translucent, 1, 8, []color.NRGBA{{200, 100, 50, 0}}},
		{"nrgba", nrgba, 4, 8, []color.NRGBA{{0, 0, 0, 0}, {9, 8, 7, 6}}},
		{"rgba", rgba, 4, 8, []color.NRGBA{{10, 20, 30, 255}}},
	}
	for _, table := range tables {
		table := table
		t.Run(table.name, func(t *testing.T) {
			m := FromImage(table.m)
			assert.Equal(t, table.channels, m.Channels)
			assert.Equal(t, table.depth, m.Depth)
			assert.Equal(t, table.want, pixels(t, m))
		})
	}
}

func TestFromImagePaletteWidth(t *testing.T) {
	opaque := image.NewPaletted(image.Rect(0, 0, 1, 1), color.Palette{color.Black})
	assert.Len(t, FromImage(opaque).Palette[0], 3)

	transparent := image.NewPaletted(image.Rect(0, 0, 1, 1), color.Palette{color.Transparent})
	assert.Len(t, FromImage(transparent).Palette[0], 4)
}

func TestFromImageSubImage(t *testing.T) {
	m := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range m.Pix {
		m.Pix[i] = uint8(i)
	}
	sub := m.SubImage(image.Rect(1, 1, 3, 3))

	record := FromImage(sub)
	assert.Equal(t, []byte{5, 6, 9, 10}, record.Data)
}

func TestRead(t *testing.T) {
	m := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	m.SetNRGBA(1, 1, color.NRGBA{255, 0, 0, 255})
	b := encodePNG(t, m)

	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	compressed := enc.EncodeAll(b, nil)
	require.NoError(t, enc.Close())

	for name, in := range map[string][]byte{"plain": b, "zstd": compressed} {
		in := in
		t.Run(name, func(t *testing.T) {
			record, format, err := Read(bytes.NewReader(in))
			require.NoError(t, err)
			assert.Equal(t, "png", format)
			p := pixels(t, record)
			require.Len(t, p, 4)
			assert.Equal(t, color.NRGBA{255, 0, 0, 255}, p[3])
		})
	}
}

func TestReadGarbage(t *testing.T) {
	_, _, err := Read(bytes.NewReader([]byte("not an image")))
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "test.png")
	require.NoError(t, os.WriteFile(file, encodePNG(t, image.NewGray(image.Rect(0, 0, 3, 3))), 0o644))

	f, err := Open(file)
	require.NoError(t, err)
	assert.Equal(t, "png", f.Format)
	assert.Len(t, f.SHA1, 40)
	assert.Equal(t, 3, f.Image.Width)

	again, err := Open(file)
	require.NoError(t, err)
	assert.Equal(t, f.SHA1, again.SHA1)

	_, err = Open(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("a.PNG"))
	assert.True(t, Supported("a.webp"))
	assert.True(t, Supported("a.png.zst"))
	assert.False(t, Supported("a.zst"))
	assert.False(t, Supported("a.cue"))
}
