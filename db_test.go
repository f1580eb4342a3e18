package swatch

import (
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDB(t *testing.T) {
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()

	colors, err := db.Lookup("DEADBEEF")
	require.NoError(t, err)
	assert.Nil(t, colors)

	want := []Color{
		{color.NRGBA{255, 0, 0, 255}, 10},
		{color.NRGBA{0, 0, 255, 255}, 4},
	}
	require.NoError(t, db.Store("DEADBEEF", 2, 7, want))

	colors, err = db.Lookup("DEADBEEF")
	require.NoError(t, err)
	assert.Equal(t, want, colors)

	// First write wins
	require.NoError(t, db.Store("DEADBEEF", 2, 7, want[1:]))
	colors, err = db.Lookup("DEADBEEF")
	require.NoError(t, err)
	assert.Equal(t, want, colors)
}
