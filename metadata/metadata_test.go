package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDB(t *testing.T) {
	db := New()
	require.NoError(t, db.Set(CRCFilename("sunset.png"), []uint32{0xffff0000, 0xff00ff00}))
	require.NoError(t, db.Set(CRCFilename("forest.jpg"), []uint32{0xff112233}))
	require.NoError(t, db.Set(CRCFilename("sunset.png"), []uint32{0xff000000}))
	assert.Equal(t, 2, db.Length())

	assert.ErrorIs(t, db.Set(1, make([]uint32, MaxColors+1)), errTooManyColors)

	b, err := db.MarshalBinary()
	require.NoError(t, err)
	assert.Len(t, b, maxEntries*4+maxEntries*2+2*RecordSize)

	got := New()
	require.NoError(t, got.UnmarshalBinary(b))
	assert.Equal(t, 2, got.Length())

	colors, ok := got.Get(CRCFilename("SUNSET.PNG"))
	require.True(t, ok)
	assert.Equal(t, []uint32{0xffff0000, 0xff00ff00}, colors)

	colors, ok = got.Get(CRCFilename("forest.jpg"))
	require.True(t, ok)
	assert.Equal(t, []uint32{0xff112233}, colors)

	_, ok = got.Get(CRCFilename("missing.png"))
	assert.False(t, ok)
}

func TestUnmarshalTruncated(t *testing.T) {
	db := New()
	require.NoError(t, db.Set(42, []uint32{1}))
	b, err := db.MarshalBinary()
	require.NoError(t, err)

	assert.ErrorIs(t, New().UnmarshalBinary(b[:len(b)-1]), errInsufficientData)
	assert.Error(t, New().UnmarshalBinary(b[:100]))
}

func TestMarshalTooManyEntries(t *testing.T) {
	db := New()
	for i := uint32(0); i <= maxEntries; i++ {
		require.NoError(t, db.Set(i, nil))
	}
	_, err := db.MarshalBinary()
	assert.EqualError(t, err, "metadata: more than 1024 entries")
}

func TestCRCFilename(t *testing.T) {
	assert.Equal(t, CRCFilename("image.png"), CRCFilename("IMAGE.PNG"))
	assert.NotEqual(t, CRCFilename("a.png"), CRCFilename("b.png"))
}
