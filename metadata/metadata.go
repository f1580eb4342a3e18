/*
Package metadata implements the small color index written to each
directory containing images.

The file starts with 1024 little-endian 32-bit filename CRCs, sorted and
padded with 0xffffffff, followed by 1024 16-bit record numbers padded with
0xffff, followed by the records themselves. Each record is a 32-bit color
count followed by MaxColors packed ARGB colors, unused slots are zero.
*/
package metadata

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"sort"
)

const (
	// Filename is the expected filename used when writing to disk
	Filename   = "swatch.idx"
	maxEntries = 1024

	// MaxColors is the number of colors each record has room for
	MaxColors = 8

	// RecordSize defines the size in bytes of each record
	RecordSize = 4 + MaxColors*4
)

var (
	errTooManyColors    = fmt.Errorf("metadata: more than %d colors", MaxColors)
	errInsufficientData = errors.New("metadata: insufficient data")
)

type record struct {
	Count  uint32
	Colors [MaxColors]uint32
}

// DB is the color index. It implements the encoding.BinaryMarshaler and
// encoding.BinaryUnmarshaler interfaces.
type DB struct {
	checksums map[uint32]uint16
	records   []record
}

// New returns an empty index
func New() *DB {
	return &DB{
		checksums: make(map[uint32]uint16),
	}
}

// Length returns the number of checksums in the index
func (db *DB) Length() int {
	return len(db.checksums)
}

// Set stores the packed ARGB colors for the given CRC. A CRC that is
// already present keeps its original colors.
func (db *DB) Set(crc uint32, colors []uint32) error {
	if len(colors) > MaxColors {
		return errTooManyColors
	}
	if _, ok := db.checksums[crc]; !ok {
		var r record
		r.Count = uint32(len(colors))
		copy(r.Colors[:], colors)
		db.records = append(db.records, r)
		db.checksums[crc] = uint16(len(db.records) - 1)
	}
	return nil
}

// Get returns the colors stored for the given CRC
func (db *DB) Get(crc uint32) ([]uint32, bool) {
	i, ok := db.checksums[crc]
	if !ok {
		return nil, false
	}
	r := db.records[i]
	return append([]uint32(nil), r.Colors[:r.Count]...), true
}

// MarshalBinary encodes the index into binary form and returns the result
func (db *DB) MarshalBinary() ([]byte, error) {
	length := len(db.checksums)

	if length > maxEntries {
		return nil, fmt.Errorf("metadata: more than %d entries", maxEntries)
	}

	keys := make([]uint32, 0, len(db.checksums))
	for k := range db.checksums {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	b := new(bytes.Buffer)

	// Write out CRC values
	if err := binary.Write(b, binary.LittleEndian, &keys); err != nil {
		return nil, err
	}
	// Pad to 4096 with 0xff's
	if _, err := b.Write(bytes.Repeat([]byte{0xff, 0xff, 0xff, 0xff}, maxEntries-length)); err != nil {
		return nil, err
	}

	// Write out record indices
	for _, k := range keys {
		v := db.checksums[k]
		if err := binary.Write(b, binary.LittleEndian, &v); err != nil {
			return nil, err
		}
	}
	// Pad to 6144 with 0xff's
	if _, err := b.Write(bytes.Repeat([]byte{0xff, 0xff}, maxEntries-length)); err != nil {
		return nil, err
	}

	// Write out records
	for i := range db.records {
		if err := binary.Write(b, binary.LittleEndian, &db.records[i]); err != nil {
			return nil, err
		}
	}

	return b.Bytes(), nil
}

// UnmarshalBinary decodes the index from binary form
func (db *DB) UnmarshalBinary(b []byte) error {
	r := bytes.NewReader(b)

	db.checksums = make(map[uint32]uint16)
	db.records = nil

	var keys []uint32
	for i := 0; i < maxEntries; i++ {
		var crc uint32
		if err := binary.Read(r, binary.LittleEndian, &crc); err != nil {
			return err
		}
		if crc != 0xffffffff {
			keys = append(keys, crc)
		}
	}

	maxOffset := -1
	for i := 0; i < maxEntries; i++ {
		var offset uint16
		if err := binary.Read(r, binary.LittleEndian, &offset); err != nil {
			return err
		}
		if offset != 0xffff && i < len(keys) {
			db.checksums[keys[i]] = offset
			if int(offset) > maxOffset {
				maxOffset = int(offset)
			}
		}
	}

	for i := 0; i <= maxOffset; i++ {
		var rec record
		if err := binary.Read(r, binary.LittleEndian, &rec); err != nil {
			return errInsufficientData
		}
		if rec.Count > MaxColors {
			return errTooManyColors
		}
		db.records = append(db.records, rec)
	}

	return nil
}
