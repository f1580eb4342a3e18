package metadata

import (
	"fmt"
	"hash/crc32"
	"strings"
)

const filenameTrim = 56

// CRCFilename computes the CRC of a given filename, upper-cased and
// trimmed or zero padded to 56 bytes, which is the key used in the index
func CRCFilename(filename string) uint32 {
	var b [filenameTrim]byte
	copy(b[:], []byte(fmt.Sprintf("%.*s", filenameTrim, strings.ToUpper(filename))))
	return crc32.ChecksumIEEE(b[:])
}
