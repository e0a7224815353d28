package facts

import (
	"crypto/sha1"
	"encoding/hex"
)

// ContentHash is the hex SHA-1 of the raw file bytes. It never depends on
// the file name or the parse options.
func ContentHash(src []byte) string {
	sum := sha1.Sum(src)
	return hex.EncodeToString(sum[:])
}
