package depcache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// refHash hashes a component ref for use in file paths. The full SHA-256 hex
// keeps the layout collision-free and spreads streams across subdirectories.
func refHash(ref int64) string {
	sum := sha256.Sum256([]byte(strconv.FormatInt(ref, 10)))
	return hex.EncodeToString(sum[:])
}
