package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// SHA256String returns the hex digest of s.
func SHA256String(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
