package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
)

// digest returns the hex SHA-256 of s.
func digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// DocumentKey returns the key under which state for the document at path
// is stored. The path is made absolute and cleaned first, so one file has
// one key whatever the working directory.
func DocumentKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return "doc:" + digest(filepath.Clean(path))
}
