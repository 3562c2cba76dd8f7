package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns a stable hex SHA-256 of s, for keying caches and logs
// by secrets such as access tokens without holding the secret itself.
func Fingerprint(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
