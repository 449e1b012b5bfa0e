package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateID returns a unique request ID, "meas-" plus 16 hex chars.
func GenerateID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "meas-unknown"
	}
	return "meas-" + hex.EncodeToString(b)
}
