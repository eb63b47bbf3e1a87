package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateCode returns a hex token built from length random bytes.
func GenerateCode(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
