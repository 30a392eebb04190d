package pkg

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"unsafe"
)

// BytesToString converts bytes slice to a string without extra allocation.
// buf must not be modified afterwards.
func BytesToString(buf []byte) string {
	return unsafe.String(unsafe.SliceData(buf), len(buf))
}

// GenerateRandomString returns a URL-safe random string of exactly length chars,
// read from crypto/rand.
func GenerateRandomString(length int) (string, error) {
	if length <= 0 {
		return "", errors.New("random string length must be positive")
	}

	// base64 yields 4 chars per 3 bytes
	b := make([]byte, (length*3+3)/4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b)[:length], nil
}
