package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// GenerateSalt returns n random bytes encoded as unpadded standard base64.
func GenerateSalt(n int) (string, error) {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	return base64.RawStdEncoding.EncodeToString(bytes), nil
}
