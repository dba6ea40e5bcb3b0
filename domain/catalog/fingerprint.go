package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
)

// Fingerprint identifies the content of one catalog source file. Two files
// with identical bytes share a fingerprint regardless of modification time,
// so touching a file without changing it never triggers a rebuild.
type Fingerprint string

// FingerprintBytes computes the fingerprint of raw catalog content.
func FingerprintBytes(data []byte) Fingerprint {
	sum := sha256.Sum256(data)
	return Fingerprint(hex.EncodeToString(sum[:]))
}

// FingerprintFile computes the fingerprint of a catalog file on disk.
func FingerprintFile(path string) (Fingerprint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("fingerprint catalog file: %w", err)
	}
	return FingerprintBytes(data), nil
}
