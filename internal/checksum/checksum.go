// Package checksum computes and compares SHA-256 digests of recording
// content. Digests are hex-encoded and compared case-insensitively
// everywhere in the protocol; they guard integrity, not authenticity.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// Digest returns the hex-encoded SHA-256 digest of data.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// DigestFile reads the file at path in full and returns its hex-encoded
// SHA-256 digest. An unreadable file yields a wrapped error; callers must
// treat that as "cannot proceed", never as an empty digest.
func DigestFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file for digest: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err = io.Copy(h, f); err != nil {
		return "", fmt.Errorf("read file for digest: %w", err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// Verify reports whether the file at path hashes to expected. It never
// fails: an unreadable file simply verifies as false.
func Verify(path, expected string) bool {
	got, err := DigestFile(path)
	if err != nil {
		return false
	}
	return Equal(got, expected)
}

// Equal compares two hex digests case-insensitively.
func Equal(a, b string) bool {
	return strings.EqualFold(a, b)
}
