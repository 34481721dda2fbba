// Package security provides secure random generation utilities
package security

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/oklog/ulid/v2"
)

// GenerateULID generates a new ULID string.
func GenerateULID() string {
	return ulid.Make().String()
}

// GenerateElementID mints a document-unique element ID. Element trees store
// IDs lowercase, so the ULID is folded before use.
func GenerateElementID() string {
	return strings.ToLower(ulid.Make().String())
}

// GenerateSecureKey creates a cryptographically secure random key and returns
// it as a hex string. This is ideal for generating JWT and nonce secrets.
func GenerateSecureKey(length int) (string, error) {
	bytes := make([]byte, length/2) // Each byte becomes two hex characters
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate secure key: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}
