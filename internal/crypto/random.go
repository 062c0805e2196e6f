// Package crypto provides CSPRNG helpers for secret material stored on device.
package crypto

import (
	"crypto/rand"
	"encoding/base64"
)

// PrivateKeyBytes is the entropy of a generated profile private key.
const PrivateKeyBytes = 32

// RandBytes returns n cryptographically secure random bytes.
func RandBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	return b, err
}

// NewPrivateKey returns a fresh profile private key as unpadded base64url text.
func NewPrivateKey() (string, error) {
	b, err := RandBytes(PrivateKeyBytes)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
