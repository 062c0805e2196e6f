package derive

import (
	"crypto/sha256"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters for the fingerprint.
const (
	fpTime    uint32 = 1
	fpMemory  uint32 = 16 * 1024 // 16 MB
	fpThreads uint8  = 1
	fpKeyLen  uint32 = 32

	// FingerprintLen is the number of symbols returned by Fingerprint.
	FingerprintLen = 3
)

const fingerprintAlphabet = upperChars + lowerChars + digitChars

// Fingerprint returns a short visual checksum of masterKey for the given profile,
// letting the user spot a mistyped master key. Empty masterKey yields "".
func Fingerprint(masterKey, privateKey string) string {
	if masterKey == "" {
		return ""
	}
	salt := sha256.Sum256([]byte(privateKey))
	sum := argon2.IDKey([]byte(masterKey), salt[:], fpTime, fpMemory, fpThreads, fpKeyLen)

	n := len(fingerprintAlphabet)
	limit := 256 - 256%n
	out := make([]byte, 0, FingerprintLen)
	for _, b := range sum {
		if int(b) >= limit {
			continue
		}
		out = append(out, fingerprintAlphabet[int(b)%n])
		if len(out) == FingerprintLen {
			return string(out)
		}
	}
	// 32 bytes with a 97% acceptance rate; reaching here is practically impossible.
	for i := len(out); i < FingerprintLen; i++ {
		out = append(out, fingerprintAlphabet[int(sum[i])%n])
	}
	return string(out)
}
