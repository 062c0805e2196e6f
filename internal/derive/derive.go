// Package derive computes site passwords from a master key, a per-profile private key
// and a tag. It is a pure function of its inputs: no I/O, no clock, no randomness.
package derive

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"

	"github.com/and161185/hashpass/internal/errs"
	"github.com/and161185/hashpass/internal/model"
)

// separator splits private key and tag in the seed message. Private keys are
// base64url text, so the byte never occurs inside one.
const separator = 0x00

// streamInfo labels HKDF expansion blocks; a big-endian generation counter is appended.
const streamInfo = "hashpass/v1/stream"

// Password derives a length-character password of type typ for tagName.
// Identical inputs always yield the identical string.
func Password(tagName, masterKey, privateKey string, length int, typ model.PasswordType) (string, error) {
	if strings.TrimSpace(tagName) == "" {
		return "", errs.InvalidInput("tagName", "empty")
	}
	if strings.TrimSpace(masterKey) == "" {
		return "", errs.InvalidInput("masterKey", "empty")
	}
	if !model.ValidLength(length) {
		return "", errs.InvalidInput("length",
			fmt.Sprintf("must be within %d..%d", model.MinPasswordLength, model.MaxPasswordLength))
	}
	p, ok := policies[typ]
	if !ok {
		return "", errs.InvalidInput("type", "unknown password type")
	}

	s := newStream(masterKey, privateKey, tagName)
	out := make([]byte, length)
	for i := range out {
		out[i] = p.alphabet[s.index(len(p.alphabet))]
	}
	p.cover(out, s)
	return string(out), nil
}

// stream is a deterministic byte source: HMAC-SHA256 seed expanded with HKDF in
// counter-numbered generations.
type stream struct {
	seed []byte
	gen  uint32
	r    io.Reader
	buf  [1]byte
}

func newStream(masterKey, privateKey, tagName string) *stream {
	mac := hmac.New(sha256.New, []byte(masterKey))
	mac.Write([]byte(privateKey))
	mac.Write([]byte{separator})
	mac.Write([]byte(tagName))
	s := &stream{seed: mac.Sum(nil)}
	s.rekey()
	return s
}

func (s *stream) rekey() {
	info := make([]byte, len(streamInfo)+4)
	copy(info, streamInfo)
	binary.BigEndian.PutUint32(info[len(streamInfo):], s.gen)
	s.r = hkdf.Expand(sha256.New, s.seed, info)
	s.gen++
}

func (s *stream) next() byte {
	if _, err := io.ReadFull(s.r, s.buf[:]); err != nil {
		// HKDF output is capped at 255 blocks; move to the next generation.
		s.rekey()
		_, _ = io.ReadFull(s.r, s.buf[:])
	}
	return s.buf[0]
}

// index returns an unbiased value in [0, n) by rejection sampling, 0 < n <= 256.
func (s *stream) index(n int) int {
	limit := 256 - 256%n
	for {
		b := int(s.next())
		if b < limit {
			return b % n
		}
	}
}
