package security

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// fingerprintLen is the number of digest bytes kept, hex encoded.
const fingerprintLen = 16

// Fingerprinter derives stable, non-reversible identifiers for shopper-supplied values such as
// email addresses so they can appear in storage keys and logs.
type Fingerprinter struct {
	key []byte
}

// NewFingerprinter keys the digest with secret. An empty secret produces unkeyed digests.
func NewFingerprinter(secret string) (*Fingerprinter, error) {
	if len(secret) > blake2b.Size {
		return nil, fmt.Errorf("fingerprint key must be at most %d bytes", blake2b.Size)
	}
	return &Fingerprinter{key: []byte(secret)}, nil
}

// Email normalizes the address (trimmed, lower-cased) before hashing, so case variants share
// one fingerprint.
func (f *Fingerprinter) Email(email string) string {
	return f.sum(strings.ToLower(strings.TrimSpace(email)))
}

func (f *Fingerprinter) sum(value string) string {
	h, err := blake2b.New256(f.key)
	if err != nil {
		// key length is checked in NewFingerprinter
		panic(err)
	}
	h.Write([]byte(value))
	return hex.EncodeToString(h.Sum(nil)[:fingerprintLen])
}
