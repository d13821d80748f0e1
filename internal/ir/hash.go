package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Digest domains. The version suffix leaves room for changing the encoding.
const (
	DomainState  = "specstore/state/v1"
	DomainAction = "specstore/action/v1"
)

// Digest hashes the canonical encoding of v as
// hex(SHA256(domain || 0x00 || canonical)).
func Digest(domain string, v any) (string, error) {
	canonical, err := MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("digest %s: %w", domain, err)
	}

	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(canonical)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// StateDigest is Digest under DomainState.
func StateDigest(v any) (string, error) {
	return Digest(DomainState, v)
}

// MustStateDigest is like StateDigest but panics on error.
// Use only in tests or when the state is known to be encodable.
func MustStateDigest(v any) string {
	d, err := StateDigest(v)
	if err != nil {
		panic(err)
	}
	return d
}
