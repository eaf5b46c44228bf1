// Package crypt hashes passwords for storage and comparison.
//
// Digests are deterministic lowercase hex SHA-256 strings, so two hashes of
// the same password compare equal. A hashing failure is always returned as
// an error; callers must abort rather than store anything else.
//
// Usage:
//
//	digest, err := crypt.Default.Hash(password)
//	if err != nil {
//	    return err
//	}
package crypt

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

// ErrHash wraps any failure of the hash primitive.
var ErrHash = errors.New("crypt: hash failed")

// DigestLen is the length of a hex SHA-256 digest.
const DigestLen = sha256.Size * 2

// Hasher turns a plaintext password into a fixed-length hex digest.
type Hasher interface {
	Hash(plaintext string) (string, error)
}

// HasherFunc adapts a function to Hasher.
type HasherFunc func(plaintext string) (string, error)

func (f HasherFunc) Hash(plaintext string) (string, error) { return f(plaintext) }

// SHA256 is the default Hasher.
type SHA256 struct{}

func (SHA256) Hash(plaintext string) (string, error) {
	h := sha256.New()
	if _, err := io.WriteString(h, plaintext); err != nil {
		return "", fmt.Errorf("%w: %v", ErrHash, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Default is the Hasher used when none is injected.
var Default Hasher = SHA256{}
