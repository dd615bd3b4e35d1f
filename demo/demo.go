// Package demo shows one thing a pair of SRP-6 participants can do with
// the session key they just agreed on: use it directly as an AEAD key to
// exchange an encrypted message. It is a collaborator, not part of the
// core protocol — nothing here participates in the SRP state machine or
// its invariants, and its errors are ordinary Go errors rather than one of
// srp's three error kinds.
package demo

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/nilekhani/srp6kex/bigfield"
	"golang.org/x/crypto/chacha20poly1305"
)

// SessionKey left-pads the session key a Client or Server agreed on into
// the fixed 32-byte array chacha20poly1305 requires. v is expected to fit
// in 32 bytes, which holds for any of this module's named Params presets.
func SessionKey(v bigfield.Value) [32]byte {
	var out [32]byte
	b := v.Bytes()
	copy(out[32-len(b):], b)
	return out
}

// Seal encrypts plaintext under sessionKey (the 32-byte K two SRP
// participants agreed on) using ChaCha20-Poly1305, binding associatedData
// (may be nil) as additional authenticated data. The returned ciphertext
// is nonce || sealed-box.
func Seal(sessionKey [32]byte, plaintext, associatedData []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(sessionKey[:])
	if err != nil {
		return nil, fmt.Errorf("demo: building AEAD: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("demo: drawing nonce: %w", err)
	}

	return aead.Seal(nonce, nonce, plaintext, associatedData), nil
}

// Open reverses Seal: it splits the leading nonce off ciphertext and
// authenticates/decrypts the remainder under sessionKey and
// associatedData. A tampered ciphertext, wrong key, or mismatched
// associatedData all surface as the same opaque error, by design of the
// AEAD construction.
func Open(sessionKey [32]byte, ciphertext, associatedData []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(sessionKey[:])
	if err != nil {
		return nil, fmt.Errorf("demo: building AEAD: %w", err)
	}

	if len(ciphertext) < aead.NonceSize() {
		return nil, fmt.Errorf("demo: ciphertext shorter than nonce")
	}
	nonce, sealed := ciphertext[:aead.NonceSize()], ciphertext[aead.NonceSize():]

	plaintext, err := aead.Open(nil, nonce, sealed, associatedData)
	if err != nil {
		return nil, fmt.Errorf("demo: open: %w", err)
	}
	return plaintext, nil
}
