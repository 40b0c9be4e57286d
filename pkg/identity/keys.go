// Package identity provides the mock vault's abstract signing-key-pair
// primitive. Adapted from cuemby/warren's pkg/security key-generation
// style (crypto/rand-backed, wrapped in small value types) but built on
// Ed25519 rather than RSA: the spec uses a key pair purely as a user
// identity, never to terminate TLS, so a signing scheme fits better than
// a certificate-oriented one.
package identity

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
)

// PublicKey is the public half of a SigningKeyPair, used as the identity
// of an account owner or a mutable-data permission subject.
type PublicKey [ed25519.PublicKeySize]byte

func (k PublicKey) String() string {
	return fmt.Sprintf("%x", k[:8])
}

// SigningKeyPair is an abstract asymmetric key pair. The mock vault never
// verifies signatures cryptographically — it trusts a caller-supplied
// PublicKey as ground truth — but a real key pair is generated so that
// identities are genuinely unforgeable within a test process.
type SigningKeyPair struct {
	Public  PublicKey
	private ed25519.PrivateKey
}

// NewSigningKeyPair generates a fresh Ed25519 key pair.
func NewSigningKeyPair() (SigningKeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return SigningKeyPair{}, fmt.Errorf("identity: generate key pair: %w", err)
	}
	var pk PublicKey
	copy(pk[:], pub)
	return SigningKeyPair{Public: pk, private: priv}, nil
}

// Sign signs msg with the private half of the pair. The mock vault itself
// never calls this — it is here so embedders building a less mocked
// harness on top have a real signature to exercise.
func (kp SigningKeyPair) Sign(msg []byte) []byte {
	return ed25519.Sign(kp.private, msg)
}
