package identity

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSigningKeyPairProducesDistinctKeys(t *testing.T) {
	a, err := NewSigningKeyPair()
	require.NoError(t, err)
	b, err := NewSigningKeyPair()
	require.NoError(t, err)

	assert.NotEqual(t, a.Public, b.Public)
}

func TestSignVerifiesAgainstPublicKey(t *testing.T) {
	kp, err := NewSigningKeyPair()
	require.NoError(t, err)

	msg := []byte("the mock vault trusts this key")
	sig := kp.Sign(msg)

	assert.True(t, ed25519.Verify(kp.Public[:], msg, sig))
}
