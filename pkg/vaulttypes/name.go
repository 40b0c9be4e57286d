// Package vaulttypes holds the identifiers and request/response primitives
// shared by every mock vault component: names, message ids, authorities,
// and the closed set of mutable-data entry/permission types.
package vaulttypes

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

// NameWidth is the fixed width of a Name, in bytes.
const NameWidth = 32

// Name is an opaque 32-byte identifier shared by accounts, immutable
// objects and mutable objects.
type Name [NameWidth]byte

// String renders a Name as hex for logging; it is never parsed back.
func (n Name) String() string {
	return hex.EncodeToString(n[:])
}

// IsZero reports whether n is the zero Name.
func (n Name) IsZero() bool {
	return n == Name{}
}

// HashName derives a Name by hashing arbitrary content, used both for
// immutable-object naming and for account naming from an owner's public key.
func HashName(content []byte) Name {
	return Name(sha256.Sum256(content))
}

// MessageID is the opaque 128-bit correlation id a caller attaches to a
// request and the Router reflects back on the paired response.
type MessageID [16]byte

// NewMessageID generates a fresh, cryptographically random MessageID.
func NewMessageID() MessageID {
	return MessageID(uuid.New())
}

func (m MessageID) String() string {
	return uuid.UUID(m).String()
}

// IsZero reports whether m is the zero MessageID, which the Router only
// ever uses on the initial Connected event (spec.md §4.5).
func (m MessageID) IsZero() bool {
	return m == MessageID{}
}
