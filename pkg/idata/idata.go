// Package idata implements the mock vault's immutable object store
// (spec.md C3): content-addressed blobs, named by the hash of their
// content, deduplicated on put. Grounded on cuemby/warren's
// storage.Store pattern (one map, one RWMutex) narrowed to the spec's
// two operations.
package idata

import (
	"sync"

	"github.com/safevault/mockvault/pkg/vaulterrors"
	"github.com/safevault/mockvault/pkg/vaulttypes"
)

// Store is the in-memory immutable object table.
type Store struct {
	mu    sync.RWMutex
	blobs map[vaulttypes.Name][]byte
}

// New creates an empty Store.
func New() *Store {
	return &Store{blobs: make(map[vaulttypes.Name][]byte)}
}

// Put stores blob under name = hash(blob), returning that name. Storing
// identical content twice is idempotent: the second put is a no-op on
// state but still succeeds (the Vault still charges a mutation for it;
// that charge happens in the caller, not here).
func (s *Store) Put(blob []byte) vaulttypes.Name {
	name := vaulttypes.HashName(blob)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.blobs[name]; !exists {
		cp := make([]byte, len(blob))
		copy(cp, blob)
		s.blobs[name] = cp
	}
	return name
}

// Get returns a copy of the blob named name, or NoSuchData if absent.
func (s *Store) Get(name vaulttypes.Name) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	blob, ok := s.blobs[name]
	if !ok {
		return nil, vaulterrors.New(vaulterrors.NoSuchData, "idata.Get")
	}
	cp := make([]byte, len(blob))
	copy(cp, blob)
	return cp, nil
}
