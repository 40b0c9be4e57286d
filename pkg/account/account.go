// Package account implements the mock vault's account store (spec.md
// C2): a map from account name to owner key and mutation quota
// counters. Grounded on cuemby/warren's storage.Store shape — a small
// CRUD interface backing a single in-memory map, guarded by one
// sync.RWMutex — but trimmed to the three operations the spec allows:
// create, charge, get, plus an Exists check used by the Vault. There is
// no update or delete; accounts live for
// the process's lifetime (spec.md §3).
package account

import (
	"sync"

	"github.com/safevault/mockvault/pkg/identity"
	"github.com/safevault/mockvault/pkg/vaulterrors"
	"github.com/safevault/mockvault/pkg/vaulttypes"
)

// Info is the externally visible snapshot of one account. It is always
// returned as a value copy — the store never hands out a pointer into
// its internal map (spec.md §3: "No external reference into the stores
// is handed out").
type Info struct {
	OwnerKey           identity.PublicKey
	MutationsDone      uint64
	MutationsAvailable uint64
}

type record struct {
	ownerKey  identity.PublicKey
	done      uint64
	available uint64
}

// Store is the in-memory account table.
type Store struct {
	mu              sync.RWMutex
	accounts        map[vaulttypes.Name]*record
	defaultQuota    uint64
}

// New creates an empty Store. defaultQuota is the mutation allowance
// every newly created account starts with (spec.md §3,
// DEFAULT_MAX_MUTATIONS).
func New(defaultQuota uint64) *Store {
	return &Store{
		accounts:     make(map[vaulttypes.Name]*record),
		defaultQuota: defaultQuota,
	}
}

// Create inserts a fresh account named name, owned by ownerKey, with
// counters (0, defaultQuota). Fails with AccountExists if name is already
// present.
func (s *Store) Create(name vaulttypes.Name, ownerKey identity.PublicKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[name]; ok {
		return vaulterrors.New(vaulterrors.AccountExists, "account.Create")
	}
	s.accounts[name] = &record{
		ownerKey:  ownerKey,
		done:      0,
		available: s.defaultQuota,
	}
	return nil
}

// Charge decrements mutations_available and increments mutations_done for
// name. Fails with NoSuchAccount if the account doesn't exist, or
// LowBalance if the quota is exhausted.
func (s *Store) Charge(name vaulttypes.Name) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.accounts[name]
	if !ok {
		return vaulterrors.New(vaulterrors.NoSuchAccount, "account.Charge")
	}
	if rec.available == 0 {
		return vaulterrors.New(vaulterrors.LowBalance, "account.Charge")
	}
	rec.available--
	rec.done++
	return nil
}

// Get returns a value-copy snapshot of the account named name.
func (s *Store) Get(name vaulttypes.Name) (Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.accounts[name]
	if !ok {
		return Info{}, vaulterrors.New(vaulterrors.NoSuchAccount, "account.Get")
	}
	return Info{
		OwnerKey:           rec.ownerKey,
		MutationsDone:      rec.done,
		MutationsAvailable: rec.available,
	}, nil
}

// Exists reports whether an account named name has been created, without
// charging or copying it. Used by the Vault's account-creation special
// case (spec.md §4.4).
func (s *Store) Exists(name vaulttypes.Name) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.accounts[name]
	return ok
}
