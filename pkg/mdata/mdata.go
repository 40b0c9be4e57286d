// Package mdata implements the mock vault's mutable object store
// (spec.md C4) — the richest component of the core: named, typed,
// versioned maps with per-user permission sets, owner overrides, and
// atomic multi-action entry mutations. Grounded on cuemby/warren's
// pkg/manager.Manager for overall shape (one struct, one method per
// operation, a single RWMutex guarding everything) and on
// pkg/manager/fsm.go's closed, string-keyed command dispatch for the
// idea of validating a whole batch before applying any of it.
package mdata

import (
	"sort"
	"sync"

	"github.com/safevault/mockvault/pkg/identity"
	"github.com/safevault/mockvault/pkg/vaulterrors"
	"github.com/safevault/mockvault/pkg/vaulttypes"
)

// ObjectKey jointly names a mutable object: a Name and a type tag
// (spec.md §3: "(name, type_tag) jointly the key").
type ObjectKey struct {
	Name    vaulttypes.Name
	TypeTag uint64
}

// Object is a mutable data object. Entries and Permissions are mutated
// only through Store methods; callers never get a live reference to
// either map.
type Object struct {
	Key         ObjectKey
	Owners      map[identity.PublicKey]struct{}
	Entries     map[string]vaulttypes.Value
	Permissions map[vaulttypes.User]vaulttypes.PermissionSet
	Version     uint64
}

func newObject(key ObjectKey, owners []identity.PublicKey) *Object {
	ownerSet := make(map[identity.PublicKey]struct{}, len(owners))
	for _, o := range owners {
		ownerSet[o] = struct{}{}
	}
	return &Object{
		Key:         key,
		Owners:      ownerSet,
		Entries:     make(map[string]vaulttypes.Value),
		Permissions: make(map[vaulttypes.User]vaulttypes.PermissionSet),
	}
}

func (o *Object) isOwner(key identity.PublicKey) bool {
	_, ok := o.Owners[key]
	return ok
}

// permitted evaluates whether requesterKey may perform action against o,
// per spec.md §4.3.2: owners always pass; otherwise the explicit
// Key(requesterKey) permission entry is consulted before AnyUser, and the
// first definite verdict (allow/deny) wins. No definite verdict means
// deny. An explicit Key-level verdict always overrides AnyUser, even a
// contradictory one (spec.md §9's resolved open question).
func (o *Object) permitted(requesterKey identity.PublicKey, action vaulttypes.Action) bool {
	if o.isOwner(requesterKey) {
		return true
	}
	if ps, ok := o.Permissions[vaulttypes.KeyUser(requesterKey)]; ok {
		switch ps.Get(action) {
		case vaulttypes.VerdictAllow:
			return true
		case vaulttypes.VerdictDeny:
			return false
		}
	}
	if ps, ok := o.Permissions[vaulttypes.AnyUser()]; ok {
		if ps.Get(action) == vaulttypes.VerdictAllow {
			return true
		}
	}
	return false
}

// Store is the in-memory mutable-object table.
type Store struct {
	mu      sync.RWMutex
	objects map[ObjectKey]*Object
}

// New creates an empty Store.
func New() *Store {
	return &Store{objects: make(map[ObjectKey]*Object)}
}

// Put creates a new mutable object (spec.md §4.3.1). requesterKey must be
// among owners; the key must be unused.
func (s *Store) Put(key ObjectKey, owners []identity.PublicKey, requesterKey identity.PublicKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for _, o := range owners {
		if o == requesterKey {
			found = true
			break
		}
	}
	if !found {
		return vaulterrors.New(vaulterrors.InvalidOwners, "mdata.Put")
	}
	if _, exists := s.objects[key]; exists {
		return vaulterrors.New(vaulterrors.DataExists, "mdata.Put")
	}
	s.objects[key] = newObject(key, owners)
	return nil
}

// GetVersion returns the object's version counter (spec.md §4.3.4).
func (s *Store) GetVersion(key ObjectKey) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[key]
	if !ok {
		return 0, vaulterrors.New(vaulterrors.NoSuchData, "mdata.GetVersion")
	}
	return obj.Version, nil
}

// ListEntries returns a copy of every entry, tombstones included.
func (s *Store) ListEntries(key ObjectKey) (map[string]vaulttypes.Value, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[key]
	if !ok {
		return nil, vaulterrors.New(vaulterrors.NoSuchData, "mdata.ListEntries")
	}
	out := make(map[string]vaulttypes.Value, len(obj.Entries))
	for k, v := range obj.Entries {
		out[k] = v
	}
	return out, nil
}

// ListKeys returns every entry key, tombstones included.
func (s *Store) ListKeys(key ObjectKey) ([]string, error) {
	entries, err := s.ListEntries(key)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// ListValues returns every entry value, tombstones included, ordered by key.
func (s *Store) ListValues(key ObjectKey) ([]vaulttypes.Value, error) {
	entries, err := s.ListEntries(key)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	values := make([]vaulttypes.Value, len(keys))
	for i, k := range keys {
		values[i] = entries[k]
	}
	return values, nil
}

// GetValue returns one entry's value, failing NoSuchEntry if the key is
// absent (a tombstone counts as present, per spec.md §4.3.4).
func (s *Store) GetValue(key ObjectKey, entryKey string) (vaulttypes.Value, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[key]
	if !ok {
		return vaulttypes.Value{}, vaulterrors.New(vaulterrors.NoSuchData, "mdata.GetValue")
	}
	v, ok := obj.Entries[entryKey]
	if !ok {
		return vaulttypes.Value{}, vaulterrors.New(vaulterrors.NoSuchEntry, "mdata.GetValue")
	}
	return v, nil
}

// ListPermissions returns a copy of the full permissions map.
func (s *Store) ListPermissions(key ObjectKey) (map[vaulttypes.User]vaulttypes.PermissionSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[key]
	if !ok {
		return nil, vaulterrors.New(vaulterrors.NoSuchData, "mdata.ListPermissions")
	}
	out := make(map[vaulttypes.User]vaulttypes.PermissionSet, len(obj.Permissions))
	for u, p := range obj.Permissions {
		out[u] = p
	}
	return out, nil
}

// ListUserPermissions returns the PermissionSet recorded for one user,
// failing NoSuchEntry if that user has no recorded permissions.
func (s *Store) ListUserPermissions(key ObjectKey, user vaulttypes.User) (vaulttypes.PermissionSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[key]
	if !ok {
		return vaulttypes.PermissionSet{}, vaulterrors.New(vaulterrors.NoSuchData, "mdata.ListUserPermissions")
	}
	ps, ok := obj.Permissions[user]
	if !ok {
		return vaulttypes.PermissionSet{}, vaulterrors.New(vaulterrors.NoSuchEntry, "mdata.ListUserPermissions")
	}
	return ps, nil
}
