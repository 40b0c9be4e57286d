package mdata

import (
	"sort"

	"github.com/safevault/mockvault/pkg/identity"
	"github.com/safevault/mockvault/pkg/vaulterrors"
	"github.com/safevault/mockvault/pkg/vaulttypes"
)

// validateAction checks permission and version rules for one action
// against obj, without mutating it. It returns the resulting Value to
// store on success.
func validateAction(obj *Object, entryKey string, action vaulttypes.EntryAction, requesterKey identity.PublicKey) (vaulttypes.Value, error) {
	if !obj.permitted(requesterKey, action.RequiredAction()) {
		return vaulttypes.Value{}, vaulterrors.New(vaulterrors.AccessDenied, "mdata.MutateEntries")
	}

	existing, present := obj.Entries[entryKey]

	switch action.Kind {
	case vaulttypes.EntryIns:
		if present && !existing.IsTombstone() {
			return vaulttypes.Value{}, vaulterrors.New(vaulterrors.EntryExists, "mdata.MutateEntries")
		}
		var wantVersion uint64
		if present {
			wantVersion = existing.EntryVersion + 1
		}
		if action.Value.EntryVersion != wantVersion {
			return vaulttypes.Value{}, vaulterrors.New(vaulterrors.InvalidSuccessor, "mdata.MutateEntries")
		}
		return action.Value, nil

	case vaulttypes.EntryUpdate:
		if !present || existing.IsTombstone() {
			return vaulttypes.Value{}, vaulterrors.New(vaulterrors.NoSuchEntry, "mdata.MutateEntries")
		}
		if action.Value.EntryVersion != existing.EntryVersion+1 {
			return vaulttypes.Value{}, vaulterrors.New(vaulterrors.InvalidSuccessor, "mdata.MutateEntries")
		}
		return action.Value, nil

	default: // EntryDel
		if !present || existing.IsTombstone() {
			return vaulttypes.Value{}, vaulterrors.New(vaulterrors.NoSuchEntry, "mdata.MutateEntries")
		}
		if action.Version != existing.EntryVersion+1 {
			return vaulttypes.Value{}, vaulterrors.New(vaulterrors.InvalidSuccessor, "mdata.MutateEntries")
		}
		return vaulttypes.Value{Content: nil, EntryVersion: action.Version}, nil
	}
}

// MutateEntries applies a batch of entry actions atomically (spec.md
// §4.3.2): every action is validated against the object's current state
// first, in ascending sorted-key order; if any fails, the first error
// encountered is returned and nothing is applied. Only once every action
// validates are all of them applied together.
func (s *Store) MutateEntries(key ObjectKey, actions map[string]vaulttypes.EntryAction, requesterKey identity.PublicKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, ok := s.objects[key]
	if !ok {
		return vaulterrors.New(vaulterrors.NoSuchData, "mdata.MutateEntries")
	}

	entryKeys := make([]string, 0, len(actions))
	for k := range actions {
		entryKeys = append(entryKeys, k)
	}
	sort.Strings(entryKeys)

	resolved := make(map[string]vaulttypes.Value, len(actions))
	for _, entryKey := range entryKeys {
		v, err := validateAction(obj, entryKey, actions[entryKey], requesterKey)
		if err != nil {
			return err
		}
		resolved[entryKey] = v
	}

	for entryKey, v := range resolved {
		obj.Entries[entryKey] = v
	}
	return nil
}

// SetUserPermissions applies a permission-set change for user (spec.md
// §4.3.3). The requester must be an owner or hold ManagePermissions;
// version must equal the object's current version + 1.
func (s *Store) SetUserPermissions(key ObjectKey, user vaulttypes.User, perms vaulttypes.PermissionSet, version uint64, requesterKey identity.PublicKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, ok := s.objects[key]
	if !ok {
		return vaulterrors.New(vaulterrors.NoSuchData, "mdata.SetUserPermissions")
	}
	if !obj.permitted(requesterKey, vaulttypes.ActionManagePermissions) {
		return vaulterrors.New(vaulterrors.AccessDenied, "mdata.SetUserPermissions")
	}
	if version != obj.Version+1 {
		return vaulterrors.New(vaulterrors.InvalidSuccessor, "mdata.SetUserPermissions")
	}
	obj.Permissions[user] = perms
	obj.Version = version
	return nil
}

// DelUserPermissions removes user's permission-set entry entirely
// (spec.md §4.3.3), under the same authorization and versioning rules as
// SetUserPermissions.
func (s *Store) DelUserPermissions(key ObjectKey, user vaulttypes.User, version uint64, requesterKey identity.PublicKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, ok := s.objects[key]
	if !ok {
		return vaulterrors.New(vaulterrors.NoSuchData, "mdata.DelUserPermissions")
	}
	if !obj.permitted(requesterKey, vaulttypes.ActionManagePermissions) {
		return vaulterrors.New(vaulterrors.AccessDenied, "mdata.DelUserPermissions")
	}
	if version != obj.Version+1 {
		return vaulterrors.New(vaulterrors.InvalidSuccessor, "mdata.DelUserPermissions")
	}
	delete(obj.Permissions, user)
	obj.Version = version
	return nil
}
