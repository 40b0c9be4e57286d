package vault

import (
	"time"

	"github.com/safevault/mockvault/pkg/account"
	"github.com/safevault/mockvault/pkg/config"
	"github.com/safevault/mockvault/pkg/identity"
	"github.com/safevault/mockvault/pkg/mdata"
	"github.com/safevault/mockvault/pkg/vaultmetrics"
	"github.com/safevault/mockvault/pkg/vaulttypes"
)

// GetAccountInfo handles get_account_info (spec.md §6). dst must be a
// ClientManager authority; this is a read, never a mutation.
func (v *Vault) GetAccountInfo(dst vaulttypes.Authority) (account.Info, error) {
	start := time.Now()
	err := checkAuthority(dst, vaulttypes.AuthorityClientManager, "GetAccountInfo")
	if err != nil {
		v.observe("GetAccountInfo", start, err)
		return account.Info{}, err
	}
	info, err := v.accounts.Get(dst.Name)
	v.observe("GetAccountInfo", start, err)
	return info, err
}

// PutIData handles put_idata (spec.md §6): dst must be a ClientManager
// authority naming the charging account; the blob is stored content-
// addressed and deduplicated.
func (v *Vault) PutIData(dst vaulttypes.Authority, blob []byte) (vaulttypes.Name, error) {
	start := time.Now()
	var zero vaulttypes.Name
	if err := checkAuthority(dst, vaulttypes.AuthorityClientManager, "PutIData"); err != nil {
		v.observe("PutIData", start, err)
		return zero, err
	}
	if err := v.accounts.Charge(dst.Name); err != nil {
		v.observe("PutIData", start, err)
		return zero, err
	}
	vaultmetrics.MutationsCharged.Inc()
	name := v.idata.Put(blob)
	v.observe("PutIData", start, nil)
	return name, nil
}

// GetIData handles get_idata (spec.md §6): a NaeManager read, never charged.
func (v *Vault) GetIData(dst vaulttypes.Authority, name vaulttypes.Name) ([]byte, error) {
	start := time.Now()
	if err := checkAuthority(dst, vaulttypes.AuthorityNaeManager, "GetIData"); err != nil {
		v.observe("GetIData", start, err)
		return nil, err
	}
	blob, err := v.idata.Get(name)
	v.observe("GetIData", start, err)
	return blob, err
}

// PutMDataRequest bundles the payload of a put_mdata call.
type PutMDataRequest struct {
	Name    vaulttypes.Name
	TypeTag uint64
	Owners  []identity.PublicKey
}

// PutMData handles put_mdata (spec.md §6), including the account-creation
// special case (spec.md §4.4): when obj carries the session-packet type
// tag and obj.Name equals dst.Name, an absent account is created instead
// of charged.
func (v *Vault) PutMData(dst vaulttypes.Authority, obj PutMDataRequest, requesterKey identity.PublicKey) error {
	start := time.Now()
	if err := checkAuthority(dst, vaulttypes.AuthorityClientManager, "PutMData"); err != nil {
		v.observe("PutMData", start, err)
		return err
	}

	isSessionPacketCreate := obj.TypeTag == config.SessionPacketTypeTag && obj.Name == dst.Name
	if err := v.chargeOrCreate(dst, isSessionPacketCreate, requesterKey); err != nil {
		v.observe("PutMData", start, err)
		return err
	}

	key := mdata.ObjectKey{Name: obj.Name, TypeTag: obj.TypeTag}
	err := v.mdata.Put(key, obj.Owners, requesterKey)
	if err == nil {
		vaultmetrics.MutableObjectsCreated.Inc()
	}
	v.observe("PutMData", start, err)
	return err
}

// GetMDataVersion handles get_mdata_version (spec.md §6).
func (v *Vault) GetMDataVersion(dst vaulttypes.Authority, name vaulttypes.Name, tag uint64) (uint64, error) {
	start := time.Now()
	if err := checkAuthority(dst, vaulttypes.AuthorityNaeManager, "GetMDataVersion"); err != nil {
		v.observe("GetMDataVersion", start, err)
		return 0, err
	}
	version, err := v.mdata.GetVersion(mdata.ObjectKey{Name: name, TypeTag: tag})
	v.observe("GetMDataVersion", start, err)
	return version, err
}

// ListMDataEntries handles list_mdata_entries (spec.md §6).
func (v *Vault) ListMDataEntries(dst vaulttypes.Authority, name vaulttypes.Name, tag uint64) (map[string]vaulttypes.Value, error) {
	start := time.Now()
	if err := checkAuthority(dst, vaulttypes.AuthorityNaeManager, "ListMDataEntries"); err != nil {
		v.observe("ListMDataEntries", start, err)
		return nil, err
	}
	entries, err := v.mdata.ListEntries(mdata.ObjectKey{Name: name, TypeTag: tag})
	v.observe("ListMDataEntries", start, err)
	return entries, err
}

// ListMDataKeys handles list_mdata_keys (spec.md §6).
func (v *Vault) ListMDataKeys(dst vaulttypes.Authority, name vaulttypes.Name, tag uint64) ([]string, error) {
	start := time.Now()
	if err := checkAuthority(dst, vaulttypes.AuthorityNaeManager, "ListMDataKeys"); err != nil {
		v.observe("ListMDataKeys", start, err)
		return nil, err
	}
	keys, err := v.mdata.ListKeys(mdata.ObjectKey{Name: name, TypeTag: tag})
	v.observe("ListMDataKeys", start, err)
	return keys, err
}

// ListMDataValues handles list_mdata_values (spec.md §6).
func (v *Vault) ListMDataValues(dst vaulttypes.Authority, name vaulttypes.Name, tag uint64) ([]vaulttypes.Value, error) {
	start := time.Now()
	if err := checkAuthority(dst, vaulttypes.AuthorityNaeManager, "ListMDataValues"); err != nil {
		v.observe("ListMDataValues", start, err)
		return nil, err
	}
	values, err := v.mdata.ListValues(mdata.ObjectKey{Name: name, TypeTag: tag})
	v.observe("ListMDataValues", start, err)
	return values, err
}

// GetMDataValue handles get_mdata_value (spec.md §6).
func (v *Vault) GetMDataValue(dst vaulttypes.Authority, name vaulttypes.Name, tag uint64, key string) (vaulttypes.Value, error) {
	start := time.Now()
	if err := checkAuthority(dst, vaulttypes.AuthorityNaeManager, "GetMDataValue"); err != nil {
		v.observe("GetMDataValue", start, err)
		return vaulttypes.Value{}, err
	}
	value, err := v.mdata.GetValue(mdata.ObjectKey{Name: name, TypeTag: tag}, key)
	v.observe("GetMDataValue", start, err)
	return value, err
}

// MutateMDataEntries handles mutate_mdata_entries (spec.md §6): dst is a
// ClientManager authority naming the charging account; name/tag identify
// the mutable object being mutated, which may live in any NaeManager.
func (v *Vault) MutateMDataEntries(dst vaulttypes.Authority, name vaulttypes.Name, tag uint64, actions map[string]vaulttypes.EntryAction, requesterKey identity.PublicKey) error {
	start := time.Now()
	if err := checkAuthority(dst, vaulttypes.AuthorityClientManager, "MutateMDataEntries"); err != nil {
		v.observe("MutateMDataEntries", start, err)
		return err
	}
	if err := v.accounts.Charge(dst.Name); err != nil {
		v.observe("MutateMDataEntries", start, err)
		return err
	}
	vaultmetrics.MutationsCharged.Inc()
	err := v.mdata.MutateEntries(mdata.ObjectKey{Name: name, TypeTag: tag}, actions, requesterKey)
	v.observe("MutateMDataEntries", start, err)
	return err
}

// ListMDataPermissions handles list_mdata_permissions (spec.md §6).
func (v *Vault) ListMDataPermissions(dst vaulttypes.Authority, name vaulttypes.Name, tag uint64) (map[vaulttypes.User]vaulttypes.PermissionSet, error) {
	start := time.Now()
	if err := checkAuthority(dst, vaulttypes.AuthorityNaeManager, "ListMDataPermissions"); err != nil {
		v.observe("ListMDataPermissions", start, err)
		return nil, err
	}
	perms, err := v.mdata.ListPermissions(mdata.ObjectKey{Name: name, TypeTag: tag})
	v.observe("ListMDataPermissions", start, err)
	return perms, err
}

// ListMDataUserPermissions handles list_mdata_user_permissions (spec.md §6).
func (v *Vault) ListMDataUserPermissions(dst vaulttypes.Authority, name vaulttypes.Name, tag uint64, user vaulttypes.User) (vaulttypes.PermissionSet, error) {
	start := time.Now()
	if err := checkAuthority(dst, vaulttypes.AuthorityNaeManager, "ListMDataUserPermissions"); err != nil {
		v.observe("ListMDataUserPermissions", start, err)
		return vaulttypes.PermissionSet{}, err
	}
	perms, err := v.mdata.ListUserPermissions(mdata.ObjectKey{Name: name, TypeTag: tag}, user)
	v.observe("ListMDataUserPermissions", start, err)
	return perms, err
}

// SetMDataUserPermissions handles set_mdata_user_permissions (spec.md §6):
// dst is the ClientManager authority that pays the mutation charge;
// name/tag identify the target object.
func (v *Vault) SetMDataUserPermissions(dst vaulttypes.Authority, name vaulttypes.Name, tag uint64, user vaulttypes.User, perms vaulttypes.PermissionSet, version uint64, requesterKey identity.PublicKey) error {
	start := time.Now()
	if err := checkAuthority(dst, vaulttypes.AuthorityClientManager, "SetMDataUserPermissions"); err != nil {
		v.observe("SetMDataUserPermissions", start, err)
		return err
	}
	if err := v.accounts.Charge(dst.Name); err != nil {
		v.observe("SetMDataUserPermissions", start, err)
		return err
	}
	vaultmetrics.MutationsCharged.Inc()
	err := v.mdata.SetUserPermissions(mdata.ObjectKey{Name: name, TypeTag: tag}, user, perms, version, requesterKey)
	if err == nil {
		vaultmetrics.PermissionChanges.Inc()
	}
	v.observe("SetMDataUserPermissions", start, err)
	return err
}

// DelMDataUserPermissions handles del_mdata_user_permissions (spec.md §6).
func (v *Vault) DelMDataUserPermissions(dst vaulttypes.Authority, name vaulttypes.Name, tag uint64, user vaulttypes.User, version uint64, requesterKey identity.PublicKey) error {
	start := time.Now()
	if err := checkAuthority(dst, vaulttypes.AuthorityClientManager, "DelMDataUserPermissions"); err != nil {
		v.observe("DelMDataUserPermissions", start, err)
		return err
	}
	if err := v.accounts.Charge(dst.Name); err != nil {
		v.observe("DelMDataUserPermissions", start, err)
		return err
	}
	vaultmetrics.MutationsCharged.Inc()
	err := v.mdata.DelUserPermissions(mdata.ObjectKey{Name: name, TypeTag: tag}, user, version, requesterKey)
	if err == nil {
		vaultmetrics.PermissionChanges.Inc()
	}
	v.observe("DelMDataUserPermissions", start, err)
	return err
}
