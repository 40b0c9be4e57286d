package router

import (
	"github.com/rs/zerolog"

	"github.com/safevault/mockvault/pkg/account"
	"github.com/safevault/mockvault/pkg/identity"
	"github.com/safevault/mockvault/pkg/vault"
	"github.com/safevault/mockvault/pkg/vaultlog"
	"github.com/safevault/mockvault/pkg/vaulttypes"
)

// Router is the mock vault's single programmatic surface (spec.md §6): a
// typed request interface backed by one Vault, posting Response events to
// a single outbound channel. Unlike cuemby/warren's Broker, it serves one
// consumer, not many subscribers — so there is one channel, not a
// subscriber set, and no Subscribe/Unsubscribe lifecycle.
type Router struct {
	vault *vault.Vault
	out   chan Event
	log   zerolog.Logger
}

// New creates a Router over v, posting events to a channel of the given
// capacity, and enqueues the initial Connected event (spec.md §4.5). A
// negative capacity is treated as zero. The Connected send
// always has a slot to land in — internally the channel is allocated with
// capacity+1 and pre-seeded — so New never blocks waiting for a consumer
// that can't exist until New returns.
func New(v *vault.Vault, capacity int) *Router {
	if capacity < 0 {
		capacity = 0
	}
	r := &Router{
		vault: v,
		out:   make(chan Event, capacity+1),
		log:   vaultlog.WithComponent("router"),
	}
	r.out <- Event{Kind: KindConnected}
	return r
}

// logReceived emits the debug-level "request received" line spec.md §9
// requires of every Router method, tagged with the request's message id.
func (r *Router) logReceived(op string, messageID vaulttypes.MessageID) {
	vaultlog.WithMessageID(r.log, messageID.String()).Debug().Str("op", op).Msg("request received")
}

// logCompleted emits the matching "request completed" line once the
// underlying Vault call has returned.
func (r *Router) logCompleted(op string, messageID vaulttypes.MessageID, err error) {
	l := vaultlog.WithMessageID(r.log, messageID.String()).Debug().Str("op", op)
	if err != nil {
		l.Err(err).Msg("request completed")
		return
	}
	l.Msg("request completed")
}

// Events returns the Router's outbound event channel. The caller owns
// draining it; the Router never closes it.
func (r *Router) Events() <-chan Event {
	return r.out
}

// post delivers ev on the outbound channel and reports whether delivery
// succeeded. The Router never closes its own channel, so this only ever
// reports false if an embedder closes the channel out from under it.
func (r *Router) post(ev Event) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	r.out <- ev
	return true
}

// GetAccountInfo issues get_account_info (spec.md §6).
func (r *Router) GetAccountInfo(dst vaulttypes.Authority, messageID vaulttypes.MessageID) bool {
	r.logReceived("GetAccountInfo", messageID)
	info, err := r.vault.GetAccountInfo(dst)
	ev := Event{Kind: KindGetAccountInfo, MessageID: messageID}
	if err != nil {
		ev.AccountInfo = Failed[account.Info](err)
	} else {
		ev.AccountInfo = Ok(info)
	}
	r.logCompleted("GetAccountInfo", messageID, err)
	return r.post(ev)
}

// PutIData issues put_idata (spec.md §6).
func (r *Router) PutIData(dst vaulttypes.Authority, blob []byte, messageID vaulttypes.MessageID) bool {
	r.logReceived("PutIData", messageID)
	name, err := r.vault.PutIData(dst, blob)
	ev := Event{Kind: KindPutIData, MessageID: messageID}
	if err != nil {
		ev.Name = Failed[vaulttypes.Name](err)
	} else {
		ev.Name = Ok(name)
	}
	r.logCompleted("PutIData", messageID, err)
	return r.post(ev)
}

// GetIData issues get_idata (spec.md §6).
func (r *Router) GetIData(dst vaulttypes.Authority, name vaulttypes.Name, messageID vaulttypes.MessageID) bool {
	r.logReceived("GetIData", messageID)
	blob, err := r.vault.GetIData(dst, name)
	ev := Event{Kind: KindGetIData, MessageID: messageID}
	if err != nil {
		ev.Blob = Failed[[]byte](err)
	} else {
		ev.Blob = Ok(blob)
	}
	r.logCompleted("GetIData", messageID, err)
	return r.post(ev)
}

// PutMData issues put_mdata (spec.md §6).
func (r *Router) PutMData(dst vaulttypes.Authority, req vault.PutMDataRequest, requesterKey identity.PublicKey, messageID vaulttypes.MessageID) bool {
	r.logReceived("PutMData", messageID)
	err := r.vault.PutMData(dst, req, requesterKey)
	ev := Event{Kind: KindPutMData, MessageID: messageID}
	if err != nil {
		ev.Unit = Failed[struct{}](err)
	} else {
		ev.Unit = Ok(struct{}{})
	}
	r.logCompleted("PutMData", messageID, err)
	return r.post(ev)
}

// GetMDataVersion issues get_mdata_version (spec.md §6).
func (r *Router) GetMDataVersion(dst vaulttypes.Authority, name vaulttypes.Name, tag uint64, messageID vaulttypes.MessageID) bool {
	r.logReceived("GetMDataVersion", messageID)
	version, err := r.vault.GetMDataVersion(dst, name, tag)
	ev := Event{Kind: KindGetMDataVersion, MessageID: messageID}
	if err != nil {
		ev.Version = Failed[uint64](err)
	} else {
		ev.Version = Ok(version)
	}
	r.logCompleted("GetMDataVersion", messageID, err)
	return r.post(ev)
}

// ListMDataEntries issues list_mdata_entries (spec.md §6).
func (r *Router) ListMDataEntries(dst vaulttypes.Authority, name vaulttypes.Name, tag uint64, messageID vaulttypes.MessageID) bool {
	r.logReceived("ListMDataEntries", messageID)
	entries, err := r.vault.ListMDataEntries(dst, name, tag)
	ev := Event{Kind: KindListMDataEntries, MessageID: messageID}
	if err != nil {
		ev.Entries = Failed[map[string]vaulttypes.Value](err)
	} else {
		ev.Entries = Ok(entries)
	}
	r.logCompleted("ListMDataEntries", messageID, err)
	return r.post(ev)
}

// ListMDataKeys issues list_mdata_keys (spec.md §6).
func (r *Router) ListMDataKeys(dst vaulttypes.Authority, name vaulttypes.Name, tag uint64, messageID vaulttypes.MessageID) bool {
	r.logReceived("ListMDataKeys", messageID)
	keys, err := r.vault.ListMDataKeys(dst, name, tag)
	ev := Event{Kind: KindListMDataKeys, MessageID: messageID}
	if err != nil {
		ev.Keys = Failed[[]string](err)
	} else {
		ev.Keys = Ok(keys)
	}
	r.logCompleted("ListMDataKeys", messageID, err)
	return r.post(ev)
}

// ListMDataValues issues list_mdata_values (spec.md §6).
func (r *Router) ListMDataValues(dst vaulttypes.Authority, name vaulttypes.Name, tag uint64, messageID vaulttypes.MessageID) bool {
	r.logReceived("ListMDataValues", messageID)
	values, err := r.vault.ListMDataValues(dst, name, tag)
	ev := Event{Kind: KindListMDataValues, MessageID: messageID}
	if err != nil {
		ev.Values = Failed[[]vaulttypes.Value](err)
	} else {
		ev.Values = Ok(values)
	}
	r.logCompleted("ListMDataValues", messageID, err)
	return r.post(ev)
}

// GetMDataValue issues get_mdata_value (spec.md §6).
func (r *Router) GetMDataValue(dst vaulttypes.Authority, name vaulttypes.Name, tag uint64, key string, messageID vaulttypes.MessageID) bool {
	r.logReceived("GetMDataValue", messageID)
	value, err := r.vault.GetMDataValue(dst, name, tag, key)
	ev := Event{Kind: KindGetMDataValue, MessageID: messageID}
	if err != nil {
		ev.Value = Failed[vaulttypes.Value](err)
	} else {
		ev.Value = Ok(value)
	}
	r.logCompleted("GetMDataValue", messageID, err)
	return r.post(ev)
}

// MutateMDataEntries issues mutate_mdata_entries (spec.md §6).
func (r *Router) MutateMDataEntries(dst vaulttypes.Authority, name vaulttypes.Name, tag uint64, actions map[string]vaulttypes.EntryAction, requesterKey identity.PublicKey, messageID vaulttypes.MessageID) bool {
	r.logReceived("MutateMDataEntries", messageID)
	err := r.vault.MutateMDataEntries(dst, name, tag, actions, requesterKey)
	ev := Event{Kind: KindMutateMDataEntries, MessageID: messageID}
	if err != nil {
		ev.Unit = Failed[struct{}](err)
	} else {
		ev.Unit = Ok(struct{}{})
	}
	r.logCompleted("MutateMDataEntries", messageID, err)
	return r.post(ev)
}

// ListMDataPermissions issues list_mdata_permissions (spec.md §6).
func (r *Router) ListMDataPermissions(dst vaulttypes.Authority, name vaulttypes.Name, tag uint64, messageID vaulttypes.MessageID) bool {
	r.logReceived("ListMDataPermissions", messageID)
	perms, err := r.vault.ListMDataPermissions(dst, name, tag)
	ev := Event{Kind: KindListMDataPermissions, MessageID: messageID}
	if err != nil {
		ev.Permissions = Failed[map[vaulttypes.User]vaulttypes.PermissionSet](err)
	} else {
		ev.Permissions = Ok(perms)
	}
	r.logCompleted("ListMDataPermissions", messageID, err)
	return r.post(ev)
}

// ListMDataUserPermissions issues list_mdata_user_permissions (spec.md §6).
func (r *Router) ListMDataUserPermissions(dst vaulttypes.Authority, name vaulttypes.Name, tag uint64, user vaulttypes.User, messageID vaulttypes.MessageID) bool {
	r.logReceived("ListMDataUserPermissions", messageID)
	perms, err := r.vault.ListMDataUserPermissions(dst, name, tag, user)
	ev := Event{Kind: KindListMDataUserPermissions, MessageID: messageID}
	if err != nil {
		ev.UserPermissions = Failed[vaulttypes.PermissionSet](err)
	} else {
		ev.UserPermissions = Ok(perms)
	}
	r.logCompleted("ListMDataUserPermissions", messageID, err)
	return r.post(ev)
}

// SetMDataUserPermissions issues set_mdata_user_permissions (spec.md §6).
func (r *Router) SetMDataUserPermissions(dst vaulttypes.Authority, name vaulttypes.Name, tag uint64, user vaulttypes.User, perms vaulttypes.PermissionSet, version uint64, requesterKey identity.PublicKey, messageID vaulttypes.MessageID) bool {
	r.logReceived("SetMDataUserPermissions", messageID)
	err := r.vault.SetMDataUserPermissions(dst, name, tag, user, perms, version, requesterKey)
	ev := Event{Kind: KindSetMDataUserPermissions, MessageID: messageID}
	if err != nil {
		ev.Unit = Failed[struct{}](err)
	} else {
		ev.Unit = Ok(struct{}{})
	}
	r.logCompleted("SetMDataUserPermissions", messageID, err)
	return r.post(ev)
}

// DelMDataUserPermissions issues del_mdata_user_permissions (spec.md §6).
func (r *Router) DelMDataUserPermissions(dst vaulttypes.Authority, name vaulttypes.Name, tag uint64, user vaulttypes.User, version uint64, requesterKey identity.PublicKey, messageID vaulttypes.MessageID) bool {
	r.logReceived("DelMDataUserPermissions", messageID)
	err := r.vault.DelMDataUserPermissions(dst, name, tag, user, version, requesterKey)
	ev := Event{Kind: KindDelMDataUserPermissions, MessageID: messageID}
	if err != nil {
		ev.Unit = Failed[struct{}](err)
	} else {
		ev.Unit = Ok(struct{}{})
	}
	r.logCompleted("DelMDataUserPermissions", messageID, err)
	return r.post(ev)
}
