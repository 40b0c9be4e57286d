package vaulttypes

import "github.com/safevault/mockvault/pkg/identity"

// Action is one of the four permissible mutable-data operations a
// permission set can grant or deny.
type Action uint8

const (
	ActionInsert Action = iota
	ActionUpdate
	ActionDelete
	ActionManagePermissions
)

func (a Action) String() string {
	switch a {
	case ActionInsert:
		return "Insert"
	case ActionUpdate:
		return "Update"
	case ActionDelete:
		return "Delete"
	case ActionManagePermissions:
		return "ManagePermissions"
	default:
		return "Unknown"
	}
}

// Verdict is the three-valued result of looking up a single action in a
// PermissionSet.
type Verdict uint8

const (
	VerdictUnset Verdict = iota
	VerdictAllow
	VerdictDeny
)

// PermissionSet is a three-valued assignment over the four actions. The
// zero value leaves every action unset.
type PermissionSet struct {
	verdicts [4]Verdict
}

// Allow returns a copy of p with action set to allow.
func (p PermissionSet) Allow(action Action) PermissionSet {
	p.verdicts[action] = VerdictAllow
	return p
}

// Deny returns a copy of p with action set to deny.
func (p PermissionSet) Deny(action Action) PermissionSet {
	p.verdicts[action] = VerdictDeny
	return p
}

// Get returns the verdict recorded for action.
func (p PermissionSet) Get(action Action) Verdict {
	return p.verdicts[action]
}

// User identifies a permissions-map subject: either any authenticated
// requester or one specific public signing key.
type User struct {
	IsAny bool
	Key   identity.PublicKey
}

// AnyUser is the User matching every requester not covered by a more
// specific Key entry.
func AnyUser() User {
	return User{IsAny: true}
}

// KeyUser is the User matching exactly the given public signing key.
func KeyUser(key identity.PublicKey) User {
	return User{Key: key}
}
