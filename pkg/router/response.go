// Package router implements the mock vault's request/response pump
// (spec.md C6): a typed request surface, one method per operation, each
// taking a destination Authority, the operation's arguments, and a
// caller-supplied message id, and posting exactly one Response event to
// a single outbound channel. Grounded on cuemby/warren's pkg/events.Broker
// (channel-based pub/sub, buffered, non-blocking publish) narrowed from
// many-subscriber broadcast to the spec's single consumer, and on
// pkg/manager/fsm.go's closed, string-keyed command enum for Kind.
package router

import (
	"github.com/safevault/mockvault/pkg/account"
	"github.com/safevault/mockvault/pkg/vaulterrors"
	"github.com/safevault/mockvault/pkg/vaulttypes"
)

// Kind identifies which request a Response answers, mirroring the
// catalogue in spec.md §6. Response variants are named identically to
// their request.
type Kind string

const (
	KindConnected                Kind = "Connected"
	KindGetAccountInfo           Kind = "GetAccountInfo"
	KindPutIData                 Kind = "PutIData"
	KindGetIData                 Kind = "GetIData"
	KindPutMData                 Kind = "PutMData"
	KindGetMDataVersion          Kind = "GetMDataVersion"
	KindListMDataEntries         Kind = "ListMDataEntries"
	KindListMDataKeys            Kind = "ListMDataKeys"
	KindListMDataValues          Kind = "ListMDataValues"
	KindGetMDataValue            Kind = "GetMDataValue"
	KindMutateMDataEntries       Kind = "MutateMDataEntries"
	KindListMDataPermissions     Kind = "ListMDataPermissions"
	KindListMDataUserPermissions Kind = "ListMDataUserPermissions"
	KindSetMDataUserPermissions  Kind = "SetMDataUserPermissions"
	KindDelMDataUserPermissions  Kind = "DelMDataUserPermissions"
)

// Result is the Result<T, ClientError> the spec assigns to every response
// payload: exactly one of Value or Err is meaningful, never both.
type Result[T any] struct {
	Value T
	Err   *vaulterrors.Error
}

// Ok wraps a successful payload.
func Ok[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

// Failed wraps a failed operation's error.
func Failed[T any](err error) Result[T] {
	var ve *vaulterrors.Error
	if e, ok := err.(*vaulterrors.Error); ok {
		ve = e
	} else {
		ve = vaulterrors.Wrap(vaulterrors.InvalidOperation, "router", err)
	}
	return Result[T]{Err: ve}
}

// Event is one message on the Router's outbound channel: either the
// initial Connected signal, or a Response carrying the message id of the
// request it answers.
type Event struct {
	Kind      Kind
	MessageID vaulttypes.MessageID // zero for Connected

	AccountInfo     Result[account.Info]
	Name            Result[vaulttypes.Name]
	Blob            Result[[]byte]
	Unit            Result[struct{}]
	Version         Result[uint64]
	Entries         Result[map[string]vaulttypes.Value]
	Keys            Result[[]string]
	Values          Result[[]vaulttypes.Value]
	Value           Result[vaulttypes.Value]
	Permissions     Result[map[vaulttypes.User]vaulttypes.PermissionSet]
	UserPermissions Result[vaulttypes.PermissionSet]
}
