// Package vaulterrors defines the closed failure taxonomy every mock
// vault response carries, grounded on the spec's flat error enumeration
// (§4.4, §7) rather than the ad-hoc wrapped strings cuemby/warren's
// manager package returns — the Router needs callers to branch on error
// *kind* (LowBalance vs NoSuchAccount), which a bare %w chain can't give
// without a sentinel per case.
package vaulterrors

import (
	"errors"
	"fmt"
)

// Code is one member of the fixed set of failures the mock vault can
// report. The set never grows at the core boundary; an embedder may
// attach extra metadata around an Error but must not invent new Codes.
type Code uint8

const (
	NoSuchData Code = iota
	NoSuchEntry
	NoSuchAccount
	AccountExists
	DataExists
	EntryExists
	AccessDenied
	InvalidOwners
	InvalidSuccessor
	LowBalance
	InvalidOperation
)

func (c Code) String() string {
	switch c {
	case NoSuchData:
		return "NoSuchData"
	case NoSuchEntry:
		return "NoSuchEntry"
	case NoSuchAccount:
		return "NoSuchAccount"
	case AccountExists:
		return "AccountExists"
	case DataExists:
		return "DataExists"
	case EntryExists:
		return "EntryExists"
	case AccessDenied:
		return "AccessDenied"
	case InvalidOwners:
		return "InvalidOwners"
	case InvalidSuccessor:
		return "InvalidSuccessor"
	case LowBalance:
		return "LowBalance"
	case InvalidOperation:
		return "InvalidOperation"
	default:
		return "Unknown"
	}
}

// Error pairs a Code with the operation that produced it. It is the only
// error type the core returns; every failure path in account/idata/mdata
// /vault constructs one via New.
type Error struct {
	Code Code
	Op   string
	Err  error // optional wrapped cause, nil for pure validation failures
}

func New(code Code, op string) *Error {
	return &Error{Code: code, Op: op}
}

func Wrap(code Code, op string, err error) *Error {
	return &Error{Code: code, Op: op, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Code)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a *Error with the same Code, so callers
// can write errors.Is(err, vaulterrors.New(vaulterrors.LowBalance, "")).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// CodeOf extracts the Code from err if it is (or wraps) a *Error, and
// reports false otherwise.
func CodeOf(err error) (Code, bool) {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Code, true
	}
	return 0, false
}
