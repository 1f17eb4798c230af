// Package common defines the error taxonomy shared by the store, the remote
// RPC client and the HTTP layer. Every failure that crosses a package boundary
// is an *Error carrying one Kind; callers match with errors.Is against the
// sentinels below or errors.As to reach the payload.
package common

import (
	"errors"
	"fmt"
)

// Kind is the closed set of failure classes surfaced by nodekeeper.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindInvalidInput
	KindDatabase
	KindRemoteConnection
	KindRemoteProtocol
	KindRemoteParse
	KindRemoteEmptyResult
)

// Kinds lists every Kind in declaration order.
var Kinds = []Kind{
	KindInternal,
	KindNotFound,
	KindInvalidInput,
	KindDatabase,
	KindRemoteConnection,
	KindRemoteProtocol,
	KindRemoteParse,
	KindRemoteEmptyResult,
}

func (k Kind) String() string {
	switch k {
	case KindInternal:
		return "internal"
	case KindNotFound:
		return "not_found"
	case KindInvalidInput:
		return "invalid_input"
	case KindDatabase:
		return "database"
	case KindRemoteConnection:
		return "remote_connection"
	case KindRemoteProtocol:
		return "remote_protocol"
	case KindRemoteParse:
		return "remote_parse"
	case KindRemoteEmptyResult:
		return "remote_empty_result"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is a classified failure.
//
// Code and Message are only meaningful for KindRemoteProtocol, where they hold
// the JSON-RPC error object verbatim. For the other kinds Message is a short
// human-readable description and Err the underlying cause, if any.
type Error struct {
	Kind    Kind
	Code    int
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindRemoteProtocol:
		return fmt.Sprintf("rpc error (code %d): %s", e.Code, e.Message)
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same Kind, so that
// errors.Is(err, ErrorNotFound) works regardless of payload.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	// Store errors.
	ErrorNotFound     = &Error{Kind: KindNotFound, Message: "not found"}
	ErrorInvalidInput = &Error{Kind: KindInvalidInput, Message: "invalid input"}
	ErrorDatabase     = &Error{Kind: KindDatabase, Message: "database error"}

	// Remote RPC errors.
	ErrorRemoteConnection  = &Error{Kind: KindRemoteConnection, Message: "remote connection error"}
	ErrorRemoteProtocol    = &Error{Kind: KindRemoteProtocol}
	ErrorRemoteParse       = &Error{Kind: KindRemoteParse, Message: "remote parse error"}
	ErrorRemoteEmptyResult = &Error{Kind: KindRemoteEmptyResult, Message: "remote returned no result"}

	ErrorInternal = &Error{Kind: KindInternal, Message: "internal error"}
)

// NotFound builds a KindNotFound error with a specific message.
func NotFound(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// InvalidInput builds a KindInvalidInput error.
func InvalidInput(msg string) error {
	return &Error{Kind: KindInvalidInput, Message: msg}
}

// Database wraps a storage failure. Errors that are already classified are
// returned untouched so NotFound keeps its kind when it bubbles out of a
// transaction.
func Database(err error) error {
	if err == nil {
		return nil
	}
	var ce *Error
	if errors.As(err, &ce) {
		return err
	}
	return &Error{Kind: KindDatabase, Message: "database error", Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindInternal
}
