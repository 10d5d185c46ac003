// Package errs provides printctl's single wrapped error type and its kind
// taxonomy (spec.md §7).
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an Error for callers that need to branch on cause
// without string-matching.
type Kind int

const (
	KindUnknown Kind = iota
	KindIO
	KindSerialOpen
	KindDisconnected
	KindChannelSend
	KindChannelRecv
	KindTimeout
	KindFirmware
	KindNotConnected
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindSerialOpen:
		return "serial_open"
	case KindDisconnected:
		return "disconnected"
	case KindChannelSend:
		return "channel_send"
	case KindChannelRecv:
		return "channel_recv"
	case KindTimeout:
		return "timeout"
	case KindFirmware:
		return "firmware"
	case KindNotConnected:
		return "not_connected"
	default:
		return "unknown"
	}
}

// Error is printctl's single wrapped error type: an operation name, a
// Kind, and the underlying cause.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New wraps err (which may be nil) as an Error of kind produced by op.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the Kind carried by err, or KindUnknown if err is nil or
// does not wrap an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
