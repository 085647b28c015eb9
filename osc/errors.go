package osc

import (
	"errors"
	"fmt"
)

// ErrEmptyAddress is returned when registering a handler without an address.
var ErrEmptyAddress = errors.New("osc: empty address")

// errWouldBlock signals that no datagram is currently queued on the socket.
var errWouldBlock = errors.New("osc: would block")

// BindError is returned by NewServer when the local address cannot be
// resolved or bound.
type BindError struct {
	Addr string
	Err  error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("osc: bind %s: %v", e.Addr, e.Err)
}

func (e *BindError) Unwrap() error { return e.Err }

// ParseError is returned when a datagram is not a valid OSC message.
type ParseError struct {
	Offset int
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("osc: parse error at offset %d: %s: %v", e.Offset, e.Reason, e.Err)
	}
	return fmt.Sprintf("osc: parse error at offset %d: %s", e.Offset, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// BuildError is returned when a message argument has no OSC representation.
type BuildError struct {
	Address string
	Index   int
	Value   any
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("osc: build %s: unsupported type %T for argument %d", e.Address, e.Value, e.Index)
}

// HandlerError wraps an error returned, or a panic raised, by a handler.
type HandlerError struct {
	Address string
	Err     error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("osc: handler %s: %v", e.Address, e.Err)
}

func (e *HandlerError) Unwrap() error { return e.Err }

// UnknownAddressError is returned by the dispatch step for a message whose
// address has no registered handler.
type UnknownAddressError struct {
	Address string
}

func (e *UnknownAddressError) Error() string {
	return fmt.Sprintf("osc: unknown address %s", e.Address)
}
