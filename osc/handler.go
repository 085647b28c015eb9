package osc

import (
	"slices"

	"golang.org/x/exp/maps"
)

// Handler is an interface for message handlers. Every handler implementation
// for an OSC message must implement this interface.
//
// HandleMessage receives the decoded arguments of a message. A non-nil result
// is sent back to the sender with the same OSC address; a nil result sends
// nothing.
type Handler interface {
	HandleMessage(params []any) ([]any, error)
}

// HandlerFunc implements the Handler interface. Type definition for an OSC
// handler function.
type HandlerFunc func(params []any) ([]any, error)

// HandleMessage calls itself with the given arguments. Implements the Handler
// interface.
func (f HandlerFunc) HandleMessage(params []any) ([]any, error) {
	return f(params)
}

// registry maps exact OSC addresses to handlers.
type registry map[string]Handler

// AddHandler registers the handler for the exact OSC address, replacing any
// handler registered before.
func (s *Server) AddHandler(address string, handler Handler) error {
	if address == "" {
		return ErrEmptyAddress
	}
	s.handlers[address] = handler
	return nil
}

// Handle registers a handler function for the exact OSC address.
func (s *Server) Handle(address string, f HandlerFunc) error {
	return s.AddHandler(address, f)
}

// ClearHandlers removes all registered handlers.
func (s *Server) ClearHandlers() {
	s.handlers = make(registry)
}

// Addresses returns the registered OSC addresses in sorted order.
func (s *Server) Addresses() []string {
	addrs := maps.Keys(s.handlers)
	slices.Sort(addrs)
	return addrs
}
