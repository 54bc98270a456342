// Package neterr defines the error types returned and logged by the echo
// servers: BindError when a server cannot be created, IOError for failures
// confined to one connection or datagram, RuntimeError when a serve loop
// itself cannot continue.
package neterr

import (
	"errors"
	"fmt"
	"net"
)

// Reason classifies why a bind failed.
type Reason int

const (
	// ReasonOther is any bind failure not covered below.
	ReasonOther Reason = iota
	// ReasonInvalidAddress means the address could not be parsed or resolved.
	ReasonInvalidAddress
	// ReasonAddressInUse means another socket already holds the address.
	ReasonAddressInUse
	// ReasonPermissionDenied means the process may not bind the address.
	ReasonPermissionDenied
)

// String returns a short human readable name of the reason.
func (r Reason) String() string {
	switch r {
	case ReasonInvalidAddress:
		return "invalid address"
	case ReasonAddressInUse:
		return "address in use"
	case ReasonPermissionDenied:
		return "permission denied"
	default:
		return "bind failed"
	}
}

// BindError is returned when a server cannot open its endpoint.
// It is fatal for that server and never retried.
type BindError struct {
	Network string
	Addr    string
	Reason  Reason
	Err     error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("bind(%s, %s): %s: %s", e.Network, e.Addr, e.Reason, e.Err)
}

func (e *BindError) Unwrap() error {
	return e.Err
}

// NewBindError wraps err and classifies it. Address parse errors are
// recognised by type, OS errors by errno.
func NewBindError(network, addr string, err error) *BindError {
	return &BindError{
		Network: network,
		Addr:    addr,
		Reason:  classify(err),
		Err:     err,
	}
}

// InvalidAddress builds a BindError for an address rejected before any
// socket was opened.
func InvalidAddress(network, addr string, err error) *BindError {
	return &BindError{Network: network, Addr: addr, Reason: ReasonInvalidAddress, Err: err}
}

func classify(err error) Reason {
	var addrErr *net.AddrError
	if errors.As(err, &addrErr) {
		return ReasonInvalidAddress
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return ReasonInvalidAddress
	}

	var parseErr *net.ParseError
	if errors.As(err, &parseErr) {
		return ReasonInvalidAddress
	}

	switch {
	case isAddrInUse(err):
		return ReasonAddressInUse
	case isPermissionDenied(err):
		return ReasonPermissionDenied
	}

	return ReasonOther
}

// IsBindError reports whether err is a BindError with the given reason.
func IsBindError(err error, reason Reason) bool {
	var be *BindError
	return errors.As(err, &be) && be.Reason == reason
}

// IOError is a read, write or send failure of a single connection or
// datagram exchange. It ends that unit of work and is only logged.
type IOError struct {
	Op     string
	Remote string
	Err    error
}

func (e *IOError) Error() string {
	if e.Remote == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %s", e.Op, e.Remote, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// RuntimeError ends an accept or receive loop and is returned to the caller.
type RuntimeError struct {
	Op  string
	Err error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}
