// Package config holds the settings shared by the echo servers, the stream
// client and the command line, plus optional file based defaults.
package config

import (
	"fmt"
	"time"

	"aarambh/aarambhnet/pkg/format"
	"aarambh/aarambhnet/pkg/log"
)

// Protocol identifies a transport.
type Protocol int

const (
	// ProtoTCP is a plain TCP stream.
	ProtoTCP Protocol = iota + 1
	// ProtoWS is a stream carried in binary WebSocket messages.
	ProtoWS
	// ProtoKCP is a reliable stream on top of UDP datagrams.
	ProtoKCP
	// ProtoUDP is raw datagrams.
	ProtoUDP
)

// String returns the URL scheme of the protocol, or "" if unknown.
func (p Protocol) String() string {
	switch p {
	case ProtoTCP:
		return "tcp"
	case ProtoWS:
		return "ws"
	case ProtoKCP:
		return "kcp"
	case ProtoUDP:
		return "udp"
	default:
		return ""
	}
}

// IsStream reports whether connections of this protocol are byte streams
// served by the connection acceptor.
func (p Protocol) IsStream() bool {
	return p == ProtoTCP || p == ProtoWS || p == ProtoKCP
}

// ParseProtocol maps a URL scheme to a Protocol.
func ParseProtocol(s string) (Protocol, error) {
	for _, p := range []Protocol{ProtoTCP, ProtoWS, ProtoKCP, ProtoUDP} {
		if p.String() == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown protocol %q", s)
}

// DefaultBufferSize is the size of the per connection read buffer and the
// maximum datagram payload.
const DefaultBufferSize = 1024

// maxBufferSize is the largest UDP payload over IPv4.
const maxBufferSize = 65507

// Shared holds the settings every server and client needs.
type Shared struct {
	Protocol Protocol
	Host     string
	Port     int

	BufferSize int           // 0 means DefaultBufferSize
	Mux        bool          // multiplex streams with yamux on top of the transport
	MaxConns   int           // 0 means unlimited
	Timeout    time.Duration // dial and slot acquisition timeout, 0 means none
	Verbose    bool
	Record     string // traffic record file of the stream server, empty disables recording

	Logger *log.Logger
	Deps   *Dependencies
}

// Addr returns the host:port form of the configured endpoint.
func (c *Shared) Addr() string {
	return format.Addr(c.Host, c.Port)
}

// GetBufferSize returns the effective buffer size.
func (c *Shared) GetBufferSize() int {
	if c.BufferSize <= 0 {
		return DefaultBufferSize
	}
	return c.BufferSize
}

// Validate checks the shared settings and returns every problem found.
func (c *Shared) Validate() []error {
	var errors []error

	if c.Protocol.String() == "" {
		errors = append(errors, fmt.Errorf("protocol must be one of tcp|ws|kcp|udp"))
	}

	if err := validatePort(c.Port); err != nil {
		errors = append(errors, fmt.Errorf("port: %s", err))
	}

	if c.BufferSize < 0 || c.BufferSize > maxBufferSize {
		errors = append(errors, fmt.Errorf("'--buffer' must be in [1, %d]", maxBufferSize))
	}

	if c.MaxConns < 0 {
		errors = append(errors, fmt.Errorf("'--max-conns' must not be negative"))
	}

	if c.Timeout < 0 {
		errors = append(errors, fmt.Errorf("'--timeout' must not be negative"))
	}

	if c.Protocol == ProtoUDP {
		if c.Mux {
			errors = append(errors, fmt.Errorf("'--mux' requires a stream protocol (tcp|ws|kcp)"))
		}
		if c.MaxConns > 0 {
			errors = append(errors, fmt.Errorf("'--max-conns' requires a stream protocol (tcp|ws|kcp)"))
		}
		if c.Record != "" {
			errors = append(errors, fmt.Errorf("'--record' requires a stream protocol (tcp|ws|kcp)"))
		}
	}

	return errors
}
