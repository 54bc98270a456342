// Package helpers provides common utilities for end-to-end tests.
package helpers

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"aarambh/aarambhnet/pkg/config"
	"aarambh/aarambhnet/pkg/datagram"
	"aarambh/aarambhnet/pkg/server"
)

// StreamServer is a running stream echo server plus the config a client
// needs to reach it.
type StreamServer struct {
	Server    *server.Server
	ClientCfg *config.Shared
	Done      <-chan error
}

// StartStreamServer binds an echo server on an ephemeral loopback port and
// runs it until ctx is done or the test ends.
func StartStreamServer(t *testing.T, ctx context.Context, cfg *config.Shared) *StreamServer {
	t.Helper()

	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}

	s, err := server.Bind(ctx, cfg)
	if err != nil {
		t.Fatalf("server.Bind() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	return &StreamServer{
		Server: s,
		ClientCfg: &config.Shared{
			Protocol:   cfg.Protocol,
			Host:       cfg.Host,
			Port:       Port(t, s.Addr()),
			BufferSize: cfg.BufferSize,
			Mux:        cfg.Mux,
			Timeout:    2 * time.Second,
		},
		Done: done,
	}
}

// StartDatagramServer binds a UDP echo server and runs it until ctx is done
// or the test ends.
func StartDatagramServer(t *testing.T, ctx context.Context, cfg *config.Shared) (*datagram.Server, <-chan error) {
	t.Helper()

	s, err := datagram.Bind(cfg)
	if err != nil {
		t.Fatalf("datagram.Bind() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	return s, done
}

// Port extracts the port of a TCP or UDP address.
func Port(t *testing.T, addr net.Addr) int {
	t.Helper()

	_, portStr, err := net.SplitHostPort(addr.String())
	if err != nil {
		t.Fatalf("net.SplitHostPort(%s) error = %v", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("parsing port %q: %v", portStr, err)
	}
	return port
}

// WaitDone waits for a Run result.
func WaitDone(t *testing.T, done <-chan error, d time.Duration) error {
	t.Helper()

	select {
	case err := <-done:
		return err
	case <-time.After(d):
		t.Fatalf("Run() did not return within %s", d)
		return nil
	}
}
