// Package net opens the stream listeners of the echo server and dials the
// stream transports for the client, hiding the differences between tcp, ws
// and kcp and the optional yamux layer.
package net

import (
	"context"
	"fmt"
	"net"
	"time"

	"aarambh/aarambhnet/pkg/config"
	"aarambh/aarambhnet/pkg/transport/kcp"
	"aarambh/aarambhnet/pkg/transport/mux"
	"aarambh/aarambhnet/pkg/transport/tcp"
	"aarambh/aarambhnet/pkg/transport/ws"
)

// dialDependencies holds injectable dependencies for testing.
type dialDependencies struct {
	dialTCP func(ctx context.Context, addr string, timeout time.Duration, deps *config.Dependencies) (net.Conn, error)
	dialWS  func(ctx context.Context, addr string, timeout time.Duration) (net.Conn, error)
	dialKCP func(ctx context.Context, addr string, deps *config.Dependencies) (net.Conn, error)
	openMux func(conn net.Conn) (net.Conn, error)
}

// Dial connects to the configured remote address with the configured stream
// protocol. The context can be used to cancel the dial; cfg.Timeout bounds
// the connection setup.
func Dial(ctx context.Context, cfg *config.Shared) (net.Conn, error) {
	deps := &dialDependencies{
		dialTCP: tcp.Dial,
		dialWS:  ws.Dial,
		dialKCP: kcp.Dial,
		openMux: mux.Open,
	}
	return dial(ctx, cfg, deps)
}

// dial is the internal implementation that accepts injected dependencies for testing.
func dial(ctx context.Context, cfg *config.Shared, deps *dialDependencies) (net.Conn, error) {
	addr := cfg.Addr()
	cfg.Logger.VerboseMsg("Dialing %s using protocol %s", addr, cfg.Protocol)

	var (
		conn net.Conn
		err  error
	)

	switch cfg.Protocol {
	case config.ProtoTCP:
		conn, err = deps.dialTCP(ctx, addr, cfg.Timeout, cfg.Deps)
	case config.ProtoWS:
		conn, err = deps.dialWS(ctx, addr, cfg.Timeout)
	case config.ProtoKCP:
		conn, err = deps.dialKCP(ctx, addr, cfg.Deps)
	default:
		return nil, fmt.Errorf("protocol %q is not a stream protocol", cfg.Protocol)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Mux {
		cfg.Logger.VerboseMsg("Opening yamux stream")
		conn, err = deps.openMux(conn)
		if err != nil {
			return nil, fmt.Errorf("opening mux stream: %w", err)
		}
	}

	return conn, nil
}
