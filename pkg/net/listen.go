package net

import (
	"context"
	"fmt"
	"net"

	"aarambh/aarambhnet/pkg/config"
	"aarambh/aarambhnet/pkg/transport/kcp"
	"aarambh/aarambhnet/pkg/transport/mux"
	"aarambh/aarambhnet/pkg/transport/tcp"
	"aarambh/aarambhnet/pkg/transport/ws"
)

// listenDependencies holds injectable dependencies for testing.
type listenDependencies struct {
	listenTCP func(addr string, deps *config.Dependencies) (net.Listener, error)
	listenWS  func(ctx context.Context, cfg *config.Shared, addr string) (net.Listener, error)
	listenKCP func(addr string, deps *config.Dependencies) (net.Listener, error)
}

// Real implementations for production use.
func realListenWS(ctx context.Context, cfg *config.Shared, addr string) (net.Listener, error) {
	l, err := ws.Listen(ctx, addr, cfg.Deps, cfg.Logger)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func realListenKCP(addr string, deps *config.Dependencies) (net.Listener, error) {
	l, err := kcp.Listen(addr, deps)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// Listen opens a stream listener for the configured protocol and address,
// wrapped with yamux if cfg.Mux is set. Failures to open the endpoint are
// *neterr.BindError. WebSocket connections live until ctx is done.
func Listen(ctx context.Context, cfg *config.Shared) (net.Listener, error) {
	deps := &listenDependencies{
		listenTCP: tcp.Listen,
		listenWS:  realListenWS,
		listenKCP: realListenKCP,
	}
	return listen(ctx, cfg, deps)
}

// listen is the internal implementation.
func listen(ctx context.Context, cfg *config.Shared, deps *listenDependencies) (net.Listener, error) {
	addr := cfg.Addr()
	cfg.Logger.VerboseMsg("Creating listener for protocol %s at %s", cfg.Protocol, addr)

	var (
		l   net.Listener
		err error
	)

	switch cfg.Protocol {
	case config.ProtoTCP:
		l, err = deps.listenTCP(addr, cfg.Deps)
	case config.ProtoWS:
		l, err = deps.listenWS(ctx, cfg, addr)
	case config.ProtoKCP:
		l, err = deps.listenKCP(addr, cfg.Deps)
	default:
		return nil, fmt.Errorf("protocol %q is not a stream protocol", cfg.Protocol)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Mux {
		cfg.Logger.VerboseMsg("Multiplexing streams with yamux")
		l = mux.Listen(l, cfg.Logger)
	}

	return l, nil
}
