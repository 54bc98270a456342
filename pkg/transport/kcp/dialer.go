// Package kcp provides a reliable stream transport over UDP using the KCP
// protocol.
package kcp

import (
	"context"
	"fmt"
	"net"

	"aarambh/aarambhnet/pkg/config"

	kcp "github.com/xtaci/kcp-go/v5"
)

// session owns the packet connection underneath a dialed KCP session.
type session struct {
	*kcp.UDPSession
	pc net.PacketConn
}

// Close closes the session and its UDP socket.
func (s *session) Close() error {
	err := s.UDPSession.Close()
	if cerr := s.pc.Close(); err == nil {
		err = cerr
	}
	return err
}

// Dial opens a KCP session to addr from an ephemeral local UDP port.
// KCP has no handshake, so dialing succeeds even if nobody listens; errors
// show up on the first read.
// The deps parameter is optional and can be nil to use default implementations.
func Dial(ctx context.Context, addr string, deps *config.Dependencies) (net.Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("net.ResolveUDPAddr(udp, %s): %w", addr, err)
	}

	pc, err := config.GetPacketListenerFunc(deps)("udp", ":0")
	if err != nil {
		return nil, fmt.Errorf("net.ListenPacket(udp, :0): %w", err)
	}

	sess, err := kcp.NewConn(udpAddr.String(), nil, 0, 0, pc)
	if err != nil {
		pc.Close()
		return nil, fmt.Errorf("kcp.NewConn(%s): %w", udpAddr, err)
	}

	tune(sess)

	return &session{UDPSession: sess, pc: pc}, nil
}

// tune configures a session for low latency.
// SetNoDelay(nodelay, interval, resend, nc):
// nodelay on, 10ms update interval, fast resend after 2 ACK skips,
// congestion control off.
func tune(sess *kcp.UDPSession) {
	sess.SetNoDelay(1, 10, 2, 1)
	sess.SetStreamMode(true)
	sess.SetWindowSize(1024, 1024)
}
