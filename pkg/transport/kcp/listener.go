package kcp

import (
	"fmt"
	"net"

	"aarambh/aarambhnet/pkg/config"
	"aarambh/aarambhnet/pkg/neterr"

	kcp "github.com/xtaci/kcp-go/v5"
)

// Listener accepts KCP sessions arriving on one UDP socket.
type Listener struct {
	kl *kcp.Listener
	pc net.PacketConn
}

// Listen opens a UDP socket on addr and serves KCP sessions on it.
// The deps parameter is optional and can be nil to use default implementations.
func Listen(addr string, deps *config.Dependencies) (*Listener, error) {
	if _, err := net.ResolveUDPAddr("udp", addr); err != nil {
		return nil, neterr.InvalidAddress("udp", addr, err)
	}

	pc, err := config.GetPacketListenerFunc(deps)("udp", addr)
	if err != nil {
		return nil, neterr.NewBindError("udp", addr, err)
	}

	// no block cipher, no forward error correction
	kl, err := kcp.ServeConn(nil, 0, 0, pc)
	if err != nil {
		pc.Close()
		return nil, neterr.NewBindError("udp", addr, fmt.Errorf("kcp.ServeConn(): %w", err))
	}

	return &Listener{kl: kl, pc: pc}, nil
}

// Accept waits for the next KCP session.
func (l *Listener) Accept() (net.Conn, error) {
	sess, err := l.kl.AcceptKCP()
	if err != nil {
		return nil, fmt.Errorf("AcceptKCP(): %w", err)
	}

	tune(sess)
	return sess, nil
}

// Close stops the listener and releases the UDP socket. Sessions share the
// socket and stop working once it is closed.
func (l *Listener) Close() error {
	err := l.kl.Close()
	if cerr := l.pc.Close(); err == nil {
		err = cerr
	}
	return err
}

// Addr returns the local UDP address.
func (l *Listener) Addr() net.Addr {
	return l.pc.LocalAddr()
}
