// Package datagram implements the UDP echo server: a single loop that sends
// every datagram back to its source until shutdown is signaled.
package datagram

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"aarambh/aarambhnet/pkg/config"
	"aarambh/aarambhnet/pkg/format"
	"aarambh/aarambhnet/pkg/log"
	"aarambh/aarambhnet/pkg/neterr"
	"aarambh/aarambhnet/pkg/shutdown"
	"aarambh/aarambhnet/pkg/transport"
)

const (
	minReadBackoff = 5 * time.Millisecond
	maxReadBackoff = time.Second
)

// Server is a bound UDP echo server.
type Server struct {
	cfg    *config.Shared
	logger *log.Logger

	pc  net.PacketConn
	sig *shutdown.Signal

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// Bind opens the UDP socket described by cfg. Malformed, taken or forbidden
// addresses fail with a *neterr.BindError.
func Bind(cfg *config.Shared) (*Server, error) {
	if cfg.Protocol != config.ProtoUDP {
		return nil, fmt.Errorf("datagram.Bind(): %q is not udp", cfg.Protocol)
	}

	addr := cfg.Addr()
	if _, err := net.ResolveUDPAddr("udp", addr); err != nil {
		return nil, neterr.InvalidAddress("udp", addr, err)
	}

	listenPacket := config.GetPacketListenerFunc(cfg.Deps)
	pc, err := listenPacket("udp", addr)
	if err != nil {
		return nil, neterr.NewBindError("udp", addr, err)
	}

	return &Server{
		cfg:    cfg,
		logger: cfg.Logger,
		pc:     pc,
		sig:    shutdown.New(),
	}, nil
}

// LocalAddr returns the address the server receives on.
func (s *Server) LocalAddr() net.Addr {
	return s.pc.LocalAddr()
}

// Run echoes datagrams until Shutdown is called, ctx is done or the server
// is closed, all of which return nil. Payloads longer than the buffer are
// truncated. Failed sends are logged and the loop continues. A socket closed
// by someone else ends Run with a *neterr.RuntimeError.
func (s *Server) Run(ctx context.Context) error {
	w := s.sig.Subscribe()
	defer w.Stop()

	var stopped atomic.Bool
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-w.C():
		case <-ctx.Done():
		case <-done:
			return
		}
		stopped.Store(true)
		s.pc.SetReadDeadline(time.Now())
	}()

	s.logger.InfoMsg("Listening on udp://%s\n", s.pc.LocalAddr())

	buf := make([]byte, s.cfg.GetBufferSize())
	var backoff time.Duration
	for {
		n, addr, err := s.pc.ReadFrom(buf)
		if stopped.Load() {
			s.logger.WarnMsg("UDP server on %s shutting down\n", s.pc.LocalAddr())
			return nil
		}

		if err != nil {
			if s.closed.Load() {
				return nil
			}
			if transport.IsClosed(err) {
				return &neterr.RuntimeError{Op: "receive", Err: err}
			}

			backoff = nextBackoff(backoff)
			s.logger.ErrorMsg("%s\n", &neterr.IOError{Op: "receive", Err: err})
			time.Sleep(backoff)
			continue
		}
		backoff = 0

		s.logger.VerboseMsg("Received %d bytes from %s: %s", n, addr, format.Payload(buf[:n]))

		if _, err := s.pc.WriteTo(buf[:n], addr); err != nil {
			s.logger.ErrorMsg("%s\n", &neterr.IOError{Op: "send", Remote: addr.String(), Err: err})
		}
	}
}

func nextBackoff(d time.Duration) time.Duration {
	if d == 0 {
		return minReadBackoff
	}
	d *= 2
	if d > maxReadBackoff {
		d = maxReadBackoff
	}
	return d
}

// Shutdown wakes the receive loop. Called before Run, the notification is
// kept and the next Run returns right away.
func (s *Server) Shutdown() {
	s.sig.Notify()
}

// Close closes the socket, which ends Run.
func (s *Server) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		if err := s.pc.Close(); err != nil && !transport.IsClosed(err) {
			s.closeErr = err
		}
	})
	return s.closeErr
}
