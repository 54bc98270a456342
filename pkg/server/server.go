// Package server implements the stream echo server. The Server accepts
// connections and runs one handler goroutine per connection. Handlers echo
// every chunk they read until the peer leaves, an I/O error occurs or they
// observe the shared shutdown signal.
package server

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"aarambh/aarambhnet/pkg/config"
	"aarambh/aarambhnet/pkg/log"
	netpkg "aarambh/aarambhnet/pkg/net"
	"aarambh/aarambhnet/pkg/neterr"
	"aarambh/aarambhnet/pkg/semaphore"
	"aarambh/aarambhnet/pkg/shutdown"
	"aarambh/aarambhnet/pkg/transport"
)

const (
	minAcceptBackoff = 5 * time.Millisecond
	maxAcceptBackoff = time.Second
)

// Server is a bound stream echo server.
type Server struct {
	cfg    *config.Shared
	logger *log.Logger

	nl  net.Listener
	sig *shutdown.Signal
	sem *semaphore.ConnSemaphore
	rec *log.Recorder

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error

	wg sync.WaitGroup
}

// Bind opens the listener described by cfg. Malformed, taken or forbidden
// addresses fail with a *neterr.BindError. The context is handed to
// transports that tie accepted connections to it (ws).
func Bind(ctx context.Context, cfg *config.Shared) (*Server, error) {
	if !cfg.Protocol.IsStream() {
		return nil, fmt.Errorf("server.Bind(): %q is not a stream protocol", cfg.Protocol)
	}

	var rec *log.Recorder
	if cfg.Record != "" {
		var err error
		rec, err = log.NewRecorder(cfg.Record)
		if err != nil {
			return nil, fmt.Errorf("enabling recording to %s: %w", cfg.Record, err)
		}
	}

	nl, err := netpkg.Listen(ctx, cfg)
	if err != nil {
		rec.Close()
		return nil, err
	}

	return &Server{
		cfg:    cfg,
		logger: cfg.Logger,
		nl:     nl,
		sig:    shutdown.New(),
		sem:    semaphore.New(cfg.MaxConns, cfg.Timeout),
		rec:    rec,
	}, nil
}

// Addr returns the address the server listens on.
func (s *Server) Addr() net.Addr {
	return s.nl.Addr()
}

// Run accepts connections until Close is called or ctx is done, both return
// nil. Every connection is echoed in its own goroutine. Cancelling ctx also
// ends every handler. A listener that fails without being closed by us ends
// Run with a *neterr.RuntimeError.
func (s *Server) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			s.nl.Close()
		case <-done:
		}
	}()

	s.logger.InfoMsg("Listening on %s://%s\n", s.cfg.Protocol, s.nl.Addr())

	var backoff time.Duration
	for {
		conn, err := s.nl.Accept()
		if err != nil {
			if s.closed.Load() || ctx.Err() != nil {
				return nil
			}
			if transport.IsClosed(err) {
				return &neterr.RuntimeError{Op: "accept", Err: err}
			}

			backoff = nextBackoff(backoff)
			s.logger.ErrorMsg("Accept(): %s, retrying in %s\n", err, backoff)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil
			}
			continue
		}
		backoff = 0

		if err := s.sem.Acquire(ctx); err != nil {
			s.logger.WarnMsg("Dropping connection from %s: %s\n", conn.RemoteAddr(), err)
			conn.Close()
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.sem.Release()

			s.handle(ctx, conn)
		}()
	}
}

func nextBackoff(d time.Duration) time.Duration {
	if d == 0 {
		return minAcceptBackoff
	}
	d *= 2
	if d > maxAcceptBackoff {
		d = maxAcceptBackoff
	}
	return d
}

// Shutdown wakes one handler, the one waiting longest. Without active
// handlers the notification is kept for the next connection. Shutdown does
// not block and does not wait for the handler to finish. Cancel the context
// given to Run to stop all of them.
func (s *Server) Shutdown() {
	s.sig.Notify()
}

// Close stops accepting connections. Running handlers are not affected.
func (s *Server) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		if err := s.nl.Close(); err != nil && !transport.IsClosed(err) {
			s.closeErr = err
		}
		if err := s.rec.Close(); err != nil && s.closeErr == nil {
			s.closeErr = err
		}
	})
	return s.closeErr
}

// Wait blocks until every handler started by Run has returned. Call it after
// Run returned.
func (s *Server) Wait() {
	s.wg.Wait()
}
