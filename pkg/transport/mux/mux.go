// Package mux multiplexes many echo streams over one transport connection
// with yamux. On the listening side every stream of every session is
// returned by Accept as a connection of its own.
package mux

import (
	"fmt"
	"io"
	stdlog "log"
	"net"
	"sync"

	"aarambh/aarambhnet/pkg/log"
	"aarambh/aarambhnet/pkg/transport"

	"github.com/hashicorp/yamux"
)

func config() *yamux.Config {
	cfg := yamux.DefaultConfig()

	cfg.LogOutput = nil
	cfg.Logger = stdlog.New(io.Discard, "", stdlog.LstdFlags) // discard all console logging in yamux

	return cfg
}

// Listener turns an inner listener of transport connections into a listener
// of yamux streams.
type Listener struct {
	inner  net.Listener
	logger *log.Logger

	streams chan net.Conn
	done    chan struct{}
	errOnce sync.Once
	err     error

	mu       sync.Mutex
	sessions map[*yamux.Session]struct{}
	closed   bool
}

// Listen starts accepting sessions on inner. The returned listener owns inner.
func Listen(inner net.Listener, logger *log.Logger) *Listener {
	l := &Listener{
		inner:    inner,
		logger:   logger,
		streams:  make(chan net.Conn),
		done:     make(chan struct{}),
		sessions: make(map[*yamux.Session]struct{}),
	}
	go l.acceptSessions()
	return l
}

func (l *Listener) acceptSessions() {
	for {
		conn, err := l.inner.Accept()
		if err != nil {
			if transport.IsClosed(err) {
				l.fail(net.ErrClosed)
				return
			}
			l.logger.ErrorMsg("mux: Accept(): %s\n", err)
			continue
		}

		sess, err := yamux.Server(conn, config())
		if err != nil {
			l.logger.ErrorMsg("mux: yamux.Server(%s): %s\n", conn.RemoteAddr(), err)
			conn.Close()
			continue
		}

		if !l.track(sess) {
			sess.Close()
			return
		}

		go l.acceptStreams(sess)
	}
}

func (l *Listener) acceptStreams(sess *yamux.Session) {
	defer l.untrack(sess)
	defer sess.Close()

	for {
		stream, err := sess.Accept()
		if err != nil {
			if err != io.EOF && !transport.IsClosed(err) && err != yamux.ErrSessionShutdown {
				l.logger.VerboseMsg("mux: session %s ended: %s", sess.RemoteAddr(), err)
			}
			return
		}

		select {
		case l.streams <- stream:
		case <-l.done:
			stream.Close()
		}
	}
}

func (l *Listener) track(sess *yamux.Session) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return false
	}
	l.sessions[sess] = struct{}{}
	return true
}

func (l *Listener) untrack(sess *yamux.Session) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.sessions, sess)
}

func (l *Listener) fail(err error) {
	l.errOnce.Do(func() {
		l.err = err
		close(l.done)
	})
}

// Accept returns the next stream opened by any client session.
func (l *Listener) Accept() (net.Conn, error) {
	select {
	case stream := <-l.streams:
		return stream, nil
	case <-l.done:
		return nil, l.err
	}
}

// Close closes the inner listener. Sessions already established keep
// serving the streams that were accepted from them.
func (l *Listener) Close() error {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()

	err := l.inner.Close()
	l.fail(net.ErrClosed)
	return err
}

// Sessions returns the number of live client sessions.
func (l *Listener) Sessions() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.sessions)
}

// Addr returns the address of the inner listener.
func (l *Listener) Addr() net.Addr {
	return l.inner.Addr()
}

// stream is a client side yamux stream that owns its session.
type stream struct {
	net.Conn
	sess *yamux.Session
}

// Close closes the stream, the session and the transport connection.
func (s *stream) Close() error {
	s.Conn.Close()
	return s.sess.Close()
}

// Open starts a yamux client session on conn and opens one stream on it.
// Closing the returned stream closes conn.
func Open(conn net.Conn) (net.Conn, error) {
	sess, err := yamux.Client(conn, config())
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("yamux.Client(conn): %w", err)
	}

	s, err := sess.Open()
	if err != nil {
		sess.Close()
		return nil, fmt.Errorf("session.Open(): %w", err)
	}

	return &stream{Conn: s, sess: sess}, nil
}
