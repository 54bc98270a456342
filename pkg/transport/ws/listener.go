package ws

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"aarambh/aarambhnet/pkg/config"
	"aarambh/aarambhnet/pkg/log"
	"aarambh/aarambhnet/pkg/neterr"

	"github.com/coder/websocket"
)

// subprotocol is negotiated by both sides so that unrelated WebSocket
// clients are rejected during the upgrade.
const subprotocol = "bin"

// Listener accepts WebSocket upgrades over HTTP and hands out each upgraded
// connection as a net.Conn carrying binary messages.
type Listener struct {
	nl     net.Listener
	server *http.Server
	logger *log.Logger

	// ctx bounds the lifetime of all upgraded connections
	ctx context.Context

	conns     chan net.Conn
	closed    chan struct{}
	closeOnce sync.Once
	serveErr  chan error
}

// Listen opens a TCP listener on addr and starts serving WebSocket upgrades
// on it. Upgraded connections stay usable until ctx is done or they are
// closed; closing the listener does not end them.
// The deps parameter is optional and can be nil to use default implementations.
func Listen(ctx context.Context, addr string, deps *config.Dependencies, logger *log.Logger) (*Listener, error) {
	tcpAddr, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return nil, neterr.InvalidAddress("tcp", addr, err)
	}

	nl, err := config.GetTCPListenerFunc(deps)("tcp", tcpAddr)
	if err != nil {
		return nil, neterr.NewBindError("tcp", addr, err)
	}

	l := &Listener{
		nl:       nl,
		logger:   logger,
		ctx:      ctx,
		conns:    make(chan net.Conn),
		closed:   make(chan struct{}),
		serveErr: make(chan error, 1),
	}
	l.server = &http.Server{
		Handler:           http.HandlerFunc(l.upgrade),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		err := l.server.Serve(nl)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		l.serveErr <- err
	}()

	return l, nil
}

// upgrade accepts the WebSocket handshake and waits until Accept takes the
// connection or the listener closes.
func (l *Listener) upgrade(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		Subprotocols: []string{subprotocol},
	})
	if err != nil {
		l.logger.VerboseMsg("websocket.Accept(%s): %s", r.RemoteAddr, err)
		return
	}

	if c.Subprotocol() != subprotocol {
		c.Close(websocket.StatusPolicyViolation, "subprotocol "+subprotocol+" required")
		return
	}

	conn := websocket.NetConn(l.ctx, c, websocket.MessageBinary)

	select {
	case l.conns <- conn:
	case <-l.closed:
		_ = conn.Close()
	}
}

// Accept waits for the next upgraded connection.
func (l *Listener) Accept() (net.Conn, error) {
	select {
	case conn := <-l.conns:
		return conn, nil
	case <-l.closed:
		return nil, net.ErrClosed
	case err := <-l.serveErr:
		// keep the error for later callers
		l.serveErr <- err
		if err == nil {
			return nil, net.ErrClosed
		}
		return nil, err
	}
}

// Close stops accepting upgrades. Connections already handed out by Accept
// are not affected.
func (l *Listener) Close() error {
	var err error
	l.closeOnce.Do(func() {
		close(l.closed)
		err = l.server.Close()
	})
	return err
}

// Addr returns the address of the underlying TCP listener.
func (l *Listener) Addr() net.Addr {
	return l.nl.Addr()
}
