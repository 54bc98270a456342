package server

import (
	"context"
	"errors"
	"io"
	"net"
	"sync/atomic"
	"time"

	"aarambh/aarambhnet/pkg/log"
	"aarambh/aarambhnet/pkg/neterr"
	"aarambh/aarambhnet/pkg/shutdown"

	"github.com/google/uuid"
)

// handler echoes one connection. It owns the connection and its buffer.
type handler struct {
	id     string
	conn   net.Conn
	remote string
	buf    []byte
	logger *log.Logger

	stopped atomic.Bool // shutdown observed, the read deadline has been moved
}

func (s *Server) handle(ctx context.Context, conn net.Conn) {
	h := &handler{
		id:     uuid.NewString(),
		conn:   s.rec.Wrap(conn),
		remote: conn.RemoteAddr().String(),
		buf:    make([]byte, s.cfg.GetBufferSize()),
		logger: s.logger,
	}

	h.logger.InfoMsg("New connection from %s (%s)\n", h.remote, h.id)
	defer h.logger.InfoMsg("Connection from %s closed (%s)\n", h.remote, h.id)

	h.run(ctx, s.sig)
}

func (h *handler) run(ctx context.Context, sig *shutdown.Signal) {
	defer h.conn.Close()

	w := sig.Subscribe()
	defer w.Stop()

	done := make(chan struct{})
	defer close(done)
	go h.watch(ctx, w, done)

	for {
		n, err := h.conn.Read(h.buf)
		if h.stopped.Load() {
			h.logger.VerboseMsg("%s: shutdown", h.id)
			return
		}

		if n > 0 {
			if _, werr := h.conn.Write(h.buf[:n]); werr != nil {
				h.logger.ErrorMsg("%s\n", &neterr.IOError{Op: "write", Remote: h.remote, Err: werr})
				return
			}
			h.logger.VerboseMsg("%s: echoed %d bytes", h.id, n)
		}

		if err != nil {
			if !errors.Is(err, io.EOF) {
				h.logger.ErrorMsg("%s\n", &neterr.IOError{Op: "read", Remote: h.remote, Err: err})
			}
			return
		}
	}
}

// watch interrupts a blocked read once the waiter is woken or ctx is done.
// Writes are never interrupted, only the read deadline is moved.
func (h *handler) watch(ctx context.Context, w *shutdown.Waiter, done <-chan struct{}) {
	select {
	case <-w.C():
	case <-ctx.Done():
	case <-done:
		return
	}

	h.stopped.Store(true)
	h.conn.SetReadDeadline(time.Now())
}
