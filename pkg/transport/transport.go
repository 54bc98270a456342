// Package transport provides the stream transports of the echo server and
// client. Each transport package exposes two functions instead of
// interfaces:
//
// Listen Functions:
//   - Accept: context (ws only), address and optional dependencies
//   - Return: a net.Listener or a *neterr.BindError
//   - Accepted connections support read deadlines, the servers rely on
//     them to interrupt blocked reads
//
// Dial Functions:
//   - Accept: context, address, timeout and optional dependencies
//   - Return: net.Conn or error
//
// Transport-specific notes:
//   - tcp: plain TCP with keep-alive
//   - ws: one binary WebSocket message stream per connection
//   - kcp: reliable ordered stream over UDP, the remote side closing a session
//     is not signaled, so sessions end on deadline, shutdown or local close
//   - mux: wraps any listener or connection with yamux, every stream is a
//     connection of its own
//
// Example usage:
//
//	l, err := tcp.Listen("127.0.0.1:8000", deps)
//	conn, err := ws.Dial(ctx, "127.0.0.1:8000", 10*time.Second)
//	l = mux.Listen(l, logger)
package transport

import (
	"errors"
	"io"
	"net"
	"strings"
)

// IsClosed reports whether err means the listener or connection was closed
// locally.
func IsClosed(err error) bool {
	if err == nil {
		return false
	}

	return errors.Is(err, net.ErrClosed) ||
		errors.Is(err, io.ErrClosedPipe) ||
		strings.Contains(err.Error(), "use of closed network connection")
}
