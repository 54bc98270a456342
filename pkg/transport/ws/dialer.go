// Package ws provides a stream transport carried in binary WebSocket
// messages.
package ws

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/coder/websocket"
)

// Dial opens a WebSocket connection to ws://addr/. The handshake is bounded
// by timeout (0 means none); the returned connection lives until ctx is done
// or it is closed.
func Dial(ctx context.Context, addr string, timeout time.Duration) (net.Conn, error) {
	url := fmt.Sprintf("ws://%s/", addr)

	dialCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	c, _, err := websocket.Dial(dialCtx, url, &websocket.DialOptions{
		Subprotocols: []string{subprotocol},
	})
	if err != nil {
		return nil, fmt.Errorf("websocket.Dial(%s): %w", url, err)
	}

	return websocket.NetConn(ctx, c, websocket.MessageBinary), nil
}
