// Package tcp provides the plain TCP transport.
package tcp

import (
	"context"
	"fmt"
	"net"
	"time"

	"aarambh/aarambhnet/pkg/config"
)

// Dial connects to addr, giving up after timeout (0 means no timeout).
// The deps parameter is optional and can be nil to use default implementations.
func Dial(ctx context.Context, addr string, timeout time.Duration, deps *config.Dependencies) (net.Conn, error) {
	tcpAddr, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("net.ResolveTCPAddr(tcp, %s): %w", addr, err)
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	dialerFn := config.GetTCPDialerFunc(deps)
	conn, err := dialerFn(ctx, "tcp", tcpAddr)
	if err != nil {
		return nil, fmt.Errorf("dial(tcp, %s): %w", addr, err)
	}

	if tc, ok := conn.(*net.TCPConn); ok {
		_ = tc.SetKeepAlive(true)
	}

	return conn, nil
}
