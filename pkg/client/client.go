// Package client is a stream client for the echo server: it connects over any
// stream transport, sends messages and reads the replies.
package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"aarambh/aarambhnet/pkg/config"
	netpkg "aarambh/aarambhnet/pkg/net"
)

// ErrNotConnected is returned when Send or Receive is called before Connect
// or after Close.
var ErrNotConnected = errors.New("not connected")

// Client is a connection to a stream echo server.
type Client struct {
	cfg  *config.Shared
	dial func(ctx context.Context, cfg *config.Shared) (net.Conn, error)

	conn net.Conn
	buf  []byte
}

// New creates a client for the endpoint in cfg. It does not connect.
func New(cfg *config.Shared) *Client {
	return &Client{
		cfg:  cfg,
		dial: netpkg.Dial,
	}
}

// Connect dials the server. The connection of ws clients lives until ctx is
// done.
func (c *Client) Connect(ctx context.Context) error {
	c.cfg.Logger.InfoMsg("Connecting to %s://%s\n", c.cfg.Protocol, c.cfg.Addr())

	conn, err := c.dial(ctx, c.cfg)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", c.cfg.Addr(), err)
	}

	c.conn = conn
	c.buf = make([]byte, c.cfg.GetBufferSize())
	return nil
}

// Conn returns the underlying connection, nil before Connect.
func (c *Client) Conn() net.Conn {
	return c.conn
}

// Send writes msg in full.
func (c *Client) Send(msg string) error {
	if c.conn == nil {
		return ErrNotConnected
	}

	if _, err := c.conn.Write([]byte(msg)); err != nil {
		return fmt.Errorf("conn.Write(): %w", err)
	}
	return nil
}

// Receive performs one read of at most the configured buffer size and
// returns the bytes as text, invalid UTF-8 replaced with U+FFFD. A server
// that closed the connection yields io.EOF.
func (c *Client) Receive() (string, error) {
	if c.conn == nil {
		return "", ErrNotConnected
	}

	n, err := c.conn.Read(c.buf)
	if n > 0 {
		return strings.ToValidUTF8(string(c.buf[:n]), "\uFFFD"), nil
	}
	if err != nil {
		return "", err
	}
	return "", nil
}

// Close closes the connection. Closing an unconnected client is a no-op.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}

	c.cfg.Logger.InfoMsg("Connection to %s closed\n", c.conn.RemoteAddr())

	err := c.conn.Close()
	c.conn = nil
	return err
}
