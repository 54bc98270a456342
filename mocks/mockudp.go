// Package mocks provides mock implementations for testing.
package mocks

import (
	"fmt"
	"net"
	"os"
	"sync"
	"time"
)

// MockUDPNetwork simulates a UDP network in memory. Packet conns created with
// ListenPacket deliver datagrams to each other through channels, honor read
// deadlines and can be told to fail sends.
type MockUDPNetwork struct {
	mu        sync.Mutex
	conns     map[string]*mockPacketConn
	failSends map[string]int // remaining failing sends per destination
}

// NewMockUDPNetwork creates an empty mock network.
func NewMockUDPNetwork() *MockUDPNetwork {
	return &MockUDPNetwork{
		conns:     make(map[string]*mockPacketConn),
		failSends: make(map[string]int),
	}
}

// ListenPacket matches config.PacketListenerFunc. Port 0 is not assigned
// automatically, every conn needs an explicit address.
func (m *MockUDPNetwork) ListenPacket(network, address string) (net.PacketConn, error) {
	if network != "udp" {
		return nil, fmt.Errorf("unsupported network type: %s", network)
	}

	laddr, err := net.ResolveUDPAddr(network, address)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := laddr.String()
	if _, exists := m.conns[key]; exists {
		return nil, &net.OpError{Op: "listen", Net: "udp", Addr: laddr, Err: fmt.Errorf("address already in use")}
	}

	c := &mockPacketConn{
		addr:    laddr,
		packets: make(chan mockPacket, 100),
		closeCh: make(chan struct{}),
		wake:    make(chan struct{}),
		network: m,
	}
	m.conns[key] = c

	return c, nil
}

// FailSendsTo makes the next n sends to addr fail.
func (m *MockUDPNetwork) FailSendsTo(addr string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failSends[addr] = n
}

func (m *MockUDPNetwork) deliver(from *net.UDPAddr, to string, p []byte) error {
	m.mu.Lock()
	if m.failSends[to] > 0 {
		m.failSends[to]--
		m.mu.Unlock()
		return fmt.Errorf("send to %s: network unreachable", to)
	}
	dst, exists := m.conns[to]
	m.mu.Unlock()

	// like real UDP, datagrams to nobody are dropped silently
	if !exists {
		return nil
	}

	pkt := mockPacket{data: append([]byte(nil), p...), addr: from}
	select {
	case dst.packets <- pkt:
	case <-dst.closeCh:
	case <-time.After(100 * time.Millisecond):
	}
	return nil
}

type mockPacket struct {
	data []byte
	addr *net.UDPAddr
}

// mockPacketConn is a net.PacketConn on a MockUDPNetwork.
type mockPacketConn struct {
	addr    *net.UDPAddr
	packets chan mockPacket
	closeCh chan struct{}
	network *MockUDPNetwork

	mu       sync.Mutex
	closed   bool
	deadline time.Time
	wake     chan struct{} // closed and replaced whenever the deadline changes
}

// ReadFrom reads one datagram. Payloads longer than p are truncated.
func (c *mockPacketConn) ReadFrom(p []byte) (int, net.Addr, error) {
	for {
		c.mu.Lock()
		deadline, wake := c.deadline, c.wake
		c.mu.Unlock()

		var timeout <-chan time.Time
		var timer *time.Timer
		if !deadline.IsZero() {
			d := time.Until(deadline)
			if d <= 0 {
				return 0, nil, &net.OpError{Op: "read", Net: "udp", Addr: c.addr, Err: os.ErrDeadlineExceeded}
			}
			timer = time.NewTimer(d)
			timeout = timer.C
		}

		select {
		case pkt := <-c.packets:
			stopTimer(timer)
			return copy(p, pkt.data), pkt.addr, nil
		case <-c.closeCh:
			stopTimer(timer)
			return 0, nil, &net.OpError{Op: "read", Net: "udp", Addr: c.addr, Err: net.ErrClosed}
		case <-timeout:
			return 0, nil, &net.OpError{Op: "read", Net: "udp", Addr: c.addr, Err: os.ErrDeadlineExceeded}
		case <-wake:
			stopTimer(timer)
		}
	}
}

func stopTimer(t *time.Timer) {
	if t != nil {
		t.Stop()
	}
}

// WriteTo sends p to addr on the mock network.
func (c *mockPacketConn) WriteTo(p []byte, addr net.Addr) (int, error) {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return 0, &net.OpError{Op: "write", Net: "udp", Addr: addr, Err: net.ErrClosed}
	}

	if err := c.network.deliver(c.addr, addr.String(), p); err != nil {
		return 0, &net.OpError{Op: "write", Net: "udp", Addr: addr, Err: err}
	}
	return len(p), nil
}

// Close closes the conn and frees its address.
func (c *mockPacketConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	close(c.closeCh)

	c.network.mu.Lock()
	delete(c.network.conns, c.addr.String())
	c.network.mu.Unlock()

	return nil
}

// LocalAddr returns the local network address.
func (c *mockPacketConn) LocalAddr() net.Addr {
	return c.addr
}

// SetDeadline sets the read deadline, writes never block.
func (c *mockPacketConn) SetDeadline(t time.Time) error {
	return c.SetReadDeadline(t)
}

// SetReadDeadline sets the read deadline and wakes blocked readers.
func (c *mockPacketConn) SetReadDeadline(t time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.deadline = t
	close(c.wake)
	c.wake = make(chan struct{})
	return nil
}

// SetWriteDeadline is a no-op.
func (c *mockPacketConn) SetWriteDeadline(t time.Time) error {
	return nil
}

var _ net.PacketConn = (*mockPacketConn)(nil)
