package config

import (
	"context"
	"errors"
	"net"
	"testing"
)

func TestGetFuncs_Defaults(t *testing.T) {
	t.Parallel()

	if GetTCPDialerFunc(nil) == nil || GetTCPListenerFunc(nil) == nil || GetPacketListenerFunc(nil) == nil {
		t.Fatal("default dependency funcs must not be nil")
	}

	l, err := GetTCPListenerFunc(&Dependencies{})("tcp", &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatalf("default TCP listener error = %v", err)
	}
	defer l.Close()

	conn, err := GetTCPDialerFunc(nil)(context.Background(), "tcp", l.Addr().(*net.TCPAddr))
	if err != nil {
		t.Fatalf("default TCP dialer error = %v", err)
	}
	conn.Close()

	pc, err := GetPacketListenerFunc(nil)("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("default packet listener error = %v", err)
	}
	pc.Close()
}

func TestGetFuncs_Injected(t *testing.T) {
	t.Parallel()

	errFake := errors.New("fake")
	deps := &Dependencies{
		TCPDialer: func(ctx context.Context, network string, raddr *net.TCPAddr) (net.Conn, error) {
			return nil, errFake
		},
		TCPListener: func(network string, laddr *net.TCPAddr) (net.Listener, error) {
			return nil, errFake
		},
		PacketListener: func(network, address string) (net.PacketConn, error) {
			return nil, errFake
		},
	}

	if _, err := GetTCPDialerFunc(deps)(context.Background(), "tcp", &net.TCPAddr{}); !errors.Is(err, errFake) {
		t.Errorf("TCP dialer error = %v; want injected", err)
	}
	if _, err := GetTCPListenerFunc(deps)("tcp", &net.TCPAddr{}); !errors.Is(err, errFake) {
		t.Errorf("TCP listener error = %v; want injected", err)
	}
	if _, err := GetPacketListenerFunc(deps)("udp", ":0"); !errors.Is(err, errFake) {
		t.Errorf("packet listener error = %v; want injected", err)
	}
}
