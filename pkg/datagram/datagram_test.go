package datagram

import (
	"bytes"
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"aarambh/aarambhnet/mocks"
	"aarambh/aarambhnet/pkg/config"
	"aarambh/aarambhnet/pkg/neterr"
)

func udpConfig() *config.Shared {
	return &config.Shared{Protocol: config.ProtoUDP, Host: "127.0.0.1", Port: 0}
}

func startServer(t *testing.T, ctx context.Context, cfg *config.Shared) (*Server, <-chan error) {
	t.Helper()

	s, err := Bind(cfg)
	if err != nil {
		t.Fatalf("Bind() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()
	return s, errCh
}

func waitRun(t *testing.T, errCh <-chan error) error {
	t.Helper()

	select {
	case err := <-errCh:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return")
		return nil
	}
}

func exchange(t *testing.T, conn net.PacketConn, to net.Addr, msg []byte, bufSize int) []byte {
	t.Helper()

	if _, err := conn.WriteTo(msg, to); err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, bufSize)
	n, _, err := conn.ReadFrom(buf)
	if err != nil {
		t.Fatalf("ReadFrom() error = %v", err)
	}
	return buf[:n]
}

func TestEcho_HelloUDP(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s, _ := startServer(t, ctx, udpConfig())

	client, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("ListenPacket() error = %v", err)
	}
	defer client.Close()

	msg := []byte("Hello, UDP server!")
	got := exchange(t, client, s.LocalAddr(), msg, 2048)
	if !bytes.Equal(got, msg) {
		t.Errorf("echo = %q; want %q", got, msg)
	}
}

func TestEcho_Truncation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := udpConfig()
	cfg.BufferSize = 8
	s, _ := startServer(t, ctx, cfg)

	client, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("ListenPacket() error = %v", err)
	}
	defer client.Close()

	got := exchange(t, client, s.LocalAddr(), []byte("0123456789abcdef"), 64)
	if string(got) != "01234567" {
		t.Errorf("echo = %q; want first 8 bytes", got)
	}
}

func TestShutdown_Idle(t *testing.T) {
	t.Parallel()

	s, errCh := startServer(t, context.Background(), udpConfig())

	// give Run time to block in ReadFrom
	time.Sleep(20 * time.Millisecond)
	s.Shutdown()

	if err := waitRun(t, errCh); err != nil {
		t.Errorf("Run() error = %v; want nil", err)
	}
}

func TestShutdown_BeforeRun(t *testing.T) {
	t.Parallel()

	s, err := Bind(udpConfig())
	if err != nil {
		t.Fatalf("Bind() error = %v", err)
	}
	defer s.Close()

	s.Shutdown()

	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(context.Background()) }()
	if err := waitRun(t, errCh); err != nil {
		t.Errorf("Run() error = %v; want nil", err)
	}
}

func TestRun_ContextCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	_, errCh := startServer(t, ctx, udpConfig())

	cancel()
	if err := waitRun(t, errCh); err != nil {
		t.Errorf("Run() error = %v; want nil", err)
	}
}

func TestRun_Close(t *testing.T) {
	t.Parallel()

	s, errCh := startServer(t, context.Background(), udpConfig())

	time.Sleep(20 * time.Millisecond)
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := waitRun(t, errCh); err != nil {
		t.Errorf("Run() error = %v; want nil", err)
	}
}

func TestRun_SocketClosedUnderneath(t *testing.T) {
	t.Parallel()

	s, errCh := startServer(t, context.Background(), udpConfig())

	time.Sleep(20 * time.Millisecond)
	s.pc.Close()

	err := waitRun(t, errCh)
	var rtErr *neterr.RuntimeError
	if !errors.As(err, &rtErr) {
		t.Errorf("Run() error = %v; want *neterr.RuntimeError", err)
	}
}

func TestBind_AddressInUse(t *testing.T) {
	t.Parallel()

	first, err := Bind(udpConfig())
	if err != nil {
		t.Fatalf("first Bind() error = %v", err)
	}
	defer first.Close()

	cfg := udpConfig()
	cfg.Port = first.LocalAddr().(*net.UDPAddr).Port

	_, err = Bind(cfg)
	if !neterr.IsBindError(err, neterr.ReasonAddressInUse) {
		t.Errorf("second Bind() error = %v; want BindError(address in use)", err)
	}
}

func TestBind_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		cfg    *config.Shared
		reason neterr.Reason
	}{
		{"invalid port", &config.Shared{Protocol: config.ProtoUDP, Host: "127.0.0.1", Port: 70000}, neterr.ReasonInvalidAddress},
		{
			"listener failure",
			&config.Shared{Protocol: config.ProtoUDP, Host: "127.0.0.1", Port: 9000, Deps: &config.Dependencies{
				PacketListener: func(network, address string) (net.PacketConn, error) {
					return nil, errors.New("boom")
				},
			}},
			neterr.ReasonOther,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := Bind(tc.cfg)
			if !neterr.IsBindError(err, tc.reason) {
				t.Errorf("Bind() error = %v; want BindError(%s)", err, tc.reason)
			}
		})
	}

	if _, err := Bind(&config.Shared{Protocol: config.ProtoTCP, Host: "127.0.0.1"}); err == nil {
		t.Error("Bind() with tcp should fail")
	}
}

func TestRun_SendFailureContinues(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	network := mocks.NewMockUDPNetwork()
	cfg := udpConfig()
	cfg.Port = 9000
	cfg.Deps = &config.Dependencies{PacketListener: network.ListenPacket}

	s, errCh := startServer(t, ctx, cfg)

	unlucky, _ := network.ListenPacket("udp", "127.0.0.1:9001")
	defer unlucky.Close()
	lucky, _ := network.ListenPacket("udp", "127.0.0.1:9002")
	defer lucky.Close()

	network.FailSendsTo("127.0.0.1:9001", 1)
	if _, err := unlucky.WriteTo([]byte("lost"), s.LocalAddr()); err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}

	got := exchange(t, lucky, s.LocalAddr(), []byte("delivered"), 64)
	if string(got) != "delivered" {
		t.Errorf("echo = %q; want %q", got, "delivered")
	}

	s.Shutdown()
	if err := waitRun(t, errCh); err != nil {
		t.Errorf("Run() error = %v; want nil", err)
	}
}

func TestNextBackoff(t *testing.T) {
	t.Parallel()

	d := nextBackoff(0)
	if d != minReadBackoff {
		t.Errorf("nextBackoff(0) = %v", d)
	}
	for i := 0; i < 20; i++ {
		d = nextBackoff(d)
	}
	if d != maxReadBackoff {
		t.Errorf("backoff = %v; want %v", d, maxReadBackoff)
	}
}
