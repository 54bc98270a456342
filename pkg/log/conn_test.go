package log

import (
	"bytes"
	"net"
	"os"
	"strings"
	"testing"
	"time"
)

// mockConn implements net.Conn for testing
type mockConn struct {
	readBuf  *bytes.Buffer
	writeBuf *bytes.Buffer
	deadline time.Time
}

func newMockConn() *mockConn {
	return &mockConn{
		readBuf:  new(bytes.Buffer),
		writeBuf: new(bytes.Buffer),
	}
}

func (m *mockConn) Read(b []byte) (int, error)  { return m.readBuf.Read(b) }
func (m *mockConn) Write(b []byte) (int, error) { return m.writeBuf.Write(b) }
func (m *mockConn) Close() error                { return nil }
func (m *mockConn) LocalAddr() net.Addr {
	return &net.TCPAddr{IP: net.ParseIP("127.0.0.1"), Port: 8080}
}
func (m *mockConn) RemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.ParseIP("127.0.0.1"), Port: 9090}
}
func (m *mockConn) SetDeadline(t time.Time) error      { return nil }
func (m *mockConn) SetReadDeadline(t time.Time) error  { m.deadline = t; return nil }
func (m *mockConn) SetWriteDeadline(t time.Time) error { return nil }

func TestRecorder_Wrap(t *testing.T) {
	path := t.TempDir() + "/record.log"
	rec, err := NewRecorder(path)
	if err != nil {
		t.Fatalf("NewRecorder() error = %v", err)
	}

	conn := newMockConn()
	conn.readBuf.WriteString("ping")
	wrapped := rec.Wrap(conn)

	buf := make([]byte, 16)
	n, err := wrapped.Read(buf)
	if err != nil || n != 4 {
		t.Fatalf("Read() = %d, %v; want 4, nil", n, err)
	}
	if _, err := wrapped.Write(buf[:n]); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if conn.writeBuf.String() != "ping" {
		t.Errorf("underlying conn got %q; want %q", conn.writeBuf.String(), "ping")
	}

	if err := rec.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	out := string(data)
	for _, want := range []string{"127.0.0.1:9090 in  4 bytes", "127.0.0.1:9090 out 4 bytes", "70 69 6e 67"} {
		if !strings.Contains(out, want) {
			t.Errorf("record does not contain %q:\n%s", want, out)
		}
	}
}

func TestRecorder_DelegatesDeadlines(t *testing.T) {
	rec, err := NewRecorder(t.TempDir() + "/record.log")
	if err != nil {
		t.Fatalf("NewRecorder() error = %v", err)
	}
	defer rec.Close()

	conn := newMockConn()
	wrapped := rec.Wrap(conn)

	dl := time.Now().Add(time.Minute)
	if err := wrapped.SetReadDeadline(dl); err != nil {
		t.Fatalf("SetReadDeadline() error = %v", err)
	}
	if !conn.deadline.Equal(dl) {
		t.Errorf("deadline not forwarded: got %v; want %v", conn.deadline, dl)
	}
}

func TestRecorder_Nil(t *testing.T) {
	var rec *Recorder
	conn := newMockConn()

	if got := rec.Wrap(conn); got != net.Conn(conn) {
		t.Error("nil Recorder should return the connection unchanged")
	}
	if err := rec.Close(); err != nil {
		t.Errorf("Close() on nil Recorder = %v", err)
	}
}

func TestNewRecorder_BadPath(t *testing.T) {
	if _, err := NewRecorder(t.TempDir() + "/missing/dir/record.log"); err == nil {
		t.Error("NewRecorder() with missing directory should fail")
	}
}
