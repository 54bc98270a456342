package log

import (
	"encoding/hex"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"
)

// recordedConn wraps a net.Conn and appends a hex dump of every chunk read
// from or written to it to a shared record file.
type recordedConn struct {
	net.Conn

	mu  *sync.Mutex
	out io.Writer
}

func (rc *recordedConn) Read(b []byte) (int, error) {
	n, err := rc.Conn.Read(b)
	if n > 0 {
		rc.record("in", b[:n])
	}
	return n, err
}

func (rc *recordedConn) Write(b []byte) (int, error) {
	n, err := rc.Conn.Write(b)
	if n > 0 {
		rc.record("out", b[:n])
	}
	return n, err
}

func (rc *recordedConn) record(dir string, b []byte) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	// recording is best effort, the echo must not fail because of it
	fmt.Fprintf(rc.out, "%s %s %-3s %d bytes\n%s", time.Now().Format(time.RFC3339Nano), rc.RemoteAddr(), dir, len(b), hex.Dump(b))
}

// Recorder hands out recorded connections that all append to the same file.
type Recorder struct {
	mu   sync.Mutex
	file *os.File
}

// NewRecorder opens (or creates) the record file at path for appending.
func NewRecorder(path string) (*Recorder, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("os.OpenFile(%s): %w", path, err)
	}

	return &Recorder{file: f}, nil
}

// Wrap returns conn with traffic recording. A nil Recorder returns conn unchanged.
func (r *Recorder) Wrap(conn net.Conn) net.Conn {
	if r == nil {
		return conn
	}

	return &recordedConn{Conn: conn, mu: &r.mu, out: r.file}
}

// Close closes the record file.
func (r *Recorder) Close() error {
	if r == nil {
		return nil
	}
	return r.file.Close()
}
