package pipeio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"testing"
	"time"
)

// errRWC fails every read and write.
type errRWC struct {
	closed chan struct{}
	once   sync.Once
}

func newErrRWC() *errRWC {
	return &errRWC{closed: make(chan struct{})}
}

func (e *errRWC) Read(p []byte) (int, error)  { return 0, errors.New("read failed") }
func (e *errRWC) Write(p []byte) (int, error) { return 0, errors.New("write failed") }
func (e *errRWC) Close() error {
	e.once.Do(func() { close(e.closed) })
	return nil
}

func TestPipe_BidirectionalCopy(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	a1, a2 := net.Pipe()
	b1, b2 := net.Pipe()

	done := make(chan struct{})
	go func() {
		Pipe(ctx, a2, b1, func(err error) {})
		close(done)
	}()

	go a1.Write([]byte("to b"))
	buf := make([]byte, 4)
	if _, err := io.ReadFull(b2, buf); err != nil || string(buf) != "to b" {
		t.Fatalf("b side read %q, %v", buf, err)
	}

	go b2.Write([]byte("to a"))
	if _, err := io.ReadFull(a1, buf); err != nil || string(buf) != "to a" {
		t.Fatalf("a side read %q, %v", buf, err)
	}

	a1.Close()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Pipe() did not return after one side closed")
	}

	// teardown closes the other side too
	if _, err := b2.Read(buf); err == nil {
		t.Error("b side should be closed")
	}
}

func TestPipe_ContextCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())

	a1, a2 := net.Pipe()
	b1, b2 := net.Pipe()
	defer a1.Close()
	defer b2.Close()

	var logged []error
	var mu sync.Mutex
	done := make(chan struct{})
	go func() {
		Pipe(ctx, a2, b1, func(err error) {
			mu.Lock()
			logged = append(logged, err)
			mu.Unlock()
		})
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Pipe() did not return after cancel")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(logged) != 0 {
		t.Errorf("teardown errors were logged: %v", logged)
	}
}

func TestPipe_LogsCopyErrors(t *testing.T) {
	t.Parallel()

	var logged []error
	var mu sync.Mutex

	a := newErrRWC()
	b := newErrRWC()
	Pipe(context.Background(), a, b, func(err error) {
		mu.Lock()
		logged = append(logged, err)
		mu.Unlock()
	})

	mu.Lock()
	defer mu.Unlock()
	if len(logged) == 0 {
		t.Error("copy errors should be logged")
	}

	select {
	case <-a.closed:
	default:
		t.Error("rwc1 not closed")
	}
	select {
	case <-b.closed:
	default:
		t.Error("rwc2 not closed")
	}
}

func TestStdio_ReadWrite(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	s := &Stdio{stdin: bytes.NewReader([]byte("typed")), stdout: &out}

	buf := make([]byte, 16)
	n, err := s.Read(buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if string(buf[:n]) != "typed" {
		t.Errorf("Read() = %q", buf[:n])
	}

	if _, err := s.Write([]byte("printed")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if out.String() != "printed" {
		t.Errorf("stdout = %q", out.String())
	}

	if err := s.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
