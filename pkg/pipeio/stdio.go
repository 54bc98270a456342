package pipeio

import (
	"io"
	"os"

	"github.com/muesli/cancelreader"
)

// Stdio provides a ReadWriteCloser for standard I/O. Reading uses a
// cancelable reader when the platform supports it, so Close interrupts a
// pending read.
type Stdio struct {
	stdin            io.Reader
	cancellableStdin cancelreader.CancelReader

	stdout io.Writer
}

// NewStdio creates a Stdio. Nil arguments select os.Stdin and os.Stdout.
func NewStdio(stdin io.Reader, stdout io.Writer) *Stdio {
	if stdin == nil {
		stdin = os.Stdin
	}
	if stdout == nil {
		stdout = os.Stdout
	}

	out := &Stdio{
		stdin:  stdin,
		stdout: stdout,
	}

	cr, err := cancelreader.NewReader(stdin)
	if err != nil {
		return out
	}
	out.cancellableStdin = cr

	return out
}

// Read reads from stdin.
func (s *Stdio) Read(p []byte) (int, error) {
	if s.cancellableStdin != nil {
		return s.cancellableStdin.Read(p)
	}
	return s.stdin.Read(p)
}

// Write writes to stdout.
func (s *Stdio) Write(p []byte) (int, error) {
	return s.stdout.Write(p)
}

// Close cancels a pending read. Stdin and stdout themselves stay open.
func (s *Stdio) Close() error {
	if s.cancellableStdin != nil {
		s.cancellableStdin.Cancel()
	}
	return nil
}
