// Package semaphore caps the number of connections a server handles at once.
package semaphore

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrBusy is returned by Acquire when every slot is taken and no timeout is set.
var ErrBusy = errors.New("all connection slots in use")

// ConnSemaphore hands out a fixed number of connection slots.
// A nil *ConnSemaphore means unlimited: Acquire and Release are no-ops.
type ConnSemaphore struct {
	sem     chan struct{}
	timeout time.Duration
}

// New creates a semaphore with n slots. Acquire waits up to timeout for a
// free slot, a timeout of 0 fails immediately. For n <= 0, New returns nil.
func New(n int, timeout time.Duration) *ConnSemaphore {
	if n <= 0 {
		return nil
	}

	sem := make(chan struct{}, n)
	for i := 0; i < n; i++ {
		sem <- struct{}{}
	}
	return &ConnSemaphore{sem: sem, timeout: timeout}
}

// Acquire takes a slot.
func (s *ConnSemaphore) Acquire(ctx context.Context) error {
	if s == nil {
		return nil
	}

	if s.timeout <= 0 {
		select {
		case <-s.sem:
			return nil
		default:
			return ErrBusy
		}
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	select {
	case <-s.sem:
		return nil
	case <-timeoutCtx.Done():
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("timeout acquiring connection slot after %v: %w", s.timeout, ErrBusy)
	}
}

// Release returns a slot taken by Acquire.
func (s *ConnSemaphore) Release() {
	if s == nil {
		return
	}
	s.sem <- struct{}{}
}

// InUse returns the number of slots currently taken.
func (s *ConnSemaphore) InUse() int {
	if s == nil {
		return 0
	}
	return cap(s.sem) - len(s.sem)
}
