// Package shutdown provides the wake-one signal that servers share with the
// goroutines they spawn.
//
// A Signal behaves like a single-permit notification: Notify wakes exactly one
// subscribed Waiter, the one that has waited longest. If nobody waits, one
// permit is stored and handed to the next subscriber. Notifying repeatedly
// while nobody waits still stores a single permit.
//
// Notify is not a broadcast. When several goroutines wait on the same Signal,
// one call ends at most one of them. Use context cancellation for server-wide
// teardown.
package shutdown

import (
	"context"
	"sync"

	"github.com/eapache/queue"
)

type waiterState int

const (
	stateWaiting waiterState = iota
	stateNotified
	stateStopped
)

// compactThreshold is the number of stale waiters tolerated in the queue
// before it is rebuilt.
const compactThreshold = 64

// Signal is a wake-one notification shared by pointer between goroutines.
// The zero value is not usable, create signals with New.
type Signal struct {
	mu      sync.Mutex
	waiters *queue.Queue // *Waiter, FIFO
	stale   int          // stopped waiters still in the queue
	permit  bool
}

// New creates a signal without a stored permit.
func New() *Signal {
	return &Signal{waiters: queue.New()}
}

// Notify wakes one waiter. Without waiters, a permit is stored.
func (s *Signal) Notify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifyLocked()
}

func (s *Signal) notifyLocked() {
	for s.waiters.Length() > 0 {
		w := s.waiters.Remove().(*Waiter)
		if w.state != stateWaiting {
			s.stale--
			continue
		}

		w.state = stateNotified
		w.ch <- struct{}{}
		return
	}

	s.permit = true
}

// Subscribe registers a new waiter. If a permit is stored, it is consumed and
// the returned waiter is already notified.
func (s *Signal) Subscribe() *Waiter {
	w := &Waiter{sig: s, ch: make(chan struct{}, 1)}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.permit {
		s.permit = false
		w.state = stateNotified
		w.ch <- struct{}{}
		return w
	}

	w.state = stateWaiting
	s.waiters.Add(w)
	return w
}

// Wait blocks until the signal wakes this caller or ctx is done.
func (s *Signal) Wait(ctx context.Context) error {
	w := s.Subscribe()
	defer w.Stop()

	select {
	case <-w.C():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Waiting returns the number of subscribed waiters that have not been notified.
func (s *Signal) Waiting() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.waiters.Length() - s.stale
}

// Pending reports whether a permit is stored.
func (s *Signal) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.permit
}

func (s *Signal) compactLocked() {
	if s.stale < compactThreshold || s.stale*2 < s.waiters.Length() {
		return
	}

	live := queue.New()
	for s.waiters.Length() > 0 {
		w := s.waiters.Remove().(*Waiter)
		if w.state == stateWaiting {
			live.Add(w)
		}
	}
	s.waiters = live
	s.stale = 0
}

// Waiter is one subscription to a Signal.
type Waiter struct {
	sig   *Signal
	ch    chan struct{}
	state waiterState // guarded by sig.mu
}

// C returns the channel that yields one value when this waiter is woken.
// Receiving from it consumes the notification.
func (w *Waiter) C() <-chan struct{} {
	return w.ch
}

// Stop ends the subscription. A notification that was delivered to this
// waiter but never received is passed on to the next waiter, or stored as
// permit. Stop is idempotent.
func (w *Waiter) Stop() {
	s := w.sig
	s.mu.Lock()
	defer s.mu.Unlock()

	switch w.state {
	case stateWaiting:
		w.state = stateStopped
		s.stale++
		s.compactLocked()

	case stateNotified:
		w.state = stateStopped
		select {
		case <-w.ch:
			s.notifyLocked()
		default:
		}
	}
}
