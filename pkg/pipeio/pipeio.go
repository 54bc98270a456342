// Package pipeio connects byte streams: Pipe copies between two
// ReadWriteClosers in both directions, Stdio exposes the terminal as one.
package pipeio

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
)

// Pipe copies rwc2 to rwc1 and rwc1 to rwc2 until either direction ends or
// ctx is done. It then closes both and returns once both copies stopped.
// Copy errors are passed to logfunc, except those caused by the teardown.
func Pipe(ctx context.Context, rwc1 io.ReadWriteCloser, rwc2 io.ReadWriteCloser, logfunc func(error)) {
	var wg sync.WaitGroup
	var once sync.Once
	var tornDown atomic.Bool

	teardown := func() {
		once.Do(func() {
			tornDown.Store(true)
			rwc1.Close()
			rwc2.Close()
		})
	}

	cp := func(dst, src io.ReadWriteCloser, name string) {
		defer wg.Done()

		_, err := io.Copy(dst, src)
		if err != nil && !tornDown.Load() {
			logfunc(fmt.Errorf("io.Copy(%s): %w", name, err))
		}
		teardown()
	}

	wg.Add(2)
	go cp(rwc1, rwc2, "rwc1, rwc2")
	go cp(rwc2, rwc1, "rwc2, rwc1")

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		teardown()
		<-done
	case <-done:
	}
}
