package suite

import (
	"runtime/debug"
	"time"
)

// Background is a handle to work started with Go. The suite does not wait
// for it and its outcome never affects the verdict.
type Background struct {
	done chan struct{}
	err  error
}

// Go runs fn on its own goroutine. A panic inside fn is recovered and
// reported through Err as a *Fault.
func Go(fn func() error) *Background {
	b := &Background{done: make(chan struct{})}

	go func() {
		defer close(b.done)
		defer func() {
			if r := recover(); r != nil {
				b.err = newFault(r, debug.Stack())
			}
		}()

		b.err = fn()
	}()

	return b
}

// Alive reports whether fn is still running.
func (b *Background) Alive() bool {
	select {
	case <-b.done:
		return false
	default:
		return true
	}
}

// Done is closed once fn has returned.
func (b *Background) Done() <-chan struct{} {
	return b.done
}

// Wait blocks until fn returns or timeout elapses. It reports whether fn
// finished.
func (b *Background) Wait(timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-b.done:
		return true
	case <-timer.C:
		return false
	}
}

// Err returns the error fn returned, or nil while it is still running.
func (b *Background) Err() error {
	select {
	case <-b.done:
		return b.err
	default:
		return nil
	}
}
