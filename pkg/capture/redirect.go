package capture

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

const syncTimeout = 250 * time.Millisecond

// syncMarker is written through a capture pipe to find out when every
// byte written before it has been consumed.
var syncMarker = []byte("\x00\x1b[lilytest-sync]\x1b\x00")

var (
	redirectMu sync.Mutex
	// stack holds the active redirections, the last one owns the streams.
	stack      []*redirection
	baseStdout *os.File
	baseStderr *os.File
)

// Terminal returns the standard output the process had before any
// Logger redirected it.
func Terminal() io.Writer {
	redirectMu.Lock()
	defer redirectMu.Unlock()

	if len(stack) > 0 {
		return baseStdout
	}

	return os.Stdout
}

type redirection struct {
	mu       sync.Mutex
	released bool
	stdout   *pipeChannel
	stderr   *pipeChannel
}

type pipeChannel struct {
	kind Kind
	r    *os.File
	w    *os.File
	ack  chan struct{}
	done chan struct{}
}

func acquire(l *Logger) (*redirection, error) {
	stdout, err := newPipeChannel(KindStdout)
	if err != nil {
		return nil, err
	}

	stderr, err := newPipeChannel(KindStderr)
	if err != nil {
		_ = stdout.r.Close()
		_ = stdout.w.Close()

		return nil, err
	}

	r := &redirection{stdout: stdout, stderr: stderr}

	go stdout.pump(l)
	go stderr.pump(l)

	redirectMu.Lock()
	if len(stack) == 0 {
		baseStdout, baseStderr = os.Stdout, os.Stderr
	}
	stack = append(stack, r)
	applyLocked()
	redirectMu.Unlock()

	return r, nil
}

// applyLocked points the process streams at the top of the stack, or back
// at the original streams once the stack is empty.
func applyLocked() {
	if len(stack) == 0 {
		os.Stdout, os.Stderr = baseStdout, baseStderr
		return
	}

	top := stack[len(stack)-1]
	os.Stdout, os.Stderr = top.stdout.w, top.stderr.w
}

func (r *redirection) active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return !r.released
}

// sync blocks until output written to both pipes before the call has been
// handed to the Logger, or the timeout elapses.
func (r *redirection) sync() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.released {
		return
	}

	r.stdout.sync()
	r.stderr.sync()
}

func (r *redirection) release() {
	r.mu.Lock()
	if r.released {
		r.mu.Unlock()
		return
	}
	r.released = true
	r.mu.Unlock()

	redirectMu.Lock()
	for i, active := range stack {
		if active == r {
			stack = append(stack[:i], stack[i+1:]...)
			break
		}
	}
	applyLocked()
	redirectMu.Unlock()

	// Closing the write ends lets the pumps drain and exit.
	r.stdout.close()
	r.stderr.close()
}

func newPipeChannel(kind Kind) (*pipeChannel, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("creating %s pipe: %w", kind, err)
	}

	return &pipeChannel{
		kind: kind,
		r:    r,
		w:    w,
		ack:  make(chan struct{}, 1),
		done: make(chan struct{}),
	}, nil
}

func (c *pipeChannel) sync() {
	select {
	case <-c.ack:
	default:
	}

	if _, err := c.w.Write(syncMarker); err != nil {
		return
	}

	select {
	case <-c.ack:
	case <-time.After(syncTimeout):
	}
}

func (c *pipeChannel) close() {
	_ = c.w.Close()

	select {
	case <-c.done:
	case <-time.After(time.Second):
	}

	_ = c.r.Close()
}

func (c *pipeChannel) pump(l *Logger) {
	defer close(c.done)

	buf := make([]byte, 4096)

	var carry []byte
	for {
		n, err := c.r.Read(buf)
		if n > 0 {
			data := append(carry, buf[:n]...)
			carry = nil

			for {
				i := bytes.Index(data, syncMarker)
				if i < 0 {
					break
				}

				l.CaptureWrite(c.kind, data[:i])
				data = data[i+len(syncMarker):]

				select {
				case c.ack <- struct{}{}:
				default:
				}
			}

			// A marker may be split across reads.
			keep := markerPrefixLen(data)
			l.CaptureWrite(c.kind, data[:len(data)-keep])
			if keep > 0 {
				carry = append([]byte(nil), data[len(data)-keep:]...)
			}
		}

		if err != nil {
			l.CaptureWrite(c.kind, carry)
			return
		}
	}
}

// markerPrefixLen returns the length of the longest suffix of data that is
// a proper prefix of syncMarker.
func markerPrefixLen(data []byte) int {
	limit := len(syncMarker) - 1
	if len(data) < limit {
		limit = len(data)
	}

	for k := limit; k > 0; k-- {
		if bytes.Equal(data[len(data)-k:], syncMarker[:k]) {
			return k
		}
	}

	return 0
}
