package capture

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/acarl005/stripansi"
	"github.com/fatih/color"
)

// Logger buffers formatted log entries for a single suite run.
// When redirection is enabled the process standard output and error
// streams are captured into the buffer until Shutdown is called.
type Logger struct {
	mu        sync.Mutex
	entries   []Entry
	pending   map[Kind][]byte
	echo      io.Writer
	stripANSI bool
	now       func() time.Time

	redirect     *redirection
	shutdownOnce sync.Once
}

// Option configures a Logger.
type Option func(*options)

type options struct {
	redirect  bool
	echo      bool
	echoTo    io.Writer
	stripANSI bool
	now       func() time.Time
}

// WithRedirect enables capture of os.Stdout and os.Stderr.
func WithRedirect(enabled bool) Option {
	return func(o *options) {
		o.redirect = enabled
	}
}

// WithEcho mirrors every entry to the real terminal.
func WithEcho(enabled bool) Option {
	return func(o *options) {
		o.echo = enabled
	}
}

// WithEchoWriter mirrors every entry to w instead of the terminal.
func WithEchoWriter(w io.Writer) Option {
	return func(o *options) {
		o.echo = w != nil
		o.echoTo = w
	}
}

// WithStripANSI removes ANSI escape sequences from captured output.
func WithStripANSI(enabled bool) Option {
	return func(o *options) {
		o.stripANSI = enabled
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// New creates a Logger. With WithRedirect(true) the Logger becomes the
// active target of the process standard streams until Shutdown.
func New(opts ...Option) *Logger {
	o := &options{now: time.Now}
	for _, opt := range opts {
		opt(o)
	}

	l := &Logger{
		entries:   make([]Entry, 0, 64),
		pending:   make(map[Kind][]byte, 2),
		stripANSI: o.stripANSI,
		now:       o.now,
	}

	if o.echo {
		l.echo = o.echoTo
		if l.echo == nil {
			l.echo = Terminal()
		}
	}

	if o.redirect {
		r, err := acquire(l)
		if err != nil {
			l.Error(fmt.Sprintf("Failed to redirect standard output: %v", err))
		} else {
			l.redirect = r
		}
	}

	return l
}

// Log appends text with the given kind. Info, debug and error text is
// split into one entry per line. Stdout and stderr text is treated as a
// captured fragment.
func (l *Logger) Log(kind Kind, text string) {
	if kind.IsChannel() {
		l.CaptureWrite(kind, []byte(text))
		return
	}

	// Ambient output written before this call must land first.
	l.syncCapture()

	l.mu.Lock()
	defer l.mu.Unlock()

	ts := l.now()
	if kind == KindEmptyLine {
		l.appendLocked(Entry{Time: ts, Kind: KindEmptyLine})
		return
	}

	for _, line := range strings.Split(text, "\n") {
		l.appendLocked(Entry{Time: ts, Kind: kind, Text: strings.TrimSuffix(line, "\r")})
	}
}

// Info logs an informational message.
func (l *Logger) Info(text string) { l.Log(KindInfo, text) }

// Debug logs a debug message.
func (l *Logger) Debug(text string) { l.Log(KindDebug, text) }

// Error logs an error message.
func (l *Logger) Error(text string) { l.Log(KindError, text) }

// Infof logs a formatted informational message.
func (l *Logger) Infof(format string, args ...any) { l.Log(KindInfo, fmt.Sprintf(format, args...)) }

// Debugf logs a formatted debug message.
func (l *Logger) Debugf(format string, args ...any) { l.Log(KindDebug, fmt.Sprintf(format, args...)) }

// Errorf logs a formatted error message.
func (l *Logger) Errorf(format string, args ...any) { l.Log(KindError, fmt.Sprintf(format, args...)) }

// EmptyLine appends a blank line.
func (l *Logger) EmptyLine() { l.Log(KindEmptyLine, "") }

// CaptureWrite accepts an arbitrary fragment of output from a capture
// channel. Complete lines are flushed as entries stamped at flush time,
// the remainder waits for the next line break.
func (l *Logger) CaptureWrite(kind Kind, fragment []byte) {
	if len(fragment) == 0 {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	buf := append(l.pending[kind], fragment...)

	var ts time.Time
	for {
		i := bytes.IndexByte(buf, '\n')
		if i < 0 {
			break
		}

		if ts.IsZero() {
			ts = l.now()
		}

		l.appendLocked(Entry{Time: ts, Kind: kind, Text: l.clean(buf[:i])})
		buf = buf[i+1:]
	}

	if len(buf) == 0 {
		delete(l.pending, kind)
		return
	}

	l.pending[kind] = append([]byte(nil), buf...)
}

// Writer returns an io.Writer feeding the given capture channel. It lets
// code under test write into the log without touching the process streams.
func (l *Logger) Writer(kind Kind) io.Writer {
	return &channelWriter{logger: l, kind: kind}
}

// Entries returns a snapshot of the buffered entries.
func (l *Logger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Entry, len(l.entries))
	copy(out, l.entries)

	return out
}

// Lines returns the formatted entries.
func (l *Logger) Lines() []string {
	entries := l.Entries()
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.String()
	}

	return lines
}

// Len returns the number of buffered entries.
func (l *Logger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.entries)
}

// WriteTo writes every formatted entry followed by a newline to w.
func (l *Logger) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)

	var total int64
	for _, line := range l.Lines() {
		n, err := bw.WriteString(line + "\n")
		total += int64(n)
		if err != nil {
			return total, err
		}
	}

	return total, bw.Flush()
}

// Redirected reports whether the Logger currently holds the process streams.
func (l *Logger) Redirected() bool {
	return l.redirect != nil && l.redirect.active()
}

// Shutdown releases the process streams if held and flushes any partial
// captured lines. It is safe to call more than once.
func (l *Logger) Shutdown() {
	l.shutdownOnce.Do(func() {
		if l.redirect != nil {
			l.redirect.release()
		}

		l.mu.Lock()
		defer l.mu.Unlock()

		for _, kind := range []Kind{KindStdout, KindStderr} {
			if rest, ok := l.pending[kind]; ok && len(rest) > 0 {
				l.appendLocked(Entry{Time: l.now(), Kind: kind, Text: l.clean(rest)})
			}

			delete(l.pending, kind)
		}
	})
}

func (l *Logger) syncCapture() {
	if l.redirect != nil {
		l.redirect.sync()
	}
}

func (l *Logger) clean(b []byte) string {
	text := strings.TrimSuffix(string(b), "\r")
	if l.stripANSI {
		text = stripansi.Strip(text)
	}

	return text
}

func (l *Logger) appendLocked(e Entry) {
	l.entries = append(l.entries, e)

	if l.echo == nil {
		return
	}

	line := e.String()
	switch e.Kind {
	case KindError, KindStderr:
		_, _ = color.New(color.FgRed).Fprintln(l.echo, line)
	case KindDebug:
		_, _ = color.New(color.FgHiBlack).Fprintln(l.echo, line)
	default:
		_, _ = fmt.Fprintln(l.echo, line)
	}
}

type channelWriter struct {
	logger *Logger
	kind   Kind
}

func (w *channelWriter) Write(p []byte) (int, error) {
	if w.kind.IsChannel() {
		w.logger.CaptureWrite(w.kind, p)
	} else {
		w.logger.Log(w.kind, strings.TrimSuffix(string(p), "\n"))
	}

	return len(p), nil
}
