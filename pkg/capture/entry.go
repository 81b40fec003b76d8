// Package capture provides the structured log buffer used by suite runs,
// including redirection of the process standard output and error streams.
package capture

import (
	"fmt"
	"time"
)

// Kind tags a log entry with its severity or origin.
type Kind string

const (
	// KindInfo is a generic informational message.
	KindInfo Kind = "INFO"
	// KindDebug is a detailed diagnostic message.
	KindDebug Kind = "DEBUG"
	// KindError reports a failure.
	KindError Kind = "ERROR"
	// KindStdout is a line captured from standard output.
	KindStdout Kind = "STDOUT"
	// KindStderr is a line captured from standard error.
	KindStderr Kind = "STDERR"
	// KindEmptyLine renders as a bare blank line.
	KindEmptyLine Kind = "EMPTY_LINE"
)

// TimestampFormat is the millisecond precision layout used for every entry.
const TimestampFormat = "2006-01-02 15:04:05.000"

// Entry is a single logical log line.
type Entry struct {
	Time time.Time
	Kind Kind
	Text string
}

// String renders the entry as "<timestamp> | <kind> | <text>".
// Empty line entries render as an empty string.
func (e Entry) String() string {
	if e.Kind == KindEmptyLine {
		return ""
	}

	return fmt.Sprintf("%s | %-6s | %s", e.Time.Format(TimestampFormat), e.Kind, e.Text)
}

// IsChannel reports whether the kind names a capture channel.
func (k Kind) IsChannel() bool {
	return k == KindStdout || k == KindStderr
}
