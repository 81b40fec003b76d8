package capture

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() func() time.Time {
	ts := time.Date(2024, 3, 5, 14, 7, 9, 123_000_000, time.UTC)
	return func() time.Time { return ts }
}

func TestEntryString(t *testing.T) {
	ts := time.Date(2024, 3, 5, 14, 7, 9, 123_000_000, time.UTC)

	tests := []struct {
		name     string
		entry    Entry
		expected string
	}{
		{
			name:     "info",
			entry:    Entry{Time: ts, Kind: KindInfo, Text: "hello"},
			expected: "2024-03-05 14:07:09.123 | INFO   | hello",
		},
		{
			name:     "stderr fills the column",
			entry:    Entry{Time: ts, Kind: KindStderr, Text: "oops"},
			expected: "2024-03-05 14:07:09.123 | STDERR | oops",
		},
		{
			name:     "error",
			entry:    Entry{Time: ts, Kind: KindError, Text: "bad"},
			expected: "2024-03-05 14:07:09.123 | ERROR  | bad",
		},
		{
			name:     "empty line",
			entry:    Entry{Time: ts, Kind: KindEmptyLine, Text: "ignored"},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.entry.String())
		})
	}
}

func TestLogSplitsLines(t *testing.T) {
	l := New(WithClock(fixedClock()))
	defer l.Shutdown()

	l.Info("a\nb")

	entries := l.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].Text)
	assert.Equal(t, "b", entries[1].Text)
	assert.Equal(t, KindInfo, entries[1].Kind)
	assert.Equal(t, entries[0].Time, entries[1].Time)
}

func TestLogTrimsCarriageReturn(t *testing.T) {
	l := New(WithClock(fixedClock()))
	defer l.Shutdown()

	l.Error("first\r\nsecond\r")

	assert.Equal(t, []string{
		"2024-03-05 14:07:09.123 | ERROR  | first",
		"2024-03-05 14:07:09.123 | ERROR  | second",
	}, l.Lines())
}

func TestEmptyLine(t *testing.T) {
	l := New(WithClock(fixedClock()))
	defer l.Shutdown()

	l.Info("before")
	l.EmptyLine()
	l.Info("after")

	lines := l.Lines()
	require.Len(t, lines, 3)
	assert.Equal(t, "", lines[1])

	var buf bytes.Buffer
	_, err := l.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "| before\n\n")
}

func TestCaptureWriteFragments(t *testing.T) {
	l := New(WithClock(fixedClock()))

	l.CaptureWrite(KindStdout, []byte("par"))
	assert.Equal(t, 0, l.Len())

	l.CaptureWrite(KindStdout, []byte("tial\nnext"))
	entries := l.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "partial", entries[0].Text)
	assert.Equal(t, KindStdout, entries[0].Kind)

	l.CaptureWrite(KindStderr, []byte("err\n"))
	require.Equal(t, 2, l.Len())

	l.Shutdown()

	entries = l.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "err", entries[1].Text)
	assert.Equal(t, KindStderr, entries[1].Kind)
	assert.Equal(t, "next", entries[2].Text)
}

func TestWriter(t *testing.T) {
	l := New(WithClock(fixedClock()))
	defer l.Shutdown()

	_, err := fmt.Fprintln(l.Writer(KindStdout), "from writer")
	require.NoError(t, err)

	_, err = fmt.Fprintln(l.Writer(KindDebug), "debug line")
	require.NoError(t, err)

	entries := l.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, Entry{Time: entries[0].Time, Kind: KindStdout, Text: "from writer"}, entries[0])
	assert.Equal(t, KindDebug, entries[1].Kind)
	assert.Equal(t, "debug line", entries[1].Text)
}

func TestStripANSI(t *testing.T) {
	l := New(WithClock(fixedClock()), WithStripANSI(true))
	defer l.Shutdown()

	l.CaptureWrite(KindStdout, []byte("\x1b[31mred\x1b[0m\n"))

	entries := l.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "red", entries[0].Text)
}

func TestEntriesIsSnapshot(t *testing.T) {
	l := New()
	defer l.Shutdown()

	l.Info("one")
	snapshot := l.Entries()
	l.Info("two")

	assert.Len(t, snapshot, 1)
	assert.Equal(t, 2, l.Len())
}

func TestEcho(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	l := New(WithClock(fixedClock()), WithEchoWriter(&buf))
	defer l.Shutdown()

	l.Info("shown")
	l.Error("also shown")

	assert.Equal(t,
		"2024-03-05 14:07:09.123 | INFO   | shown\n"+
			"2024-03-05 14:07:09.123 | ERROR  | also shown\n",
		buf.String())
}

func TestRedirectCapturesProcessStreams(t *testing.T) {
	origOut, origErr := os.Stdout, os.Stderr

	l := New(WithRedirect(true))
	require.True(t, l.Redirected())
	assert.NotSame(t, origOut, os.Stdout)

	fmt.Println("captured line")
	fmt.Fprintln(os.Stderr, "captured error")
	l.Info("after output")

	l.Shutdown()

	assert.Same(t, origOut, os.Stdout)
	assert.Same(t, origErr, os.Stderr)
	assert.False(t, l.Redirected())

	var (
		kinds []Kind
		texts []string
	)
	for _, e := range l.Entries() {
		kinds = append(kinds, e.Kind)
		texts = append(texts, e.Text)
	}

	// The two pipes drain independently, only the logger's own entry has a
	// fixed position.
	require.Len(t, texts, 3)
	assert.ElementsMatch(t, []string{"captured line", "captured error"}, texts[:2])
	assert.ElementsMatch(t, []Kind{KindStdout, KindStderr}, kinds[:2])
	assert.Equal(t, "after output", texts[2])
	assert.Equal(t, KindInfo, kinds[2])
}

func TestRedirectFlushesPartialLineOnShutdown(t *testing.T) {
	l := New(WithRedirect(true))

	fmt.Print("no newline")
	l.Shutdown()

	entries := l.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, KindStdout, entries[0].Kind)
	assert.Equal(t, "no newline", entries[0].Text)
}

func TestShutdownIsIdempotent(t *testing.T) {
	origOut := os.Stdout

	l := New(WithRedirect(true))
	l.Shutdown()
	l.Shutdown()

	assert.Same(t, origOut, os.Stdout)
}

func TestNestedRedirectRestoresInAnyOrder(t *testing.T) {
	origOut := os.Stdout

	outer := New(WithRedirect(true))
	outerOut := os.Stdout

	inner := New(WithRedirect(true))
	assert.NotSame(t, outerOut, os.Stdout)

	fmt.Println("to inner")

	// Releasing the outer logger first leaves the inner one in place.
	outer.Shutdown()
	assert.NotSame(t, origOut, os.Stdout)

	inner.Shutdown()
	assert.Same(t, origOut, os.Stdout)

	require.Len(t, inner.Entries(), 1)
	assert.Equal(t, "to inner", inner.Entries()[0].Text)
	assert.Empty(t, outer.Entries())
}

func TestMarkerPrefixLen(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected int
	}{
		{name: "no overlap", data: []byte("plain"), expected: 0},
		{name: "empty", data: nil, expected: 0},
		{name: "one byte", data: append([]byte("x"), syncMarker[0]), expected: 1},
		{name: "partial", data: append([]byte("text"), syncMarker[:5]...), expected: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, markerPrefixLen(tt.data))
		})
	}
}

func TestHook(t *testing.T) {
	l := New(WithClock(fixedClock()))
	defer l.Shutdown()

	log := NewFieldLogger(l)
	log.WithField("suite", "demo").Info("started")
	log.WithFields(logrus.Fields{"b": 2, "a": 1}).Warn("careful")
	log.Debug("detail")
	log.Error("broken")

	entries := l.Entries()
	require.Len(t, entries, 4)
	assert.Equal(t, "started suite=demo", entries[0].Text)
	assert.Equal(t, KindInfo, entries[0].Kind)
	assert.Equal(t, "careful a=1 b=2", entries[1].Text)
	assert.Equal(t, KindInfo, entries[1].Kind)
	assert.Equal(t, KindDebug, entries[2].Kind)
	assert.Equal(t, KindError, entries[3].Kind)
}

func TestKindForLevel(t *testing.T) {
	assert.Equal(t, KindDebug, KindForLevel(logrus.TraceLevel))
	assert.Equal(t, KindInfo, KindForLevel(logrus.WarnLevel))
	assert.Equal(t, KindError, KindForLevel(logrus.PanicLevel))
	assert.True(t, strings.EqualFold(string(KindForLevel(logrus.InfoLevel)), "info"))
}
