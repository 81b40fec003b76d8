package capture

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// Hook is a logrus hook appending every fired entry to a Logger.
type Hook struct {
	log *Logger
}

// NewHook creates a hook writing into l.
func NewHook(l *Logger) *Hook {
	return &Hook{log: l}
}

// Levels implements logrus.Hook.
func (h *Hook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire implements logrus.Hook.
func (h *Hook) Fire(entry *logrus.Entry) error {
	h.log.Log(KindForLevel(entry.Level), formatEntry(entry.Message, entry.Data))
	return nil
}

// KindForLevel maps a logrus level onto a log entry kind.
func KindForLevel(level logrus.Level) Kind {
	switch level {
	case logrus.TraceLevel, logrus.DebugLevel:
		return KindDebug
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		return KindError
	default:
		return KindInfo
	}
}

// NewFieldLogger returns a logrus logger whose only output is l.
func NewFieldLogger(l *Logger) logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	log.SetLevel(logrus.TraceLevel)
	log.AddHook(NewHook(l))

	return log
}

func formatEntry(message string, fields logrus.Fields) string {
	if len(fields) == 0 {
		return message
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(message)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, fields[k])
	}

	return b.String()
}
