package report

import (
	"bufio"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// TextSink writes every item as a flat text file.
type TextSink struct {
	log    logrus.FieldLogger
	layout Layout
}

var _ Sink = (*TextSink)(nil)

// NewTextSink creates a sink writing into layout.
func NewTextSink(log logrus.FieldLogger, layout Layout) *TextSink {
	return &TextSink{
		log:    log.WithField("component", "report.text"),
		layout: layout,
	}
}

// Consume implements Sink.
func (s *TextSink) Consume(item Item) error {
	if err := os.MkdirAll(s.layout.Dir, 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}

	path := s.layout.FilePath(item.Index, item.Name)

	f, err := os.Create(path) //nolint:gosec // G304: path is built from the report layout
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, e := range item.Entries {
		if _, err := w.WriteString(e.String() + "\n"); err != nil {
			return fmt.Errorf("writing report file: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing report file: %w", err)
	}

	s.log.WithField("path", path).Debug("report written")

	return f.Close()
}

// Complete implements Sink.
func (s *TextSink) Complete() error {
	return nil
}
