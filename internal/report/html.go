package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ethpandaops/lilytest/internal/config"
	"github.com/ethpandaops/lilytest/pkg/capture"
	"github.com/sirupsen/logrus"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

// HTMLSink collects every item and renders a single results page on Complete.
type HTMLSink struct {
	log     logrus.FieldLogger
	layout  Layout
	runID   string
	started time.Time

	mu    sync.Mutex
	items []Item
}

var _ Sink = (*HTMLSink)(nil)

// NewHTMLSink creates a sink writing results.html into layout.
func NewHTMLSink(log logrus.FieldLogger, layout Layout, runID string, started time.Time) *HTMLSink {
	return &HTMLSink{
		log:     log.WithField("component", "report.html"),
		layout:  layout,
		runID:   runID,
		started: started,
	}
}

// Consume implements Sink.
func (s *HTMLSink) Consume(item Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = append(s.items, item)

	return nil
}

type htmlLine struct {
	Class string
	Text  string
}

type htmlSection struct {
	Anchor  string
	Name    string
	Path    string
	Verdict bool
	Lines   []htmlLine
}

type htmlPage struct {
	RunID    string
	Started  string
	Passed   int
	Total    int
	Verdict  bool
	Sections []htmlSection
}

// Complete implements Sink.
func (s *HTMLSink) Complete() error {
	tmpl, err := template.ParseFS(templateFS, "templates/results.html.tmpl")
	if err != nil {
		return fmt.Errorf("parsing html template: %w", err)
	}

	s.mu.Lock()
	items := make([]Item, len(s.items))
	copy(items, s.items)
	s.mu.Unlock()

	sort.Slice(items, func(i, j int) bool { return items[i].Index < items[j].Index })

	page := htmlPage{
		RunID:    s.runID,
		Started:  s.started.Format(capture.TimestampFormat),
		Verdict:  true,
		Sections: make([]htmlSection, 0, len(items)),
	}

	for _, item := range items {
		if item.Index != RunnerIndex {
			page.Total++
			if item.Verdict {
				page.Passed++
			} else {
				page.Verdict = false
			}
		}

		page.Sections = append(page.Sections, htmlSection{
			Anchor:  fmt.Sprintf("item-%d", item.Index),
			Name:    item.Name,
			Path:    item.Path,
			Verdict: item.Verdict,
			Lines:   htmlLines(item.Entries),
		})
	}

	if page.Total == 0 {
		page.Verdict = false
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, page); err != nil {
		return fmt.Errorf("rendering html report: %w", err)
	}

	if err := os.MkdirAll(s.layout.Dir, 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}

	path := filepath.Join(s.layout.Dir, config.HTMLReportName)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil { //nolint:gosec // report is meant to be readable
		return fmt.Errorf("writing html report: %w", err)
	}

	s.log.WithField("path", path).Info("HTML report written")

	return nil
}

func htmlLines(entries []capture.Entry) []htmlLine {
	lines := make([]htmlLine, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, htmlLine{
			Class: strings.ToLower(string(e.Kind)),
			Text:  e.String(),
		})
	}

	return lines
}
