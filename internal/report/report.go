// Package report persists suite logs. Every run gets a timestamped
// directory holding one text file per suite and optionally an HTML page.
package report

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ethpandaops/lilytest/internal/config"
	"github.com/ethpandaops/lilytest/pkg/capture"
)

// RunnerIndex is the index of the runner log, suites follow from
// RunnerIndex+1.
const RunnerIndex = 1

// Item is one log to persist.
type Item struct {
	// Index orders the report files.
	Index   int
	Name    string
	Path    string
	Verdict bool
	Entries []capture.Entry
}

// Sink consumes report items as suites finish.
type Sink interface {
	// Consume processes a single item.
	Consume(item Item) error
	// Complete is called once every item has been consumed.
	Complete() error
}

// Layout names the files of a run.
type Layout struct {
	Dir    string
	digits int
}

// NewLayout returns the layout for a run started at started that writes
// files report files below reportDir.
func NewLayout(reportDir string, started time.Time, files int) Layout {
	if files < 1 {
		files = 1
	}

	return Layout{
		Dir:    filepath.Join(reportDir, started.Format(config.ReportDirLayout)),
		digits: len(strconv.Itoa(files)),
	}
}

// FileName returns "<index>_<name>.txt" with the index zero padded.
func (l Layout) FileName(index int, name string) string {
	return fmt.Sprintf("%0*d_%s.txt", l.digits, index, name)
}

// FilePath returns the absolute location of a report file.
func (l Layout) FilePath(index int, name string) string {
	return filepath.Join(l.Dir, l.FileName(index, name))
}
