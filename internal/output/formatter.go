// Package output prints human-friendly progress and result tables.
package output

import (
	"fmt"
	"io"
	"time"

	"github.com/ethpandaops/lilytest/internal/format"
	"github.com/ethpandaops/lilytest/internal/metrics"
	"github.com/ethpandaops/lilytest/internal/table"
	"github.com/fatih/color"
)

// Formatter provides clean, human-friendly output
type Formatter interface {
	PrintPhase(phase string)
	PrintProgress(message string, duration time.Duration)
	PrintSuccess(message string)
	PrintError(message string, err error)
	PrintSuiteResult(metric *metrics.SuiteResultMetric)
	PrintResults()
	PrintSummary()
}

type formatter struct {
	writer  io.Writer
	verbose bool

	metrics          metrics.Collector
	resultsFormatter *table.ResultsFormatter
	summaryFormatter *table.SummaryFormatter

	green *color.Color
	red   *color.Color
	blue  *color.Color
	gray  *color.Color
}

// NewFormatter creates a new output formatter
func NewFormatter(
	writer io.Writer,
	verbose bool,
	metricsCollector metrics.Collector,
	resultsFormatter *table.ResultsFormatter,
	summaryFormatter *table.SummaryFormatter,
) Formatter {
	return &formatter{
		writer:           writer,
		verbose:          verbose,
		metrics:          metricsCollector,
		resultsFormatter: resultsFormatter,
		summaryFormatter: summaryFormatter,
		green:            color.New(color.FgGreen),
		red:              color.New(color.FgRed),
		blue:             color.New(color.FgBlue),
		gray:             color.New(color.FgHiBlack),
	}
}

// PrintPhase prints phase separator
func (f *formatter) PrintPhase(phase string) {
	_, _ = f.blue.Fprintf(f.writer, "\n▸ %s\n", phase)
}

// PrintProgress prints a message with its timing
func (f *formatter) PrintProgress(message string, duration time.Duration) {
	if duration > 0 {
		_, _ = f.gray.Fprintf(f.writer, "%s (%s)\n", message, format.Duration(duration))
	} else {
		_, _ = fmt.Fprintf(f.writer, "%s\n", message)
	}
}

// PrintSuccess prints a green message
func (f *formatter) PrintSuccess(message string) {
	_, _ = f.green.Fprintf(f.writer, "%s\n", message)
}

// PrintError prints a red message with the error details
func (f *formatter) PrintError(message string, err error) {
	_, _ = f.red.Fprintf(f.writer, "%s", message)
	if err != nil {
		_, _ = f.red.Fprintf(f.writer, ": %v", err)
	}
	_, _ = fmt.Fprintf(f.writer, "\n")
}

// PrintSuiteResult prints a single line for a finished suite. Passed suites
// are only printed in verbose mode.
func (f *formatter) PrintSuiteResult(metric *metrics.SuiteResultMetric) {
	msg := fmt.Sprintf("%s: %d/%d cases", metric.Path, metric.CasesPassed, metric.CasesTotal)

	if !metric.Passed {
		f.PrintError("✗ "+msg, nil)
		return
	}

	if f.verbose {
		f.PrintProgress("✓ "+msg, metric.Duration)
	}
}

// PrintResults prints a table of suite results
func (f *formatter) PrintResults() {
	_, _ = fmt.Fprintln(f.writer, f.resultsFormatter.Format(f.metrics.GetSuiteMetrics()))
}

// PrintSummary prints a summary table with aggregate statistics
func (f *formatter) PrintSummary() {
	_, _ = fmt.Fprintln(f.writer, f.summaryFormatter.Format(f.metrics.GetSummary()))
}
