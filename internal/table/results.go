package table

import (
	"fmt"
	"strings"

	"github.com/ethpandaops/lilytest/internal/format"
	"github.com/ethpandaops/lilytest/internal/metrics"
	"github.com/sirupsen/logrus"
)

// ResultsFormatter formats suite results as a table.
type ResultsFormatter struct {
	log      logrus.FieldLogger
	renderer Renderer
	colors   *ColorHelper
}

// NewResultsFormatter creates a new results table formatter.
func NewResultsFormatter(log logrus.FieldLogger, renderer Renderer) *ResultsFormatter {
	return &ResultsFormatter{
		log:      log.WithField("component", "table.results_formatter"),
		renderer: renderer,
		colors:   NewColorHelper(),
	}
}

// Format converts suite result metrics into a table with failure details.
func (f *ResultsFormatter) Format(suiteMetrics []metrics.SuiteResultMetric) string {
	if len(suiteMetrics) == 0 {
		return "No test suites executed"
	}

	var (
		headers      = []string{"Suite", "Status", "Expect", "Cases", "Duration", "Details"}
		rows         = make([][]string, 0, len(suiteMetrics))
		failedSuites = make([]metrics.SuiteResultMetric, 0)
	)

	for _, metric := range suiteMetrics {
		var details string

		if !metric.Passed {
			failedSuites = append(failedSuites, metric)

			if metric.CasesFailed > 0 {
				details = f.colors.Failure(fmt.Sprintf("%d/%d failed", metric.CasesFailed, metric.CasesTotal))
			}

			if metric.ErrorMessage != "" {
				if details != "" {
					details += " - "
				}

				details += f.colors.Muted(format.Truncate(metric.ErrorMessage, 50))
			}
		}

		rows = append(rows, []string{
			metric.Path,
			f.colors.FormatStatus(metric.Passed),
			f.colors.FormatClassification(metric.Classification),
			f.colors.FormatCases(metric.CasesPassed, metric.CasesTotal),
			format.Duration(metric.Duration),
			details,
		})
	}

	output := "\n" + f.colors.Header("▸ Suite Results") + "\n\n" + f.renderer.RenderToString(headers, rows)

	if len(failedSuites) > 0 {
		output += f.formatFailureDetails(failedSuites)
	}

	return output
}

// formatFailureDetails lists the failed cases of every failed suite
func (f *ResultsFormatter) formatFailureDetails(failedSuites []metrics.SuiteResultMetric) string {
	var builder strings.Builder

	builder.WriteString("\n\n" + f.colors.Header("▸ Failed Suite Details") + "\n\n")

	for i, s := range failedSuites {
		if i > 0 {
			builder.WriteString("\n")
		}

		builder.WriteString(fmt.Sprintf("%s (%s)\n", s.Path, format.Duration(s.Duration)))

		if len(s.FailedCases) == 0 {
			msg := s.ErrorMessage
			if msg == "" {
				msg = "Suite failed (see report log)"
			}

			builder.WriteString(fmt.Sprintf("  %s: %s\n", f.colors.Failure("Error"), msg))

			continue
		}

		for _, c := range s.FailedCases {
			builder.WriteString(fmt.Sprintf("  %s %s: %s\n",
				f.colors.Failure("✗"),
				f.colors.Bold("Case"),
				c.Name,
			))

			if c.Error != "" {
				builder.WriteString(fmt.Sprintf("    %s: %s\n", f.colors.Failure("Error"), c.Error))
			}
		}
	}

	return builder.String()
}
