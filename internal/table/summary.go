package table

import (
	"fmt"

	"github.com/ethpandaops/lilytest/internal/format"
	"github.com/ethpandaops/lilytest/internal/metrics"
	"github.com/sirupsen/logrus"
)

// SummaryFormatter formats summary statistics as a table.
type SummaryFormatter struct {
	log      logrus.FieldLogger
	renderer Renderer
	colors   *ColorHelper
}

// NewSummaryFormatter creates a new summary table formatter.
func NewSummaryFormatter(log logrus.FieldLogger, renderer Renderer) *SummaryFormatter {
	return &SummaryFormatter{
		log:      log.WithField("component", "table.summary_formatter"),
		renderer: renderer,
		colors:   NewColorHelper(),
	}
}

// Format converts summary metrics into a formatted table string.
func (f *SummaryFormatter) Format(summary metrics.SummaryMetric) string {
	passedValue := fmt.Sprintf("%d (%s)", summary.PassedSuites, f.colors.FormatPercentage(summary.PassRate))
	if summary.PassedSuites == summary.TotalSuites {
		passedValue = f.colors.Success(fmt.Sprintf("%d (%.1f%%)", summary.PassedSuites, summary.PassRate))
	}

	failedValue := fmt.Sprintf("%d (%.1f%%)", summary.FailedSuites, 100.0-summary.PassRate)
	if summary.FailedSuites > 0 {
		failedValue = f.colors.Failure(failedValue)
	} else {
		failedValue = f.colors.Success(failedValue)
	}

	var (
		headers = []string{"Metric", "Value"}
		rows    = [][]string{
			{"Total Suites", f.colors.Bold(fmt.Sprintf("%d", summary.TotalSuites))},
			{"Passed", passedValue},
			{"Failed", failedValue},
			{"Test Cases", fmt.Sprintf("%d/%d (%s)",
				summary.PassedCases, summary.TotalCases, format.Ratio(summary.PassedCases, summary.TotalCases))},
			{"Total Duration", format.Duration(summary.TotalDuration)},
		}
	)

	return "\n" + f.colors.Header("▸ Summary") + "\n\n" + f.renderer.RenderToString(headers, rows)
}
