package config

const (
	// DefaultReportDir is the directory reports are written to when
	// LILYTEST_REPORT_DIR is not set.
	DefaultReportDir = "lily_unit_test_reports"
	// RunnerLogName is the report name of the runner's own log.
	RunnerLogName = "TestRunner"
	// HTMLReportName is the file name of the HTML report.
	HTMLReportName = "results.html"
	// ReportDirLayout is the time layout of a run's report directory.
	ReportDirLayout = "20060102_150405"
)
