// Package runner executes registered suites one after another, keeps a
// runner log and hands every suite log to the report sinks.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/ethpandaops/lilytest/internal/config"
	"github.com/ethpandaops/lilytest/internal/metrics"
	"github.com/ethpandaops/lilytest/internal/output"
	"github.com/ethpandaops/lilytest/internal/report"
	"github.com/ethpandaops/lilytest/internal/table"
	"github.com/ethpandaops/lilytest/pkg/capture"
	"github.com/ethpandaops/lilytest/pkg/registry"
	"github.com/ethpandaops/lilytest/pkg/suite"
	"github.com/google/uuid"
	"github.com/pkg/browser"
	"github.com/sirupsen/logrus"
)

// ErrReport is returned when a report could not be written.
var ErrReport = errors.New("writing reports")

// Config contains configuration for a runner.
type Config struct {
	Logger           logrus.FieldLogger
	Writer           io.Writer
	MetricsCollector metrics.Collector
	Verbose          bool

	ReportDir  string
	NoLogFiles bool
	HTMLReport bool

	// OpenInBrowser opens the HTML report with OpenBrowser once written.
	OpenInBrowser bool
	OpenBrowser   func(path string) error

	// Redirect, Echo and StripANSI configure the log of every suite.
	Redirect  bool
	Echo      bool
	StripANSI bool
	Traceback bool

	// Now overrides the clock used for the report directory.
	Now func() time.Time
}

// SuiteResult is the outcome of one registered suite.
type SuiteResult struct {
	Entry registry.Entry
	Run   *suite.Run
}

// Result is the outcome of a complete run.
type Result struct {
	RunID     string
	ReportDir string
	Suites    []SuiteResult
	Passed    int
	Total     int
	// Verdict is true when at least one suite ran and every suite passed.
	Verdict  bool
	Log      *capture.Logger
	Duration time.Duration
}

// Runner executes suites sequentially.
type Runner struct {
	log        logrus.FieldLogger
	cfg        Config
	metrics    metrics.Collector
	formatter  output.Formatter
	renderer   table.Renderer
	captureOps []capture.Option
}

// New creates a runner.
func New(cfg *Config) *Runner {
	c := *cfg

	if c.Logger == nil {
		c.Logger = logrus.New()
	}

	if c.Writer == nil {
		c.Writer = capture.Terminal()
	}

	if c.ReportDir == "" {
		c.ReportDir = config.DefaultReportDir
	}

	if c.Now == nil {
		c.Now = time.Now
	}

	if c.OpenBrowser == nil {
		c.OpenBrowser = browser.OpenFile
	}

	if c.MetricsCollector == nil {
		c.MetricsCollector = metrics.NewCollector(c.Logger)
	}

	renderer := table.NewRenderer(c.Logger)
	formatter := output.NewFormatter(
		c.Writer,
		c.Verbose,
		c.MetricsCollector,
		table.NewResultsFormatter(c.Logger, renderer),
		table.NewSummaryFormatter(c.Logger, renderer),
	)

	captureOps := []capture.Option{
		capture.WithRedirect(c.Redirect),
		capture.WithEcho(c.Echo),
		capture.WithStripANSI(c.StripANSI),
	}

	return &Runner{
		log:        c.Logger.WithField("component", "runner"),
		cfg:        c,
		metrics:    c.MetricsCollector,
		renderer:   renderer,
		formatter:  formatter,
		captureOps: captureOps,
	}
}

// Start initializes the runner and its components.
func (r *Runner) Start(ctx context.Context) error {
	r.log.Debug("starting runner")

	if err := r.metrics.Start(ctx); err != nil {
		return fmt.Errorf("starting metrics collector: %w", err)
	}

	if err := r.renderer.Start(ctx); err != nil {
		return fmt.Errorf("starting table renderer: %w", err)
	}

	return nil
}

// Stop releases the runner components.
func (r *Runner) Stop() error {
	r.log.Debug("stopping runner")

	var errs []error

	if err := r.renderer.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("stopping table renderer: %w", err))
	}

	if err := r.metrics.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("stopping metrics collector: %w", err))
	}

	return errors.Join(errs...)
}

// Run executes entries in order. Suite failures are reported through the
// result, the returned error covers cancellation and report failures.
func (r *Runner) Run(ctx context.Context, entries []registry.Entry) (*Result, error) {
	started := r.cfg.Now()

	result := &Result{
		RunID: uuid.New().String(),
		Total: len(entries),
		Log:   capture.New(capture.WithEcho(r.cfg.Echo)),
	}

	layout := report.NewLayout(r.cfg.ReportDir, started, len(entries)+1)
	result.ReportDir = layout.Dir

	sink := r.sinks(layout, result.RunID, started)

	log := r.log.WithFields(logrus.Fields{
		"run_id": result.RunID,
		"suites": len(entries),
	})
	log.Info("Starting test run")

	runnerLog := result.Log

	var errs []error

	if len(entries) == 0 {
		runnerLog.Info("No test suites found")
	} else {
		runnerLog.Infof("Run %d test suites, run ID: %s", len(entries), result.RunID)
		r.formatter.PrintPhase(fmt.Sprintf("Running %d test suites", len(entries)))
	}

	engine := suite.NewEngine(
		suite.WithLogger(r.cfg.Logger),
		suite.WithTraceback(r.cfg.Traceback),
		suite.WithCapture(r.captureOps...),
		suite.WithReportPath(layout.Dir),
	)

	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			runnerLog.EmptyLine()
			runnerLog.Errorf("Test run cancelled: %v", err)
			errs = append(errs, fmt.Errorf("running suites: %w", err))

			break
		}

		runnerLog.EmptyLine()
		runnerLog.Infof("Run test suite: %s", entry.Path())

		run := engine.Run(entry.Suite)
		result.Suites = append(result.Suites, SuiteResult{Entry: entry, Run: run})

		if run.Verdict {
			result.Passed++
			runnerLog.Infof("Test suite %s: PASSED", entry.Suite.Name())
		} else {
			runnerLog.Errorf("Test suite %s: FAILED", entry.Suite.Name())
		}

		metric := suiteMetric(entry, run)
		r.metrics.RecordSuiteResult(metric)
		r.formatter.PrintSuiteResult(metric)

		if err := sink.Consume(report.Item{
			Index:   report.RunnerIndex + 1 + i,
			Name:    entry.Suite.Name(),
			Path:    entry.Path(),
			Verdict: run.Verdict,
			Entries: run.Log.Entries(),
		}); err != nil {
			log.WithError(err).WithField("suite", entry.Path()).Error("Failed to write suite report")
			errs = append(errs, fmt.Errorf("%w: %s: %w", ErrReport, entry.Path(), err))
		}
	}

	if len(entries) > 0 {
		runnerLog.EmptyLine()
		runnerLog.Infof("%d of %d test suites passed (%.1f%%)",
			result.Passed, result.Total, 100*float64(result.Passed)/float64(result.Total))
	}

	result.Verdict = result.Total > 0 && result.Passed == result.Total && len(result.Suites) == result.Total

	if result.Verdict {
		runnerLog.Info("Test runner result: PASSED")
	} else if len(entries) > 0 {
		runnerLog.Error("Test runner result: FAILED")
	}

	runnerLog.Shutdown()

	if err := sink.Consume(report.Item{
		Index:   report.RunnerIndex,
		Name:    config.RunnerLogName,
		Verdict: result.Verdict,
		Entries: runnerLog.Entries(),
	}); err != nil {
		errs = append(errs, fmt.Errorf("%w: runner log: %w", ErrReport, err))
	}

	if err := sink.Complete(); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrReport, err))
	} else if r.cfg.HTMLReport && r.cfg.OpenInBrowser {
		r.openReport(log, filepath.Join(layout.Dir, config.HTMLReportName))
	}

	result.Duration = r.cfg.Now().Sub(started)

	if len(entries) > 0 {
		r.formatter.PrintResults()
		r.formatter.PrintSummary()
	}

	if result.Verdict {
		r.formatter.PrintSuccess("Test runner result: PASSED")
	} else {
		r.formatter.PrintError("Test runner result: FAILED", nil)
	}

	log.WithFields(logrus.Fields{
		"passed":  result.Passed,
		"verdict": result.Verdict,
	}).Info("Test run finished")

	return result, errors.Join(errs...)
}

// openReport shows the HTML report. Failing to open it does not fail the run.
func (r *Runner) openReport(log logrus.FieldLogger, path string) {
	if err := r.cfg.OpenBrowser(path); err != nil {
		log.WithError(err).WithField("path", path).Warn("Failed to open HTML report in browser")
	}
}

func (r *Runner) sinks(layout report.Layout, runID string, started time.Time) *report.Fanout {
	sinks := make([]report.Sink, 0, 2)

	if !r.cfg.NoLogFiles {
		sinks = append(sinks, report.NewTextSink(r.cfg.Logger, layout))
	}

	if r.cfg.HTMLReport {
		sinks = append(sinks, report.NewHTMLSink(r.cfg.Logger, layout, runID, started))
	}

	return report.NewFanout(sinks...)
}

func suiteMetric(entry registry.Entry, run *suite.Run) *metrics.SuiteResultMetric {
	metric := &metrics.SuiteResultMetric{
		Suite:          run.Suite,
		Path:           entry.Path(),
		Classification: run.Classification.String(),
		Passed:         run.Verdict,
		Duration:       run.Duration,
		CasesTotal:     run.Total,
		CasesPassed:    run.Passed,
		CasesFailed:    len(run.Cases) - run.Passed,
		Timestamp:      run.Started,
	}

	if run.Err != nil {
		metric.ErrorMessage = run.Err.Error()
	}

	switch {
	case run.Setup == suite.OutcomeFailed || run.Setup == suite.OutcomeFault:
		metric.ErrorMessage = joinMessage(metric.ErrorMessage, "setup failed")
	case run.Teardown == suite.OutcomeFault:
		metric.ErrorMessage = joinMessage(metric.ErrorMessage, "teardown failed")
	}

	for _, c := range run.Cases {
		if c.Passed {
			continue
		}

		detail := metrics.FailedCaseDetail{Name: c.Name}
		if c.Err != nil {
			detail.Error = c.Err.Error()
		}

		metric.FailedCases = append(metric.FailedCases, detail)
	}

	return metric
}

func joinMessage(a, b string) string {
	if a == "" {
		return b
	}

	return a + ", " + b
}
