package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethpandaops/lilytest/internal/config"
	"github.com/ethpandaops/lilytest/internal/exitcodes"
	"github.com/ethpandaops/lilytest/internal/runner"
	"github.com/ethpandaops/lilytest/internal/runplan"
	"github.com/ethpandaops/lilytest/pkg/registry"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// runOptions holds the flags of the run command.
type runOptions struct {
	reportDir  string
	planFile   string
	runFirst   []string
	runLast    []string
	exclude    []string
	traceback  bool
	noLogFiles bool
	html       bool
	verbose    bool
	noEcho     bool
	noRedirect bool
	stripANSI  bool
	open       bool
}

var runOpts runOptions

var runCmd = &cobra.Command{
	Use:   "run [pattern...]",
	Short: "Run registered test suites",
	Long: `Run the registered test suites sequentially and write one report file per suite.

Patterns are doublestar globs matched against the suite path (group/name) or
the bare suite name. Without patterns every registered suite runs.

Example:
  lilytest run
  lilytest run 'basic_pass_fail/*' --html
  lilytest run --plan plan.yaml --run-last TestEnvironmentCleanup`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSuites(cmd, &runOpts, args)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	f := runCmd.Flags()
	f.StringVar(&runOpts.reportDir, "report-dir", "", "Directory for the report files (default from LILYTEST_REPORT_DIR)")
	f.StringVar(&runOpts.planFile, "plan", "", "Run plan file (default from LILYTEST_PLAN)")
	f.StringSliceVar(&runOpts.runFirst, "run-first", nil, "Suites to run before all others")
	f.StringSliceVar(&runOpts.runLast, "run-last", nil, "Suites to run after all others")
	f.StringSliceVar(&runOpts.exclude, "exclude", nil, "Patterns of suites to skip")
	f.BoolVar(&runOpts.traceback, "traceback", false, "Log the stack trace of every exception")
	f.BoolVar(&runOpts.noLogFiles, "no-log-files", false, "Do not write text report files")
	f.BoolVar(&runOpts.html, "html", false, "Write an HTML report")
	f.BoolVar(&runOpts.open, "open", false, "Open the HTML report in a browser when the run is done")
	f.BoolVarP(&runOpts.verbose, "verbose", "v", false, "Enable verbose output")
	f.BoolVar(&runOpts.noEcho, "no-echo", false, "Do not echo suite logs to the terminal")
	f.BoolVar(&runOpts.noRedirect, "no-redirect", false, "Do not capture stdout and stderr of suites")
	f.BoolVar(&runOpts.stripANSI, "strip-ansi", false, "Remove ANSI escape codes from captured output")
}

func runSuites(cmd *cobra.Command, opts *runOptions, include []string) error {
	log := newLogger(opts.verbose)

	cfg, err := config.Load()
	if err != nil {
		return &exitError{code: exitcodes.RuntimeErr, err: fmt.Errorf("failed to load config: %w", err)}
	}

	plan, err := resolvePlan(cfg, opts, include, runplan.NewLoader(log))
	if err != nil {
		return &exitError{code: exitcodes.RuntimeErr, err: err}
	}

	return executeRun(cmd, log, runnerConfig(cfg, opts, plan, log), plan.Select(registry.All()))
}

// resolvePlan merges the run plan file, the environment and the flags.
// Flags win over the plan file, the plan file wins over the environment.
// Include patterns given on the command line replace all others, exclude
// patterns add up.
func resolvePlan(cfg *config.Config, opts *runOptions, include []string, loader runplan.Loader) (*runplan.Plan, error) {
	planFile := opts.planFile
	if planFile == "" {
		planFile = cfg.PlanFile
	}

	plan := &runplan.Plan{}
	if planFile != "" {
		loaded, err := loader.Load(planFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load run plan: %w", err)
		}

		plan = loaded
	}

	switch {
	case len(include) > 0:
		plan.Include = include
	case len(plan.Include) == 0:
		plan.Include = cfg.Include
	}

	plan.Exclude = append(append(plan.Exclude, cfg.Exclude...), opts.exclude...)
	plan.RunFirst = append(plan.RunFirst, opts.runFirst...)
	plan.RunLast = append(plan.RunLast, opts.runLast...)

	switch {
	case opts.reportDir != "":
		plan.ReportDir = opts.reportDir
	case plan.ReportDir == "":
		plan.ReportDir = cfg.ReportDir
	}

	plan.CreateHTMLReport = plan.CreateHTMLReport || opts.html
	plan.NoLogFiles = plan.NoLogFiles || opts.noLogFiles
	plan.Traceback = plan.Traceback || opts.traceback || cfg.Traceback
	plan.OpenInBrowser = plan.OpenInBrowser || opts.open

	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("invalid run options: %w", err)
	}

	return plan, nil
}

func runnerConfig(cfg *config.Config, opts *runOptions, plan *runplan.Plan, log logrus.FieldLogger) *runner.Config {
	return &runner.Config{
		Logger:        log,
		Verbose:       opts.verbose,
		ReportDir:     plan.ReportDir,
		NoLogFiles:    plan.NoLogFiles,
		HTMLReport:    plan.CreateHTMLReport,
		OpenInBrowser: plan.OpenInBrowser,
		Redirect:      cfg.Redirect && !opts.noRedirect,
		Echo:          cfg.Echo && !opts.noEcho,
		StripANSI:     cfg.StripANSI || opts.stripANSI,
		Traceback:     plan.Traceback,
	}
}

// executeRun runs entries and maps the outcome onto an exit code.
func executeRun(cmd *cobra.Command, log logrus.FieldLogger, rc *runner.Config, entries []registry.Entry) error {
	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := runner.New(rc)
	if err := r.Start(ctx); err != nil {
		return &exitError{code: exitcodes.RuntimeErr, err: fmt.Errorf("starting runner: %w", err)}
	}

	defer func() {
		if err := r.Stop(); err != nil {
			log.WithError(err).Warn("Failed to stop runner")
		}
	}()

	result, err := r.Run(ctx, entries)

	switch {
	case errors.Is(err, context.Canceled):
		log.Warn("Received interrupt signal, test run cancelled")
		return &exitError{code: exitcodes.Interrupted}
	case err != nil:
		return &exitError{code: exitcodes.RuntimeErr, err: err}
	}

	if !rc.NoLogFiles || rc.HTMLReport {
		fmt.Fprintf(cmd.OutOrStdout(), "Reports written to %s\n", result.ReportDir)
	}

	if !result.Verdict {
		return &exitError{code: exitcodes.TestFailure}
	}

	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}
