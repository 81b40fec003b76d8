package suite

import (
	"errors"
	"fmt"
	"io"
	"runtime/debug"
	"strings"
	"time"

	"github.com/ethpandaops/lilytest/pkg/capture"
	"github.com/sirupsen/logrus"
)

// State is a step of the suite lifecycle.
type State string

const (
	StateInit            State = "init"
	StateSetupRunning    State = "setup_running"
	StateSetupFailed     State = "setup_failed"
	StateTestsRunning    State = "tests_running"
	StateTeardownRunning State = "teardown_running"
	StateFinalizing      State = "finalizing"
)

// Outcome is the result of setup or teardown.
type Outcome string

const (
	OutcomeSkipped Outcome = "skipped"
	OutcomePassed  Outcome = "passed"
	OutcomeFailed  Outcome = "failed"
	OutcomeFault   Outcome = "fault"
)

// CaseResult is the outcome of a single test case.
type CaseResult struct {
	Name     string
	Passed   bool
	Err      error
	Duration time.Duration
}

// Run is the record of one suite execution. State is the last state
// entered and Trace lists every state in order. Verdict is the final result
// after classification was applied. Err holds configuration errors such as
// ErrNoTestCases, or the fault raised while reading the suite name or
// classification.
type Run struct {
	Suite          string
	Classification Classification
	Cases          []CaseResult
	Setup          Outcome
	Teardown       Outcome
	State          State
	Trace          []State
	Passed         int
	Total          int
	Verdict        bool
	Err            error
	Started        time.Time
	Duration       time.Duration
	Log            *capture.Logger
}

// Ratio returns the percentage of passed test cases.
func (r *Run) Ratio() float64 {
	if r.Total == 0 {
		return 0
	}

	return 100 * float64(r.Passed) / float64(r.Total)
}

// Engine runs suites. The zero configuration runs without redirection,
// echo or traces.
type Engine struct {
	log         logrus.FieldLogger
	traceback   bool
	captureOpts []capture.Option
	reportPath  string
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the logger used for lifecycle traces.
func WithLogger(log logrus.FieldLogger) EngineOption {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithTraceback logs the stack of every fault after its message.
func WithTraceback(enabled bool) EngineOption {
	return func(e *Engine) {
		e.traceback = enabled
	}
}

// WithCapture sets the options each run's Logger is created with.
func WithCapture(opts ...capture.Option) EngineOption {
	return func(e *Engine) {
		e.captureOpts = append([]capture.Option(nil), opts...)
	}
}

// WithReportPath sets the directory returned by Context.ReportPath.
func WithReportPath(path string) EngineOption {
	return func(e *Engine) {
		e.reportPath = path
	}
}

// NewEngine creates an Engine.
func NewEngine(opts ...EngineOption) *Engine {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	e := &Engine{log: discard}
	for _, opt := range opts {
		opt(e)
	}

	e.log = e.log.WithField("component", "engine")

	return e
}

// RunSuite runs s on a new Engine.
func RunSuite(s Suite, opts ...EngineOption) *Run {
	return NewEngine(opts...).Run(s)
}

// Run executes the full lifecycle of s. It never panics, every fault raised
// by the suite is recorded in the returned Run and its log.
func (e *Engine) Run(s Suite) *Run {
	started := time.Now()
	log := capture.New(e.captureOpts...)
	defer log.Shutdown()

	name, classification, fault := describe(s)

	run := &Run{
		Suite:          name,
		Classification: classification,
		Setup:          OutcomeSkipped,
		Teardown:       OutcomeSkipped,
		Started:        started,
		Log:            log,
	}
	e.enter(run, StateInit)

	log.Infof("Run test suite: %s", run.Suite)

	var verdict bool
	if fault != nil {
		run.Err = fault
		log.Errorf("Test suite %s: FAILED by exception\nException: %s", run.Suite, fault.Message)
		e.logTrace(log, fault)
	} else {
		verdict = e.execute(NewContext(run.Suite, e.reportPath, log), s, run)
		verdict = e.classify(run, verdict)
	}

	e.enter(run, StateFinalizing)

	if verdict {
		log.Infof("Test suite %s: PASSED", run.Suite)
	} else {
		log.Errorf("Test suite %s: FAILED", run.Suite)
	}

	log.Shutdown()

	run.Verdict = verdict
	run.Duration = time.Since(started)

	e.log.WithFields(logrus.Fields{
		"suite":    run.Suite,
		"verdict":  verdict,
		"passed":   run.Passed,
		"total":    run.Total,
		"duration": run.Duration,
	}).Debug("Suite finished")

	return run
}

// describe reads the name and classification of s. A panic in either
// accessor is returned as a fault, the name then falls back to the type of s
// and the classification to Pass.
func describe(s Suite) (name string, classification Classification, fault *Fault) {
	name = fmt.Sprintf("%T", s)
	classification = Pass

	defer func() {
		if r := recover(); r != nil {
			fault = newFault(r, debug.Stack())
		}
	}()

	name = s.Name()
	classification = s.Classification()

	return name, classification, nil
}

// execute runs setup, the test cases and teardown and returns the verdict
// before classification.
func (e *Engine) execute(c *Context, s Suite, run *Run) (verdict bool) {
	log := c.Log

	defer func() {
		if r := recover(); r != nil {
			f := newFault(r, debug.Stack())
			log.Errorf("Test suite %s: FAILED by exception\nException: %s", run.Suite, f.Message)
			e.logTrace(log, f)

			verdict = false
		}
	}()

	cases := s.Cases()
	run.Total = len(cases)

	if len(cases) == 0 {
		run.Err = ErrNoTestCases
		log.Errorf("Test suite %s: FAILED: %s", run.Suite, ErrNoTestCases)

		return false
	}

	e.enter(run, StateSetupRunning)

	run.Setup = OutcomePassed
	if setup, ok := s.(SetupSuite); ok {
		err := e.invoke(c, setup.Setup)

		var f *Fault
		switch {
		case err == nil:
		case errors.As(err, &f):
			run.Setup = OutcomeFault
			log.Errorf("Test suite %s: FAILED by exception in setup\nException: %s", run.Suite, err)
			e.logTrace(log, f)
		default:
			run.Setup = OutcomeFailed
			log.Errorf("Test suite %s: FAILED: setup failed", run.Suite)
		}
	}

	if run.Setup == OutcomePassed {
		e.enter(run, StateTestsRunning)
		verdict = e.runCases(c, cases, run)
	} else {
		e.enter(run, StateSetupFailed)
	}

	e.enter(run, StateTeardownRunning)

	run.Teardown = OutcomePassed
	if teardown, ok := s.(TeardownSuite); ok {
		err := e.invoke(c, teardown.Teardown)

		var f *Fault
		switch {
		case err == nil:
		case errors.As(err, &f):
			run.Teardown = OutcomeFault
			log.Errorf("Test suite %s: FAILED by exception in teardown\nException: %s", run.Suite, err)
			e.logTrace(log, f)

			verdict = false
		default:
			// An explicit failure from teardown does not change the verdict.
			run.Teardown = OutcomeFailed
		}
	}

	return verdict
}

func (e *Engine) runCases(c *Context, cases []Case, run *Run) bool {
	log := c.Log

	for _, tc := range cases {
		fullName := run.Suite + "." + tc.Name
		log.Infof("Run test case: %s", fullName)

		start := time.Now()
		err := e.invoke(c, tc.Func)

		result := CaseResult{Name: tc.Name, Err: err, Duration: time.Since(start)}

		var f *Fault
		switch {
		case err == nil:
			result.Passed = true
			run.Passed++
			log.Infof("Test case %s: PASSED", fullName)
		case errors.As(err, &f):
			log.Errorf("Test case %s: FAILED by exception\nException: %s", fullName, err)
			e.logTrace(log, f)
		case err == ErrFailed: //nolint:errorlint // the bare sentinel carries no extra text
			log.Errorf("Test case %s: FAILED", fullName)
		default:
			log.Errorf("Test case %s: FAILED: %s", fullName, err)
		}

		run.Cases = append(run.Cases, result)
	}

	log.Infof("Test suite %s: %d of %d test cases passed (%.1f%%)", run.Suite, run.Passed, run.Total, run.Ratio())

	return run.Passed == run.Total
}

// classify applies the suite classification to the verdict.
func (e *Engine) classify(run *Run, verdict bool) bool {
	log := run.Log

	switch run.Classification {
	case Pass:
		return verdict
	case Fail:
		verdict = !verdict
		if verdict {
			log.Info("Test suite failed, but accepted because classification is set to 'FAIL'")
		} else {
			log.Error("Test suite passed, but a failure was expected because classification is set to 'FAIL'")
		}

		return verdict
	default:
		run.Err = errors.Join(run.Err, fmt.Errorf("%w: '%s'", ErrUnknownClassification, string(run.Classification)))
		log.Errorf("Test classification is not defined: '%s'", string(run.Classification))

		return false
	}
}

// invoke calls fn and converts its result. Nil means passed, an error
// wrapping ErrFailed is an explicit failure and everything else, panics
// included, comes back as or wrapping a *Fault.
func (e *Engine) invoke(c *Context, fn Func) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = newFault(r, debug.Stack())
		}
	}()

	if fn == nil {
		return nil
	}

	if err = fn(c); err == nil {
		return nil
	}

	var f *Fault
	if errors.As(err, &f) || errors.Is(err, ErrFailed) {
		return err
	}

	return newFault(err, nil)
}

func (e *Engine) logTrace(log *capture.Logger, f *Fault) {
	if !e.traceback || len(f.Stack) == 0 {
		return
	}

	log.Error(strings.TrimSpace(string(f.Stack)))
}

func (e *Engine) enter(run *Run, state State) {
	run.State = state
	run.Trace = append(run.Trace, state)

	e.log.WithFields(logrus.Fields{
		"suite": run.Suite,
		"state": state,
	}).Debug("Suite state changed")
}
