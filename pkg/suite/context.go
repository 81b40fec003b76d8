package suite

import (
	"fmt"
	"sync"
	"time"

	"github.com/ethpandaops/lilytest/pkg/capture"
	"github.com/sirupsen/logrus"
)

// Context is handed to setup, teardown and every test case of a run.
type Context struct {
	// Log is the suite's captured log.
	Log *capture.Logger

	suiteName  string
	reportPath string

	loggerOnce sync.Once
	logger     logrus.FieldLogger
}

// NewContext creates a Context writing to log. The engine creates one per
// run, it is exported for exercising suite functions directly.
func NewContext(suiteName, reportPath string, log *capture.Logger) *Context {
	return &Context{Log: log, suiteName: suiteName, reportPath: reportPath}
}

// SuiteName returns the name of the running suite.
func (c *Context) SuiteName() string {
	return c.suiteName
}

// ReportPath returns the directory the runner stores reports in, or an
// empty string when the suite runs outside a runner.
func (c *Context) ReportPath() string {
	return c.reportPath
}

// Logger returns a logrus logger whose entries land in Log.
func (c *Context) Logger() logrus.FieldLogger {
	c.loggerOnce.Do(func() {
		c.logger = capture.NewFieldLogger(c.Log).WithField("suite", c.suiteName)
	})

	return c.logger
}

// Fail logs message as an error and aborts the current test case. With
// NoFault it returns an error wrapping ErrFailed instead.
func (c *Context) Fail(message string, opts ...FailOption) error {
	o := failOptions{fault: true}
	for _, opt := range opts {
		opt(&o)
	}

	c.Log.Error(message)

	if o.fault {
		panic(&Fault{Message: message})
	}

	return fmt.Errorf("%s: %w", message, ErrFailed)
}

// FailIf calls Fail when cond is true. It returns !cond.
func (c *Context) FailIf(cond bool, message string, opts ...FailOption) bool {
	if cond {
		_ = c.Fail(message, opts...)
	}

	return !cond
}

// Sleep pauses the calling test case.
func (c *Context) Sleep(d time.Duration) {
	time.Sleep(d)
}

// Go starts fn in the background. See Go.
func (c *Context) Go(fn func() error) *Background {
	return Go(fn)
}
