package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ethpandaops/lilytest/internal/config"
	"github.com/ethpandaops/lilytest/pkg/registry"
	"github.com/ethpandaops/lilytest/pkg/suite"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var started = time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)

func pass(*suite.Context) error { return nil }

func newTestRunner(t *testing.T, out *bytes.Buffer, mutate func(*Config)) (*Runner, string) {
	t.Helper()

	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	dir := t.TempDir()
	log := logrus.New()
	log.SetOutput(out)

	cfg := &Config{
		Logger:    log,
		Writer:    out,
		ReportDir: dir,
		Now:       func() time.Time { return started },
	}
	if mutate != nil {
		mutate(cfg)
	}

	r := New(cfg)
	require.NoError(t, r.Start(context.Background()))
	t.Cleanup(func() { require.NoError(t, r.Stop()) })

	return r, filepath.Join(dir, "20240305_140709")
}

func entries(t *testing.T, suites ...suite.Suite) []registry.Entry {
	t.Helper()

	reg := registry.New()
	for _, s := range suites {
		require.NoError(t, reg.RegisterAt("group", s))
	}

	return reg.All()
}

func readLines(t *testing.T, path string) []string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if parts := strings.SplitN(l, " | ", 3); len(parts) == 3 {
			l = parts[2]
		}
		out = append(out, l)
	}

	return out
}

func TestRunWritesReports(t *testing.T) {
	var out bytes.Buffer
	r, dir := newTestRunner(t, &out, func(c *Config) { c.HTMLReport = true })

	result, err := r.Run(context.Background(), entries(t,
		suite.Define("TestA").Case("ok", pass),
		suite.Define("TestB").Case("bad", func(*suite.Context) error { return suite.ErrFailed }),
	))
	require.NoError(t, err)

	assert.False(t, result.Verdict)
	assert.Equal(t, 1, result.Passed)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, dir, result.ReportDir)
	assert.NotEmpty(t, result.RunID)

	assert.FileExists(t, filepath.Join(dir, "1_TestRunner.txt"))
	assert.FileExists(t, filepath.Join(dir, "2_TestA.txt"))
	assert.FileExists(t, filepath.Join(dir, "3_TestB.txt"))
	assert.FileExists(t, filepath.Join(dir, config.HTMLReportName))

	runnerLines := readLines(t, filepath.Join(dir, "1_TestRunner.txt"))
	assert.Equal(t, []string{
		"Run 2 test suites, run ID: " + result.RunID,
		"",
		"Run test suite: group/TestA",
		"Test suite TestA: PASSED",
		"",
		"Run test suite: group/TestB",
		"Test suite TestB: FAILED",
		"",
		"1 of 2 test suites passed (50.0%)",
		"Test runner result: FAILED",
	}, runnerLines)

	suiteLines := readLines(t, filepath.Join(dir, "2_TestA.txt"))
	assert.Equal(t, "Run test suite: TestA", suiteLines[0])
	assert.Equal(t, "Test suite TestA: PASSED", suiteLines[len(suiteLines)-1])

	assert.Contains(t, out.String(), "✗ group/TestB: 0/1 cases")
	assert.Contains(t, out.String(), "Suite Results")
	assert.Contains(t, out.String(), "▸ Running 2 test suites")
	assert.Contains(t, out.String(), "Test runner result: FAILED")
}

func TestRunPadsReportIndex(t *testing.T) {
	var out bytes.Buffer
	r, dir := newTestRunner(t, &out, nil)

	suites := make([]suite.Suite, 0, 9)
	for i := range 9 {
		suites = append(suites, suite.Define(fmt.Sprintf("Test%d", i)).Case("ok", pass))
	}

	result, err := r.Run(context.Background(), entries(t, suites...))
	require.NoError(t, err)
	assert.True(t, result.Verdict)

	assert.FileExists(t, filepath.Join(dir, "01_TestRunner.txt"))
	assert.FileExists(t, filepath.Join(dir, "02_Test0.txt"))
	assert.FileExists(t, filepath.Join(dir, "10_Test8.txt"))
	assert.Contains(t, out.String(), "Test runner result: PASSED")
}

func TestRunWithoutLogFiles(t *testing.T) {
	var out bytes.Buffer
	r, dir := newTestRunner(t, &out, func(c *Config) { c.NoLogFiles = true })

	result, err := r.Run(context.Background(), entries(t, suite.Define("TestA").Case("ok", pass)))
	require.NoError(t, err)
	assert.True(t, result.Verdict)

	assert.NoDirExists(t, dir)
}

func TestRunWithoutSuites(t *testing.T) {
	var out bytes.Buffer
	r, dir := newTestRunner(t, &out, nil)

	result, err := r.Run(context.Background(), nil)
	require.NoError(t, err)

	assert.False(t, result.Verdict)
	assert.Equal(t, []string{"No test suites found"}, readLines(t, filepath.Join(dir, "1_TestRunner.txt")))
}

func TestRunStopsWhenCancelled(t *testing.T) {
	var out bytes.Buffer
	r, dir := newTestRunner(t, &out, nil)

	ctx, cancel := context.WithCancel(context.Background())

	result, err := r.Run(ctx, entries(t,
		suite.Define("TestA").Case("cancel", func(*suite.Context) error {
			cancel()
			return nil
		}),
		suite.Define("TestB").Case("never", func(*suite.Context) error {
			t.Error("suite ran after cancellation")
			return nil
		}),
	))

	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, result.Verdict)
	assert.Len(t, result.Suites, 1)
	assert.Contains(t, readLines(t, filepath.Join(dir, "1_TestRunner.txt")), "Test run cancelled: context canceled")
}

func TestRunPassesReportPath(t *testing.T) {
	var out bytes.Buffer
	r, dir := newTestRunner(t, &out, nil)

	var got string

	_, err := r.Run(context.Background(), entries(t, suite.Define("TestPath").Case("path", func(c *suite.Context) error {
		got = c.ReportPath()
		return nil
	})))
	require.NoError(t, err)

	assert.Equal(t, dir, got)
}

func TestRunReportError(t *testing.T) {
	var out bytes.Buffer

	// A file where the report directory should be makes every write fail.
	blocker := filepath.Join(t.TempDir(), "blocked")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	r, _ := newTestRunner(t, &out, func(c *Config) { c.ReportDir = blocker })

	result, err := r.Run(context.Background(), entries(t, suite.Define("TestA").Case("ok", pass)))
	require.ErrorIs(t, err, ErrReport)
	assert.True(t, result.Verdict)
}

func TestSuiteMetric(t *testing.T) {
	e := entries(t, suite.Define("TestSetup").
		OnSetup(func(*suite.Context) error { return suite.ErrFailed }).
		Case("ok", pass))[0]

	run := suite.RunSuite(e.Suite)
	metric := suiteMetric(e, run)

	assert.Equal(t, "group/TestSetup", metric.Path)
	assert.Equal(t, "PASS", metric.Classification)
	assert.False(t, metric.Passed)
	assert.Equal(t, "setup failed", metric.ErrorMessage)
	assert.Equal(t, 1, metric.CasesTotal)
	assert.Zero(t, metric.CasesFailed)
}

func TestRunOpensHTMLReport(t *testing.T) {
	tests := []struct {
		name     string
		html     bool
		openErr  error
		expected int
	}{
		{name: "opens the written report", html: true, expected: 1},
		{name: "browser failure keeps the run result", html: true, openErr: errors.New("no display"), expected: 1},
		{name: "nothing to open without html", html: false, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				out    bytes.Buffer
				opened []string
			)

			r, dir := newTestRunner(t, &out, func(c *Config) {
				c.HTMLReport = tt.html
				c.OpenInBrowser = true
				c.OpenBrowser = func(path string) error {
					opened = append(opened, path)
					return tt.openErr
				}
			})

			result, err := r.Run(context.Background(), entries(t, suite.Define("TestA").Case("ok", pass)))
			require.NoError(t, err)
			assert.True(t, result.Verdict)

			require.Len(t, opened, tt.expected)
			if tt.expected > 0 {
				assert.Equal(t, filepath.Join(dir, config.HTMLReportName), opened[0])
			}
		})
	}
}
