// Package metrics provides suite execution metrics collection and aggregation.
package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// FailedCaseDetail captures a single failed test case.
type FailedCaseDetail struct {
	Name  string
	Error string
}

// SuiteResultMetric captures metrics about a suite run
type SuiteResultMetric struct {
	Suite          string
	Path           string
	Classification string
	Passed         bool
	Duration       time.Duration
	CasesTotal     int
	CasesPassed    int
	CasesFailed    int
	ErrorMessage   string // empty if passed
	FailedCases    []FailedCaseDetail
	Timestamp      time.Time
}

// SummaryMetric provides aggregate statistics across all suites
type SummaryMetric struct {
	TotalDuration time.Duration
	TotalSuites   int
	PassedSuites  int
	FailedSuites  int
	TotalCases    int
	PassedCases   int
	PassRate      float64 // percentage of passed suites
}

// Collector interface for metrics collection
type Collector interface {
	Start(ctx context.Context) error
	Stop() error
	RecordSuiteResult(metric *SuiteResultMetric)
	GetSuiteMetrics() []SuiteResultMetric
	GetSummary() SummaryMetric
}

type collector struct {
	log          logrus.FieldLogger
	mu           sync.RWMutex
	suiteMetrics []SuiteResultMetric
	startTime    time.Time
}

// NewCollector creates a new metrics collector
func NewCollector(log logrus.FieldLogger) Collector {
	return &collector{
		log:          log.WithField("component", "metrics_collector"),
		suiteMetrics: make([]SuiteResultMetric, 0, 32),
	}
}

func (c *collector) Start(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startTime = time.Now()

	c.log.Debug("metrics collector started")

	return nil
}

func (c *collector) Stop() error {
	c.log.Debug("metrics collector stopped")

	return nil
}

func (c *collector) RecordSuiteResult(metric *SuiteResultMetric) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.suiteMetrics = append(c.suiteMetrics, *metric)
}

func (c *collector) GetSuiteMetrics() []SuiteResultMetric {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]SuiteResultMetric, len(c.suiteMetrics))
	copy(result, c.suiteMetrics)
	return result
}

func (c *collector) GetSummary() SummaryMetric {
	c.mu.RLock()
	defer c.mu.RUnlock()

	summary := SummaryMetric{
		TotalSuites: len(c.suiteMetrics),
	}

	if !c.startTime.IsZero() {
		summary.TotalDuration = time.Since(c.startTime)
	}

	for _, sm := range c.suiteMetrics {
		if sm.Passed {
			summary.PassedSuites++
		} else {
			summary.FailedSuites++
		}

		summary.TotalCases += sm.CasesTotal
		summary.PassedCases += sm.CasesPassed
	}

	if summary.TotalSuites > 0 {
		summary.PassRate = float64(summary.PassedSuites) / float64(summary.TotalSuites) * 100.0
	}

	return summary
}

// Compile-time interface compliance check
var _ Collector = (*collector)(nil)
