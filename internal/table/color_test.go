package table

import (
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestColorHelper_FormatStatus(t *testing.T) {
	// Disable colors for consistent testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	helper := NewColorHelper()

	t.Run("passed status", func(t *testing.T) {
		assert.Equal(t, "✓ PASS", helper.FormatStatus(true))
	})

	t.Run("failed status", func(t *testing.T) {
		assert.Equal(t, "✗ FAIL", helper.FormatStatus(false))
	})
}

func TestColorHelper_FormatCases(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	helper := NewColorHelper()

	tests := []struct {
		name     string
		passed   int
		total    int
		expected string
	}{
		{name: "all passed", passed: 5, total: 5, expected: "5/5"},
		{name: "partial pass", passed: 3, total: 5, expected: "3/5"},
		{name: "all failed", passed: 0, total: 5, expected: "0/5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, helper.FormatCases(tt.passed, tt.total))
		})
	}
}

func TestColorHelper_FormatPercentage(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	helper := NewColorHelper()

	tests := []struct {
		value    float64
		expected string
	}{
		{value: 100.0, expected: "100.0%"},
		{value: 90.0, expected: "90.0%"},
		{value: 33.333, expected: "33.3%"},
		{value: 0.0, expected: "0.0%"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, helper.FormatPercentage(tt.value))
		})
	}
}

func TestColorHelper_ColorsDisabledWhenNoColor(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	helper := NewColorHelper()
	assert.False(t, helper.enabled)

	assert.Equal(t, "test", helper.Success("test"))
	assert.Equal(t, "test", helper.Failure("test"))
	assert.Equal(t, "FAIL", helper.FormatClassification("FAIL"))
}
