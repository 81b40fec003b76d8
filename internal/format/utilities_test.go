package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDuration(t *testing.T) {
	tests := []struct {
		in       time.Duration
		expected string
	}{
		{in: 250 * time.Microsecond, expected: "250µs"},
		{in: 42 * time.Millisecond, expected: "42ms"},
		{in: 1500 * time.Millisecond, expected: "1.5s"},
		{in: 90 * time.Second, expected: "1.5m"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, Duration(tt.in))
		})
	}
}

func TestRatio(t *testing.T) {
	assert.Equal(t, "0.0%", Ratio(0, 0))
	assert.Equal(t, "33.3%", Ratio(1, 3))
	assert.Equal(t, "100.0%", Ratio(4, 4))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcdefg...", Truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ab", Truncate("abcdef", 2))
}
