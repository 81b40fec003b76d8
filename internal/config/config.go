// Package config handles configuration loading and management
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the runner configuration loaded from environment variables.
type Config struct {
	ReportDir string
	PlanFile  string
	Include   []string
	Exclude   []string
	Echo      bool
	Redirect  bool
	StripANSI bool
	Traceback bool
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// It's okay if the file doesn't exist
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	cfg := &Config{
		ReportDir: getEnv("LILYTEST_REPORT_DIR", DefaultReportDir),
		PlanFile:  getEnv("LILYTEST_PLAN", ""),
		Include:   parseList(getEnv("LILYTEST_INCLUDE", "")),
		Exclude:   parseList(getEnv("LILYTEST_EXCLUDE", "")),
	}

	flags := []struct {
		key    string
		def    string
		target *bool
	}{
		{key: "LILYTEST_ECHO", def: "true", target: &cfg.Echo},
		{key: "LILYTEST_REDIRECT", def: "true", target: &cfg.Redirect},
		{key: "LILYTEST_STRIP_ANSI", def: "false", target: &cfg.StripANSI},
		{key: "LILYTEST_TRACEBACK", def: "false", target: &cfg.Traceback},
	}

	for _, f := range flags {
		v, err := strconv.ParseBool(getEnv(f.key, f.def))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", f.key, err)
		}

		*f.target = v
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseList parses a comma-separated list of patterns.
func parseList(s string) []string {
	if s == "" {
		return []string{}
	}

	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))

	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}

	return out
}

func (c *Config) String() string {
	planDisplay := c.PlanFile
	if planDisplay == "" {
		planDisplay = "(not set)"
	}

	return fmt.Sprintf(`Current Configuration:
======================
Report Directory:   %s
Run Plan:           %s
Include:            %s
Exclude:            %s
Echo:               %t
Redirect Output:    %t
Strip ANSI:         %t
Traceback:          %t`,
		c.ReportDir,
		planDisplay,
		listDisplay(c.Include, "(all)"),
		listDisplay(c.Exclude, "(none)"),
		c.Echo,
		c.Redirect,
		c.StripANSI,
		c.Traceback,
	)
}

func listDisplay(items []string, empty string) string {
	if len(items) == 0 {
		return empty
	}

	return strings.Join(items, ", ")
}
