// Package runplan loads run plans. A run plan selects and orders the
// registered suites and carries the report options of a run.
package runplan

import (
	"errors"
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var (
	errInvalidPattern  = errors.New("invalid suite pattern")
	errEmptySuiteName  = errors.New("suite name is empty")
	errDuplicateSuite  = errors.New("suite listed more than once")
	errFirstAndLast    = errors.New("suite listed in both run_first and run_last")
	errInvalidListNode = errors.New("expected a string or a list of strings")
)

// Plan is the content of a run plan file.
type Plan struct {
	// RunFirst names suites run before all others, in the given order.
	RunFirst StringList `yaml:"run_first"`
	// RunLast names suites run after all others, in the given order.
	RunLast StringList `yaml:"run_last"`
	// Include and Exclude are doublestar patterns matched against suite paths.
	Include          []string `yaml:"include"`
	Exclude          []string `yaml:"exclude"`
	ReportDir        string   `yaml:"report_dir"`
	CreateHTMLReport bool     `yaml:"create_html_report"`
	NoLogFiles       bool     `yaml:"no_log_files"`
	Traceback        bool     `yaml:"traceback"`
	OpenInBrowser    bool     `yaml:"open_in_browser"`
}

// StringList accepts either a single string or a sequence of strings.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Value == "" {
			*s = nil
			return nil
		}

		*s = StringList{node.Value}

		return nil
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return err
		}

		*s = items

		return nil
	default:
		return fmt.Errorf("line %d: %w", node.Line, errInvalidListNode)
	}
}

// Loader loads run plan files.
type Loader interface {
	Load(path string) (*Plan, error)
}

type loader struct {
	log logrus.FieldLogger
}

// NewLoader creates a new run plan loader.
func NewLoader(log logrus.FieldLogger) Loader {
	return &loader{
		log: log.WithField("component", "runplan_loader"),
	}
}

// Load reads, parses and validates the plan at path.
func (l *loader) Load(path string) (*Plan, error) {
	l.log.WithField("path", path).Debug("loading run plan")

	data, err := os.ReadFile(path) //nolint:gosec // G304: plan path is supplied by the operator
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	plan, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading plan from %s: %w", path, err)
	}

	return plan, nil
}

// Parse decodes and validates a plan.
func Parse(data []byte) (*Plan, error) {
	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}

	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("validating plan: %w", err)
	}

	return &plan, nil
}

// Validate checks patterns and the run_first and run_last lists.
func (p *Plan) Validate() error {
	for _, group := range [][]string{p.Include, p.Exclude} {
		for _, pattern := range group {
			if !doublestar.ValidatePattern(pattern) {
				return fmt.Errorf("%w: %q", errInvalidPattern, pattern)
			}
		}
	}

	seen := make(map[string]string, len(p.RunFirst)+len(p.RunLast))

	for _, list := range []struct {
		key   string
		names StringList
	}{
		{key: "run_first", names: p.RunFirst},
		{key: "run_last", names: p.RunLast},
	} {
		for _, name := range list.names {
			if name == "" {
				return fmt.Errorf("%w in %s", errEmptySuiteName, list.key)
			}

			prev, ok := seen[name]
			switch {
			case !ok:
				seen[name] = list.key
			case prev == list.key:
				return fmt.Errorf("%w: %s in %s", errDuplicateSuite, name, list.key)
			default:
				return fmt.Errorf("%w: %s", errFirstAndLast, name)
			}
		}
	}

	return nil
}
