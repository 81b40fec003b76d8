// Package registry holds the suites known to the runner. Suites register
// themselves explicitly, usually from an init function.
package registry

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"sync"

	"github.com/ethpandaops/lilytest/pkg/suite"
)

var (
	// ErrDuplicate is returned when a suite path is registered twice.
	ErrDuplicate = errors.New("suite already registered")
	// ErrInvalidSuite is returned for a nil suite or a suite without a name.
	ErrInvalidSuite = errors.New("invalid suite")
)

// Entry is a registered suite.
type Entry struct {
	Group string
	Suite suite.Suite
}

// Path returns "group/name", or the name for suites without a group.
func (e Entry) Path() string {
	if e.Group == "" {
		return e.Suite.Name()
	}

	return path.Join(e.Group, e.Suite.Name())
}

// Registry is a set of suites keyed by path.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Default is the registry used by the package-level functions.
var Default = New()

// Register adds s without a group.
func (r *Registry) Register(s suite.Suite) error {
	return r.RegisterAt("", s)
}

// RegisterAt adds s under group.
func (r *Registry) RegisterAt(group string, s suite.Suite) error {
	if name, ok := suiteName(s); !ok || name == "" {
		return ErrInvalidSuite
	}

	e := Entry{Group: group, Suite: s}
	key := e.Path()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[key]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, key)
	}

	r.entries[key] = e

	return nil
}

// suiteName reports false for a nil suite, including a typed nil whose Name
// panics.
func suiteName(s suite.Suite) (name string, ok bool) {
	if s == nil {
		return "", false
	}

	defer func() {
		if recover() != nil {
			name, ok = "", false
		}
	}()

	return s.Name(), true
}

// All returns every entry ordered by path.
func (r *Registry) All() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Path() < out[j].Path()
	})

	return out
}

// Len returns the number of registered suites.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entries)
}

// Register adds s to Default and panics on error.
func Register(s suite.Suite) {
	RegisterAt("", s)
}

// RegisterAt adds s under group to Default and panics on error.
func RegisterAt(group string, s suite.Suite) {
	if err := Default.RegisterAt(group, s); err != nil {
		panic(fmt.Sprintf("registry: %v", err))
	}
}

// All returns every suite of Default ordered by path.
func All() []Entry {
	return Default.All()
}
