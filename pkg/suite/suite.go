// Package suite runs test suites through a fixed setup, test case and
// teardown lifecycle and records the outcome in a capture.Logger.
package suite

// Func is the signature of setup, teardown and test case functions.
//
// Returning nil passes, returning an error wrapping ErrFailed fails
// explicitly, any other error or a panic is a fault.
type Func func(c *Context) error

// Case is a named test case.
type Case struct {
	Name string
	Func Func
}

// Suite is a named, ordered collection of test cases.
type Suite interface {
	Name() string
	Classification() Classification
	Cases() []Case
}

// SetupSuite is implemented by suites that need preparation before their
// test cases run.
type SetupSuite interface {
	Setup(c *Context) error
}

// TeardownSuite is implemented by suites that release resources after
// their test cases ran.
type TeardownSuite interface {
	Teardown(c *Context) error
}

// Definition is a Suite assembled with Define.
type Definition struct {
	name           string
	classification Classification
	setup          Func
	teardown       Func
	cases          []Case
}

var (
	_ Suite         = (*Definition)(nil)
	_ SetupSuite    = (*Definition)(nil)
	_ TeardownSuite = (*Definition)(nil)
)

// Define starts a suite definition classified as Pass.
func Define(name string) *Definition {
	return &Definition{name: name, classification: Pass}
}

// Classify sets the expected outcome.
func (d *Definition) Classify(c Classification) *Definition {
	d.classification = c
	return d
}

// OnSetup sets the setup function.
func (d *Definition) OnSetup(fn Func) *Definition {
	d.setup = fn
	return d
}

// OnTeardown sets the teardown function.
func (d *Definition) OnTeardown(fn Func) *Definition {
	d.teardown = fn
	return d
}

// Case appends a test case. Cases run in the order they are added.
func (d *Definition) Case(name string, fn Func) *Definition {
	d.cases = append(d.cases, Case{Name: name, Func: fn})
	return d
}

// Name implements Suite.
func (d *Definition) Name() string { return d.name }

// Classification implements Suite.
func (d *Definition) Classification() Classification { return d.classification }

// Cases implements Suite.
func (d *Definition) Cases() []Case {
	out := make([]Case, len(d.cases))
	copy(out, d.cases)

	return out
}

// Setup implements SetupSuite.
func (d *Definition) Setup(c *Context) error {
	if d.setup == nil {
		return nil
	}

	return d.setup(c)
}

// Teardown implements TeardownSuite.
func (d *Definition) Teardown(c *Context) error {
	if d.teardown == nil {
		return nil
	}

	return d.teardown(c)
}
