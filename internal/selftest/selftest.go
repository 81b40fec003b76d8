// Package selftest holds the calibration suites of lilytest. Every suite is
// built so that its final verdict is PASSED, including the ones classified
// FAIL whose test cases are expected to fail.
package selftest

import (
	"fmt"

	"github.com/ethpandaops/lilytest/pkg/registry"
	"github.com/ethpandaops/lilytest/pkg/suite"
)

const (
	GroupBasic       = "basic_pass_fail"
	GroupFailMethods = "test_fail_methods"
)

type grouped struct {
	group string
	suite suite.Suite
}

func suites() []grouped {
	return []grouped{
		{group: GroupBasic, suite: passSuite()},
		{group: GroupBasic, suite: &orderSuite{}},
		{group: GroupBasic, suite: failNoExceptionSuite()},
		{group: GroupBasic, suite: failWithExceptionSuite()},
		{group: GroupBasic, suite: setupFailReturnFalseSuite()},
		{group: GroupBasic, suite: setupFailExceptionSuite()},
		{group: GroupBasic, suite: teardownFailExceptionSuite()},
		{group: GroupBasic, suite: emptySuite()},
		{group: GroupFailMethods, suite: failMethodNoFaultSuite()},
		{group: GroupFailMethods, suite: failMethodWithFaultSuite()},
		{group: GroupFailMethods, suite: failIfNoFaultSuite()},
		{group: GroupFailMethods, suite: failIfWithFaultSuite()},
		{suite: environmentCleanupSuite()},
	}
}

// Register adds the calibration suites to r.
func Register(r *registry.Registry) error {
	for _, s := range suites() {
		if err := r.RegisterAt(s.group, s.suite); err != nil {
			return fmt.Errorf("registering %s: %w", s.suite.Name(), err)
		}
	}

	return nil
}

func init() {
	if err := Register(registry.Default); err != nil {
		panic(err)
	}
}

// divide is kept out of line so the division by zero happens at run time.
func divide(a, b int) int {
	return a / b
}
