package selftest

import "github.com/ethpandaops/lilytest/pkg/suite"

func failMethodNoFaultSuite() suite.Suite {
	return suite.Define("TestFailNoException").
		Classify(suite.Fail).
		Case("fail", func(c *suite.Context) error {
			return c.Fail("This should not generate an exception, but should fail", suite.NoFault())
		})
}

func failMethodWithFaultSuite() suite.Suite {
	return suite.Define("TestFailWithException").
		Classify(suite.Fail).
		Case("fail", func(c *suite.Context) error {
			return c.Fail("This should generate an exception")
		})
}

func failIfNoFaultSuite() suite.Suite {
	return suite.Define("TestFailIfNoException").
		Classify(suite.Fail).
		Case("fail_if", func(c *suite.Context) error {
			if !c.FailIf(true, "This should not generate an exception, but should fail", suite.NoFault()) {
				return suite.ErrFailed
			}

			return nil
		})
}

func failIfWithFaultSuite() suite.Suite {
	return suite.Define("TestFailIfWithException").
		Classify(suite.Fail).
		Case("fail_if", func(c *suite.Context) error {
			c.FailIf(true, "This should generate an exception")
			return nil
		})
}

func environmentCleanupSuite() suite.Suite {
	return suite.Define("TestEnvironmentCleanup").
		Case("setup_cleanup", func(c *suite.Context) error {
			c.Log.Info("Clean up test environment, nothing to cleanup for now...")
			return nil
		})
}
