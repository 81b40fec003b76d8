package selftest

import (
	"fmt"

	"github.com/ethpandaops/lilytest/pkg/suite"
)

func passSuite() suite.Suite {
	return suite.Define("TestPass").
		Case("pass_by_return_nil", func(*suite.Context) error { return nil }).
		Case("pass_after_logging", func(c *suite.Context) error {
			c.Log.Info("Nothing to check, this case always passes")
			return nil
		})
}

// orderSuite checks that cases run in declaration order.
type orderSuite struct {
	order []int
}

func (s *orderSuite) Name() string                         { return "TestOrder" }
func (s *orderSuite) Classification() suite.Classification { return suite.Pass }

func (s *orderSuite) Setup(*suite.Context) error {
	s.order = s.order[:0]
	return nil
}

func (s *orderSuite) Cases() []suite.Case {
	names := []string{"first", "second", "third", "fourth"}
	cases := make([]suite.Case, 0, len(names)+1)

	for i, name := range names {
		cases = append(cases, suite.Case{Name: name, Func: func(*suite.Context) error {
			s.order = append(s.order, i)
			return nil
		}})
	}

	return append(cases, suite.Case{Name: "order", Func: s.checkOrder})
}

func (s *orderSuite) checkOrder(c *suite.Context) error {
	c.Log.Debugf("Order: %v", s.order)

	for i, j := range s.order {
		c.FailIf(i != j, fmt.Sprintf("Test order is not correct for index %d, value %d", i, j))
	}

	return nil
}

func failNoExceptionSuite() suite.Suite {
	return suite.Define("TestFailNoException").
		Classify(suite.Fail).
		Case("fail_by_return_failed", func(*suite.Context) error { return suite.ErrFailed })
}

func failWithExceptionSuite() suite.Suite {
	return suite.Define("TestFailWithException").
		Classify(suite.Fail).
		Case("fail_by_panic", func(*suite.Context) error {
			_ = divide(1, 0)
			return nil
		})
}

func setupFailReturnFalseSuite() suite.Suite {
	return suite.Define("TestSetupFailReturnFalse").
		Classify(suite.Fail).
		OnSetup(func(*suite.Context) error { return suite.ErrFailed }).
		Case("dummy", func(*suite.Context) error { return nil })
}

func setupFailExceptionSuite() suite.Suite {
	return suite.Define("TestSetupFailException").
		Classify(suite.Fail).
		OnSetup(func(*suite.Context) error {
			_ = divide(1, 0)
			return nil
		}).
		Case("dummy", func(*suite.Context) error { return nil })
}

func teardownFailExceptionSuite() suite.Suite {
	return suite.Define("TestTeardownFailException").
		Classify(suite.Fail).
		Case("dummy", func(*suite.Context) error { return nil }).
		OnTeardown(func(*suite.Context) error {
			_ = divide(1, 0)
			return nil
		})
}

func emptySuite() suite.Suite {
	return suite.Define("TestEmpty").Classify(suite.Fail)
}
