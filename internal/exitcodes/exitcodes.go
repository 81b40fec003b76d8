// Package exitcodes defines the process exit codes of lilytest.
package exitcodes

const (
	Success     = 0   // All suites passed
	TestFailure = 1   // One or more suites failed, or no suites were selected
	RuntimeErr  = 2   // Configuration, plan or report errors
	Interrupted = 130 // 128 + SIGINT, the run was cancelled
)
