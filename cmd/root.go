package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/ethpandaops/lilytest/internal/exitcodes"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Logger is the shared logger instance for all commands
	Logger *logrus.Logger

	rootCmd = &cobra.Command{
		Use:   "lilytest",
		Short: "lilytest - suite based test runner",
		Long: `lilytest runs registered test suites, captures everything they log or
print and writes one report file per suite.

Run without arguments to launch interactive mode, or use subcommands for direct operations.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// exitError carries the process exit code of a finished command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit code %d", e.code)
	}

	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// Execute runs the root command and exits with the matching exit code
func Execute() {
	os.Exit(exitCode(rootCmd.Execute()))
}

func exitCode(err error) int {
	if err == nil {
		return exitcodes.Success
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		if exitErr.err != nil {
			fmt.Fprintln(os.Stderr, exitErr.err)
		}

		return exitErr.code
	}

	fmt.Fprintln(os.Stderr, err)

	return exitcodes.RuntimeErr
}

func init() {
	// Load .env file if it exists
	_ = godotenv.Load()

	InitLogger()
}

// InitLogger (re)creates the shared logger from LOG_LEVEL. It is called again
// after an env file was loaded.
func InitLogger() {
	Logger = logrus.New()

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		// Can't use Logger here since it might not be set up yet
		fmt.Printf("Invalid LOG_LEVEL '%s', defaulting to 'info'\n", logLevel)
		level = logrus.InfoLevel
	}
	Logger.SetLevel(level)
}
