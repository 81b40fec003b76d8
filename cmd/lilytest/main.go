// Package main is the entry point for the lilytest application
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/ethpandaops/lilytest/cmd"
	"github.com/ethpandaops/lilytest/internal/exitcodes"
	_ "github.com/ethpandaops/lilytest/internal/selftest"
	"github.com/joho/godotenv"
)

const (
	envFlag      = "--env"
	envFlagEqual = "--env="
)

func main() {
	// Parse --env flag and determine mode
	envFile, runTUI := parseArgs(os.Args)

	if err := loadEnvFile(envFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading env file: %v\n", err)
		os.Exit(exitcodes.RuntimeErr)
	}

	// The env file may set LOG_LEVEL
	cmd.InitLogger()

	if runTUI {
		cmd.RunInteractive(nil)
		return
	}

	os.Args = stripEnvFlag(os.Args)
	cmd.Execute()
}

// parseArgs extracts the env file and reports whether only --env was given,
// in which case interactive mode starts.
func parseArgs(args []string) (envFile string, runTUI bool) {
	for i, arg := range args {
		if arg == envFlag && i+1 < len(args) {
			envFile = args[i+1]
			break
		}
		if strings.HasPrefix(arg, envFlagEqual) {
			envFile = arg[len(envFlagEqual):]
			break
		}
	}

	switch len(args) {
	case 1:
		return envFile, true
	case 2:
		if args[1] == envFlag {
			fmt.Fprintln(os.Stderr, "Error: --env flag requires a value")
			os.Exit(exitcodes.RuntimeErr)
		}
		return envFile, strings.HasPrefix(args[1], envFlagEqual)
	case 3:
		return envFile, args[1] == envFlag
	default:
		return envFile, false
	}
}

// stripEnvFlag removes --env and its value so cobra does not reject it.
func stripEnvFlag(args []string) []string {
	out := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == envFlag:
			i++
		case strings.HasPrefix(args[i], envFlagEqual):
		default:
			out = append(out, args[i])
		}
	}

	return out
}

// loadEnvFile loads the specified environment file
func loadEnvFile(file string) error {
	if file == "" {
		file = ".env"
	}

	if err := godotenv.Load(file); err != nil {
		// If it's the default .env file and it doesn't exist, that's okay
		if file == ".env" && os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to load env file '%s': %w", file, err)
	}

	return nil
}
