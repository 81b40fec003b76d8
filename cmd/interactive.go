// Package cmd contains CLI command definitions
package cmd

import (
	"errors"
	"fmt"
	"log"

	"github.com/ethpandaops/lilytest/internal/config"
	"github.com/ethpandaops/lilytest/internal/runplan"
	"github.com/ethpandaops/lilytest/internal/table"
	"github.com/ethpandaops/lilytest/pkg/interactive"
	"github.com/ethpandaops/lilytest/pkg/registry"
	"github.com/spf13/cobra"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Launch interactive mode",
	Long:  `Launches the interactive menu for picking and running test suites.`,
	Run: func(cmd *cobra.Command, _ []string) {
		RunInteractive(cmd)
	},
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

// RunInteractive shows the main menu until the user exits. A nil cmd uses
// the root command.
func RunInteractive(cmd *cobra.Command) {
	if cmd == nil {
		cmd = rootCmd
	}

	fmt.Println("lilytest - Interactive Mode")
	fmt.Println("===========================")
	fmt.Println()

	for {
		options := []interactive.MenuOption{
			{
				Name:        "Run All",
				Description: "Run every registered test suite",
				Action: func() error {
					reportRunOutcome(runSuites(cmd, &runOptions{}, nil))
					interactive.PauseForEnter()
					return nil
				},
			},
			{
				Name:        "Run Selected",
				Description: "Pick the test suites to run",
				Action: func() error {
					runSelected(cmd)
					interactive.PauseForEnter()
					return nil
				},
			},
			{
				Name:        "List Suites",
				Description: "Show the registered test suites",
				Action: func() error {
					listSuites(cmd.OutOrStdout(), table.NewRenderer(newLogger(false)), registry.All())
					interactive.PauseForEnter()
					return nil
				},
			},
			{
				Name:        "Show Config",
				Description: "Display current environment configuration",
				Action: func() error {
					if err := showConfig(cmd); err != nil {
						fmt.Printf("\n❌ Error: %v\n", err)
					}
					interactive.PauseForEnter()
					return nil
				},
			},
		}

		if err := interactive.ShowMainMenu(options); err != nil {
			if errors.Is(err, interactive.ErrExit) {
				fmt.Println("Goodbye!")
				return
			}
			log.Fatal(err)
		}

		fmt.Println()
	}
}

func runSelected(cmd *cobra.Command) {
	entries := registry.All()

	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		paths = append(paths, e.Path())
	}

	selected, err := interactive.SelectSuites(paths)
	if err != nil {
		fmt.Printf("\n❌ Error: %v\n", err)
		return
	}

	if !interactive.Confirm(fmt.Sprintf("Run %d test suites?", len(selected))) {
		fmt.Println("Run canceled.")
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("\n❌ Error: %v\n", err)
		return
	}

	opts := &runOptions{}

	plan, err := resolvePlan(cfg, opts, nil, runplan.NewLoader(newLogger(false)))
	if err != nil {
		fmt.Printf("\n❌ Error: %v\n", err)
		return
	}

	picked := make(map[string]bool, len(selected))
	for _, p := range selected {
		picked[p] = true
	}

	chosen := make([]registry.Entry, 0, len(selected))
	for _, e := range plan.Select(entries) {
		if picked[e.Path()] {
			chosen = append(chosen, e)
		}
	}

	reportRunOutcome(executeRun(cmd, newLogger(false), runnerConfig(cfg, opts, plan, newLogger(false)), chosen))
}

func reportRunOutcome(err error) {
	var exitErr *exitError

	switch {
	case err == nil:
		fmt.Println("\n✅ All test suites passed")
	case errors.As(err, &exitErr) && exitErr.err == nil:
		fmt.Printf("\n❌ Test run failed (exit code %d)\n", exitErr.code)
	default:
		fmt.Printf("\n❌ Error: %v\n", err)
	}
}
