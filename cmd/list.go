package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/ethpandaops/lilytest/internal/runplan"
	"github.com/ethpandaops/lilytest/internal/table"
	"github.com/ethpandaops/lilytest/pkg/registry"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list [pattern...]",
	Short: "List registered test suites",
	Long: `Lists the registered test suites in run order. Patterns filter the list the
same way they filter the run command.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		plan := &runplan.Plan{Include: args}
		if err := plan.Validate(); err != nil {
			return fmt.Errorf("invalid pattern: %w", err)
		}

		listSuites(cmd.OutOrStdout(), table.NewRenderer(newLogger(false)), plan.Select(registry.All()))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func listSuites(w io.Writer, renderer table.Renderer, entries []registry.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No test suites found")
		return
	}

	colors := table.NewColorHelper()
	rows := make([][]string, 0, len(entries))

	for _, e := range entries {
		rows = append(rows, []string{
			e.Path(),
			colors.FormatClassification(e.Suite.Classification().String()),
			countCases(e),
		})
	}

	renderer.RenderToWriter(w, []string{"Suite", "Expect", "Cases"}, rows, table.WithBorder(false))
	fmt.Fprintf(w, "%d test suites\n", len(entries))
}

// countCases returns the number of cases as text, or "?" when listing them
// panics.
func countCases(e registry.Entry) (count string) {
	defer func() {
		if recover() != nil {
			count = "?"
		}
	}()

	return strconv.Itoa(len(e.Suite.Cases()))
}
