package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/tfxmock/pkg/cli/internal/output"
	"github.com/getmockd/tfxmock/pkg/store"
)

var fixturesCmd = &cobra.Command{
	Use:   "fixtures",
	Short: "Inspect and validate seed data files",
}

var fixturesDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the built-in seed data",
	Long: `Print the built-in seed data as YAML (or JSON with --json).

The output is a valid fixtures file and a starting point for custom seeds.`,
	Example: `  tfxmock fixtures dump > fixtures.yaml`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := store.DefaultFixtures()
		if jsonOutput {
			return output.JSON(cmd.OutOrStdout(), f)
		}
		return output.YAML(cmd.OutOrStdout(), f)
	},
}

var fixturesCheckCmd = &cobra.Command{
	Use:     "check <file>",
	Short:   "Validate a seed data file",
	Example: `  tfxmock fixtures check fixtures.yaml`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := store.LoadFixtures(args[0])
		if err != nil {
			return err
		}
		s, err := store.New(f)
		if err != nil {
			return fmt.Errorf("invalid fixtures: %w", err)
		}

		counts := s.Counts()
		if jsonOutput {
			return output.JSON(cmd.OutOrStdout(), counts)
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%s: ok\n", args[0])
		fmt.Fprintf(w, "  Projects:         %d\n", counts.Projects)
		fmt.Fprintf(w, "  Definitions:      %d\n", counts.Definitions)
		fmt.Fprintf(w, "  Builds:           %d\n", counts.Builds)
		fmt.Fprintf(w, "  Work items:       %d\n", counts.WorkItems)
		fmt.Fprintf(w, "  Task definitions: %d\n", counts.TaskDefinitions)
		return nil
	},
}

func init() {
	fixturesCmd.AddCommand(fixturesDumpCmd)
	fixturesCmd.AddCommand(fixturesCheckCmd)
	rootCmd.AddCommand(fixturesCmd)
}
