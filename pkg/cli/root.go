package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Persistent flags available to all subcommands
	jsonOutput bool

	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tfxmock",
	Short: "tfxmock simulates a build and work tracking service for client tests",
	Long: `tfxmock runs an in-process stand-in for a TFS / Azure DevOps style
collection (projects, build definitions, builds, work items and build tasks)
so that command-line clients can be tested without a network dependency.

Configuration can be provided via flags, TFXMOCK_* environment variables, or
a configuration file. Flags win over the environment, which wins over the file.`,
	SilenceUsage:  true,
	SilenceErrors: true, // We handle errors in Execute()
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output command results in JSON format")
}
