package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the calendar-agent application
var rootCmd = &cobra.Command{
	Use:   "calendar-agent",
	Short: "Schedule management engine for AI assistants",
	Long: `calendar-agent resolves natural-language schedule requests against
Google Calendar and Google Tasks. It creates, searches, reschedules and
deletes events, with a confirmation step before anything is deleted.

It can run as:
  - An MCP (Model Context Protocol) server for AI assistants (default)
  - A CLI for authorizing accounts and inspecting the calendar`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "calendar-agent version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newVersionCmd())
}
