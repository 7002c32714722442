package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the deskmate application
var rootCmd = &cobra.Command{
	Use:   "deskmate",
	Short: "Conversational desk assistant for Google Workspace and Notion",
	Long: `deskmate is a conversational assistant that turns chat messages into
Gmail, Calendar, Sheets, Docs, Tasks and Notion operations through a
tool-calling reasoning backend.

It can run as:
  - An HTTP server exposing /chat and /mail endpoints (default)
  - An MCP (Model Context Protocol) server over stdio for AI assistants`,
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
	rootCmd.SetVersionTemplate(`{{printf "deskmate version %s\n" .Version}}`)

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
	rootCmd.AddCommand(newVersionCmd())
}
