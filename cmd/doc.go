// Package cmd implements the command-line interface for deskmate.
//
// This package provides the following commands:
//   - serve: Start the assistant server (HTTP or MCP stdio transport)
//   - auth: Exchange a Google OAuth authorization code for a stored token
//   - version: Display version information
//
// The serve command is the default command when no subcommand is specified.
package cmd
