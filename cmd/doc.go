// Package cmd implements the command-line interface for calendar-agent.
//
// This package provides the following commands:
//   - serve: Start the MCP server to provide schedule tools for AI assistants
//   - auth: Run the Google OAuth flow and store a token for an account
//   - check: List calendars and upcoming events to verify authorization
//   - version: Display version information
//
// The serve command is the default command when no subcommand is specified.
package cmd
