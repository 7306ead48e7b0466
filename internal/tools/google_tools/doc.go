// Package google_tools provides MCP tools for the Google OAuth flow:
// obtaining the authorization URL and saving the authorization code.
package google_tools
