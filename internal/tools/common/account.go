package common

import (
	"context"

	mcpserver "github.com/mark3labs/mcp-go/server"
)

// GetAccountFromArgs extracts the account name from request arguments,
// defaulting to "default".
func GetAccountFromArgs(args map[string]interface{}) string {
	if accountVal, ok := args["account"].(string); ok && accountVal != "" {
		return accountVal
	}
	return "default"
}

// GetSessionID returns the MCP client session ID from the context.
// The session ID keys the two-phase delete: a proposal made in one
// session can only be confirmed by the same session. Stdio transport
// has a single client, which gets the "default" session.
func GetSessionID(ctx context.Context) string {
	if session := mcpserver.ClientSessionFromContext(ctx); session != nil {
		if id := session.SessionID(); id != "" {
			return id
		}
	}
	return "default"
}
