// Package common provides shared helpers for MCP tool packages: account
// and session extraction, and instrumented handler wrappers.
package common
