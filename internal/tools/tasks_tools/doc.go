// Package tasks_tools provides MCP tools for to-do items backed by
// Google Tasks: creating items on and listing items from the user's
// default task list.
package tasks_tools
