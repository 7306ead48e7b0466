// Package schedule_tools provides the MCP tools for schedule management:
// creating, searching, and modifying calendar events, and the two-phase
// deletion flow (propose, then confirm within the same session).
package schedule_tools
