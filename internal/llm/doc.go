// Package llm wraps the external reasoning service behind a small client
// interface. The engine issues at most one completion per resolution and
// treats the service as a black box: no streaming, no retries, no schema
// enforcement beyond what the caller validates.
package llm
