// Package tasks provides the gateway to the Google Tasks backend for
// to-do items. The engine only ever touches the authenticated identity's
// default task list.
package tasks
