// Package tasks wraps the Google Tasks API for reminder and to-do
// management. The zero task list ID resolves to the account's default
// list.
package tasks
