// Package tasks_tools provides reminder and to-do tools backed by
// Google Tasks.
package tasks_tools
