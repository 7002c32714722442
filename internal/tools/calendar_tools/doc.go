// Package calendar_tools registers the Google Calendar tool family:
// listing, creating and deleting events.
package calendar_tools
