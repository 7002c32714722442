// Package notes_tools registers the Notion tool family: searching
// pages, creating notes in a database and querying databases.
package notes_tools
