// Package docs_tools registers the Google Docs tool family: creating
// documents, reading document content as plain text and appending text.
package docs_tools
