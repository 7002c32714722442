// Package docs provides a Google Docs adapter for creating documents,
// appending text and extracting document content as plain text.
//
// Content extraction supports both legacy documents (body only) and
// tabbed documents introduced in October 2024 (document.tabs populated,
// possibly nested).
package docs
