// Package google handles OAuth2 credentials for the Google Workspace
// services deskmate drives (Gmail, Calendar, Sheets, Docs).
//
// Tokens are stored per account in the user cache directory. The
// TokenProvider interface abstracts token retrieval so service clients do
// not care where tokens come from.
package google
