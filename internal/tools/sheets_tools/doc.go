// Package sheets_tools registers the Google Sheets tool family:
// creating spreadsheets, reading ranges and appending rows.
package sheets_tools
