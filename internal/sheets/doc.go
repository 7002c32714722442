// Package sheets provides a Google Sheets adapter for creating
// spreadsheets, reading ranges and appending rows.
package sheets
