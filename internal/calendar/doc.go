// Package calendar provides a Google Calendar adapter for listing,
// creating and deleting events on behalf of an authenticated account.
//
// All operations run against the account's calendars using OAuth2
// credentials resolved through internal/google. Event times are
// normalized to time.Time on the way in and out; the Calendar API's
// split between all-day dates and timed RFC 3339 datetimes is handled
// internally.
package calendar
