package google

// DefaultOAuthScopes are the Google OAuth scopes required for full deskmate
// functionality.
//
// The scopes provide access to:
//   - Gmail: read, send, drafts
//   - Google Calendar: full access
//   - Google Sheets: full access
//   - Google Docs: full access
var DefaultOAuthScopes = []string{
	// OpenID Connect scopes (required for user info)
	"openid",
	"https://www.googleapis.com/auth/userinfo.email",

	// Gmail scopes
	"https://mail.google.com/", // Full Gmail access (includes send and drafts)
	"https://www.googleapis.com/auth/gmail.readonly",
	"https://www.googleapis.com/auth/gmail.modify",
	"https://www.googleapis.com/auth/gmail.send",

	// Google Calendar scope
	"https://www.googleapis.com/auth/calendar",

	// Google Sheets scope
	"https://www.googleapis.com/auth/spreadsheets",

	// Google Docs scope
	"https://www.googleapis.com/auth/documents",
}
