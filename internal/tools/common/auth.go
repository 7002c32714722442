package common

import (
	"fmt"

	"github.com/deskmate/deskmate/internal/google"
)

// AuthRequiredMessage builds the walkthrough returned when a tool needs
// Google access but no token is stored for the account.
func AuthRequiredMessage() string {
	return fmt.Sprintf(`Google OAuth token not found. To authorize access:

1. Visit this URL in your browser:
   %s

2. Sign in with your Google account
3. Grant access to Google services (Gmail, Calendar, Sheets, Docs)
4. Copy the authorization code
5. Run: deskmate auth <authorization-code>

You only need to authorize once. Tokens are refreshed automatically.`, google.GetAuthURL())
}
