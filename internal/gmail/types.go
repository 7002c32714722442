package gmail

import "time"

// MessageSummary is a simplified Gmail message for listing.
type MessageSummary struct {
	ID      string
	From    string
	To      string
	Subject string
	Date    time.Time
	Snippet string
}
